package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/LettersBlue/african-nations-league-sub000/handlers"
	"github.com/LettersBlue/african-nations-league-sub000/middleware"
	"github.com/LettersBlue/african-nations-league-sub000/models"
)

func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	teamHandler *handlers.TeamHandler,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)

	router.Post("/auth/signup", authHandler.SignUp)
	router.Post("/auth/signin", authHandler.SignIn)

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", teamHandler.List)
		r.Get("/{id}", teamHandler.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", teamHandler.Create)
			r.Post("/{id}/squad/regenerate", teamHandler.RegenerateSquad)
			r.Post("/{id}/flag", teamHandler.UploadFlag)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authorize(models.RoleAdmin))
				r.Delete("/{id}", teamHandler.Delete)
			})
		})
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.List)
		r.Get("/{id}", tournamentHandler.GetByID)
		r.Get("/{id}/matches", matchHandler.ListByTournament)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", tournamentHandler.Create)
			r.Post("/{id}/teams", tournamentHandler.RegisterTeam)
			r.Post("/{id}/start", tournamentHandler.Start)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{id}", matchHandler.GetByID)
		r.Get("/{id}/timeline", matchHandler.Timeline)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/{id}/simulate", matchHandler.Simulate)
			r.Post("/{id}/replay", matchHandler.Replay)
		})
	})

	router.Get("/ws/tournaments/{id}", webSocketHandler.ServeWs)
}
