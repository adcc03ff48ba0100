package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/LettersBlue/african-nations-league-sub000/config"
	"github.com/LettersBlue/african-nations-league-sub000/db"
	"github.com/LettersBlue/african-nations-league-sub000/handlers"
	"github.com/LettersBlue/african-nations-league-sub000/live"
	"github.com/LettersBlue/african-nations-league-sub000/repositories"
	api "github.com/LettersBlue/african-nations-league-sub000/routes"
	"github.com/LettersBlue/african-nations-league-sub000/services"
	"github.com/LettersBlue/african-nations-league-sub000/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	if err := db.Migrate(context.Background(), dbConn); err != nil {
		logger.Error("failed to apply database schema", slog.Any("error", err))
		os.Exit(1)
	}

	// Хранилище флагов опционально: без него загрузка флага будет недоступна.
	var uploader storage.FileUploader
	if cfg.FlagStorageEnabled() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("flag storage not configured, flag uploads disabled")
	}

	hub := live.NewHub()
	go hub.Run()
	logger.Info("websocket hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var mailer services.ResultMailer
	if cfg.EmailEnabled() {
		mailer = services.NewEmailService(cfg, userRepo, logger)
	} else {
		logger.Warn("SMTP not configured, result emails disabled")
	}

	authService := services.NewAuthService(userRepo, cfg.JWTSecretKey)
	teamService := services.NewTeamService(teamRepo, uploader, rng)
	tournamentService := services.NewTournamentService(dbConn, tournamentRepo, teamRepo, matchRepo, rng, logger)
	matchService := services.NewMatchService(dbConn, matchRepo, teamRepo, tournamentRepo, hub, mailer, logger)
	logger.Info("services initialized")

	authHandler := handlers.NewAuthHandler(authService)
	teamHandler := handlers.NewTeamHandler(teamService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	matchHandler := handlers.NewMatchHandler(matchService, hub)
	webSocketHandler := handlers.NewWebSocketHandler(hub)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		authHandler,
		teamHandler,
		tournamentHandler,
		matchHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
}
