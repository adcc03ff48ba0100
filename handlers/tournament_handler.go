package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/LettersBlue/african-nations-league-sub000/middleware"
	"github.com/LettersBlue/african-nations-league-sub000/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(tournamentService services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: tournamentService}
}

func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	organizerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.OrganizerID = organizerID

	tournament, err := h.tournamentService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	tournament, err := h.tournamentService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.tournamentService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RegisterTeam добавляет команду в число участников турнира.
func (h *TournamentHandler) RegisterTeam(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TeamID string `json:"team_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tournamentService.RegisterTeam(r.Context(), chi.URLParam(r, "id"), input.TeamID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "team registered"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Start запускает турнир: генерирует сетку и четвертьфинальные матчи.
func (h *TournamentHandler) Start(w http.ResponseWriter, r *http.Request) {
	tournament, err := h.tournamentService.Start(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
