package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/LettersBlue/african-nations-league-sub000/models"
	"github.com/LettersBlue/african-nations-league-sub000/services"
)

// TimelineReplayer воспроизводит сохранённую хронологию в комнате турнира.
type TimelineReplayer interface {
	ReplayTimeline(tournamentID, matchID string, timeline []models.MatchEvent)
}

type MatchHandler struct {
	matchService services.MatchService
	replayer     TimelineReplayer
}

func NewMatchHandler(matchService services.MatchService, replayer TimelineReplayer) *MatchHandler {
	return &MatchHandler{matchService: matchService, replayer: replayer}
}

func (h *MatchHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	match, err := h.matchService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListByTournament отдаёт матчи турнира с опциональными фильтрами
// ?round=semi_final и ?status=completed.
func (h *MatchHandler) ListByTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "id")

	var round *models.Round
	if raw := r.URL.Query().Get("round"); raw != "" {
		value := models.Round(raw)
		if !value.Valid() {
			badRequestResponse(w, r, errors.New("invalid round filter"))
			return
		}
		round = &value
	}

	var status *models.MatchStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		value := models.MatchStatus(raw)
		status = &value
	}

	matches, err := h.matchService.ListByTournament(r.Context(), tournamentID, round, status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Simulate разыгрывает запланированный матч и возвращает результат вместе с
// хронологией.
func (h *MatchHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	match, err := h.matchService.Simulate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Timeline отдаёт хронологию сыгранного матча.
func (h *MatchHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	match, err := h.matchService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if match.Status != models.MatchStatusCompleted {
		badRequestResponse(w, r, errors.New("match has not been played yet"))
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"timeline": match.Timeline}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Replay запускает трансляцию сохранённой хронологии в websocket-комнату
// турнира: события уходят подписчикам с паузами по пейсингу.
func (h *MatchHandler) Replay(w http.ResponseWriter, r *http.Request) {
	match, err := h.matchService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if match.Status != models.MatchStatusCompleted {
		badRequestResponse(w, r, errors.New("match has not been played yet"))
		return
	}

	h.replayer.ReplayTimeline(match.TournamentID, match.ID, match.Timeline)

	if err := writeJSON(w, http.StatusAccepted, jsonResponse{"message": "replay started"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
