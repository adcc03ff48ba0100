package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/LettersBlue/african-nations-league-sub000/services"
)

const maxFlagUploadSize = 5 << 20 // 5MB

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(teamService services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	team, err := h.teamService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RegenerateSquad пересоздаёт заявку команды. Доступно до старта турнира.
func (h *TeamHandler) RegenerateSquad(w http.ResponseWriter, r *http.Request) {
	team, err := h.teamService.RegenerateSquad(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadFlag принимает multipart-файл в поле "flag" и загружает его в
// объектное хранилище.
func (h *TeamHandler) UploadFlag(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFlagUploadSize); err != nil {
		badRequestResponse(w, r, errors.New("failed to parse multipart form"))
		return
	}

	file, header, err := r.FormFile("flag")
	if err != nil {
		badRequestResponse(w, r, errors.New("missing file field 'flag'"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType != "image/png" && contentType != "image/jpeg" && contentType != "image/svg+xml" {
		badRequestResponse(w, r, errors.New("flag must be a PNG, JPEG or SVG image"))
		return
	}

	team, err := h.teamService.UploadFlag(r.Context(), chi.URLParam(r, "id"), contentType, header.Filename, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.teamService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
