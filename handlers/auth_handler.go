package handlers

import (
	"errors"
	"net/http"

	"github.com/LettersBlue/african-nations-league-sub000/services"
	"github.com/LettersBlue/african-nations-league-sub000/utils"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if !utils.IsValidEmail(input.Email) {
		badRequestResponse(w, r, errors.New("invalid email address"))
		return
	}

	user, token, err := h.authService.Register(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"user": user, "token": token}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, token, err := h.authService.Login(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"user": user, "token": token}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
