package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/autoseller/internal/infra/http/middleware"
	"github.com/xavierca1/autoseller/internal/usecase"
)

type AuthHandler struct {
	Auth AuthService
	Log  logrus.FieldLogger
}

func NewAuthHandler(auth AuthService, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{Auth: auth, Log: log}
}

// SignUp (POST /auth/signup)
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var input usecase.SignUpInput
	if !decodeJSON(w, r, &input) {
		return
	}

	out, err := h.Auth.SignUp(r.Context(), input)
	if err != nil {
		writeUsecaseError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// SignIn (POST /auth/signin)
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var input usecase.SignInInput
	if !decodeJSON(w, r, &input) {
		return
	}

	out, err := h.Auth.SignIn(r.Context(), input)
	if err != nil {
		writeUsecaseError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// SignOut (POST /auth/signout) encerra a sessão do token atual.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.SignOut(r.Context(), middleware.BearerToken(r)); err != nil {
		writeUsecaseError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
