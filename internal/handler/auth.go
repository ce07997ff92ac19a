// Package handler translates HTTP requests into service calls and service
// results into JSON responses. Handlers parse and delegate; every rule about
// what makes input acceptable lives in the service layer.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/simple-todo/internal/service"
)

// AuthHandler serves account registration and login.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger,
	}
}

// credentialsRequest is the body of both /api/register and /api/login.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /api/register
// Body: {"email": "...", "password": "..."}
// → 201 {"id": ..., "email": "..."} | 400 | 409
//
// The response marshals the model.User directly; its password field is
// json:"-" so only id and email go out.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// HandleLogin verifies credentials.
//
// HTTP: POST /api/login
// Body: {"email": "...", "password": "..."}
// → 200 {"id": ..., "email": "..."} | 401
//
// There is no session to establish — the 200 is the whole outcome, and the
// client keeps the returned id for subsequent requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
