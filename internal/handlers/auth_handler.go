package handlers

import (
	"net/http"

	"github.com/Varun5711/attendly/internal/auth"
	"github.com/Varun5711/attendly/internal/logger"
	"github.com/Varun5711/attendly/internal/middleware"
	usermodel "github.com/Varun5711/attendly/internal/models/user"
	"github.com/Varun5711/attendly/internal/service"
)

type AuthHandler struct {
	users    *service.UserService
	sessions *auth.SessionManager
	log      *logger.Logger
}

func NewAuthHandler(users *service.UserService, sessions *auth.SessionManager, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		log:      log,
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req usermodel.SignupRequest
	if !decodeJSON(w, r, h.log, &req) {
		return
	}

	user, err := h.users.Signup(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, "Signup", err)
		return
	}

	if err := h.sessions.CreateSession(w, user.ID, user.Email, user.Name); err != nil {
		handleServiceError(w, h.log, "Signup", err)
		return
	}

	respondSuccess(w, h.log)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req usermodel.LoginRequest
	if !decodeJSON(w, r, h.log, &req) {
		return
	}

	user, err := h.users.Login(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, "Login", err)
		return
	}

	if err := h.sessions.CreateSession(w, user.ID, user.Email, user.Name); err != nil {
		handleServiceError(w, h.log, "Login", err)
		return
	}

	respondSuccess(w, h.log)
}

// Logout clears the cookie only; a copied token stays valid until expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.DeleteSession(w)
	respondSuccess(w, h.log)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	profile, err := h.users.Profile(r.Context(), middleware.GetSession(r.Context()))
	if err != nil {
		handleServiceError(w, h.log, "Profile", err)
		return
	}

	respondJSON(w, h.log, http.StatusOK, profile)
}
