package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/foodgram/backend/internal/middleware"
	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
	"github.com/Lixing-Zhang/foodgram/backend/internal/service"
)

// AuthHandler issues and revokes tokens
type AuthHandler struct {
	service *service.AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

// Login handles POST /api/auth/token/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err, h.logger, "login failed")
		return
	}
	WriteJSON(w, http.StatusOK, models.TokenResponse{AuthToken: token}, h.logger)
}

// Logout handles POST /api/auth/token/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	tokenID := middleware.TokenIDFromContext(r.Context())
	if err := h.service.Logout(r.Context(), tokenID); err != nil {
		writeServiceError(w, err, h.logger, "logout failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
