package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/foodgram/backend/internal/middleware"
	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
	"github.com/Lixing-Zhang/foodgram/backend/internal/service"
)

// UserHandler handles user accounts and subscriptions
type UserHandler struct {
	users         *service.UserService
	subscriptions *service.SubscriptionService
	paginator     Paginator
	logger        *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(
	users *service.UserService,
	subscriptions *service.SubscriptionService,
	paginator Paginator,
	logger *slog.Logger,
) *UserHandler {
	return &UserHandler{
		users:         users,
		subscriptions: subscriptions,
		paginator:     paginator,
		logger:        logger,
	}
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := h.paginator.Parse(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	users, count, err := h.users.ListUsers(r.Context(), viewerID(r), page.Offset(), page.Limit)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to list users")
		return
	}
	writePage(w, r, page, users, count, h.logger)
}

// Register handles POST /api/users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.UserCreateRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	user, err := h.users.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to register user")
		return
	}

	h.logger.Info("user registered", "user_id", user.ID)
	WriteJSON(w, http.StatusCreated, user, h.logger)
}

// Me handles GET /api/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	WriteJSON(w, http.StatusOK, models.NewUserResponse(user, false), h.logger)
}

// GetUser handles GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, service.ErrUserNotFound.Error(), h.logger)
		return
	}

	user, err := h.users.GetUser(r.Context(), viewerID(r), id)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to get user", "user_id", id)
		return
	}
	WriteJSON(w, http.StatusOK, user, h.logger)
}

// SetPassword handles POST /api/users/set_password
func (h *UserHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.SetPasswordRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	user := middleware.UserFromContext(r.Context())
	if err := h.users.SetPassword(r.Context(), user, req); err != nil {
		writeServiceError(w, err, h.logger, "failed to set password", "user_id", user.ID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Subscriptions handles GET /api/users/subscriptions?recipes_limit=
func (h *UserHandler) Subscriptions(w http.ResponseWriter, r *http.Request) {
	page, err := h.paginator.Parse(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	user := middleware.UserFromContext(r.Context())
	authors, count, err := h.subscriptions.ListSubscriptions(
		r.Context(), user.ID, page.Offset(), page.Limit, recipesLimit(r.URL.Query()),
	)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to list subscriptions", "user_id", user.ID)
		return
	}
	writePage(w, r, page, authors, count, h.logger)
}

// Subscribe handles GET|POST /api/users/{id}/subscribe
func (h *UserHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, service.ErrUserNotFound.Error(), h.logger)
		return
	}

	user := middleware.UserFromContext(r.Context())
	author, err := h.subscriptions.Subscribe(r.Context(), user.ID, id, recipesLimit(r.URL.Query()))
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to subscribe", "user_id", user.ID, "author_id", id)
		return
	}
	WriteJSON(w, http.StatusCreated, author, h.logger)
}

// Unsubscribe handles DELETE /api/users/{id}/subscribe
func (h *UserHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, service.ErrUserNotFound.Error(), h.logger)
		return
	}

	user := middleware.UserFromContext(r.Context())
	if err := h.subscriptions.Unsubscribe(r.Context(), user.ID, id); err != nil {
		writeServiceError(w, err, h.logger, "failed to unsubscribe", "user_id", user.ID, "author_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
