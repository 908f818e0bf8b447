package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/foodgram/backend/internal/service"
)

// CatalogHandler serves tags and ingredients
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger,
	}
}

// ListTags handles GET /api/tags
func (h *CatalogHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.ListTags(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to list tags")
		return
	}
	WriteJSON(w, http.StatusOK, tags, h.logger)
}

// GetTag handles GET /api/tags/{id}
func (h *CatalogHandler) GetTag(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, service.ErrTagNotFound.Error(), h.logger)
		return
	}

	tag, err := h.service.GetTag(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to get tag", "tag_id", id)
		return
	}
	WriteJSON(w, http.StatusOK, tag, h.logger)
}

// ListIngredients handles GET /api/ingredients?name=
func (h *CatalogHandler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.service.SearchIngredients(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to search ingredients")
		return
	}
	WriteJSON(w, http.StatusOK, ingredients, h.logger)
}

// GetIngredient handles GET /api/ingredients/{id}
func (h *CatalogHandler) GetIngredient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, service.ErrIngredientNotFound.Error(), h.logger)
		return
	}

	ingredient, err := h.service.GetIngredient(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to get ingredient", "ingredient_id", id)
		return
	}
	WriteJSON(w, http.StatusOK, ingredient, h.logger)
}
