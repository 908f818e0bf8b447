package handlers

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Lixing-Zhang/foodgram/backend/internal/middleware"
	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
	"github.com/Lixing-Zhang/foodgram/backend/internal/repository"
	"github.com/Lixing-Zhang/foodgram/backend/internal/service"
	"github.com/Lixing-Zhang/foodgram/backend/internal/shopping"
)

// RecipeHandler handles recipe-related HTTP requests
type RecipeHandler struct {
	recipes   *service.RecipeService
	favorites *service.FavoriteService
	cart      *service.ShoppingCartService
	paginator Paginator
	logger    *slog.Logger
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(
	recipes *service.RecipeService,
	favorites *service.FavoriteService,
	cart *service.ShoppingCartService,
	paginator Paginator,
	logger *slog.Logger,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:   recipes,
		favorites: favorites,
		cart:      cart,
		paginator: paginator,
		logger:    logger,
	}
}

// ListRecipes handles GET /api/recipes
// Supported filters: author, tags (repeatable), is_favorited, is_in_shopping_cart
func (h *RecipeHandler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	page, err := h.paginator.Parse(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	filter, err := recipeFilter(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	recipes, count, err := h.recipes.ListRecipes(r.Context(), filter, page.Offset(), page.Limit)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to list recipes")
		return
	}
	writePage(w, r, page, recipes, count, h.logger)
}

// recipeFilter reads the listing filters; viewer-relative ones only apply
// to authenticated callers
func recipeFilter(r *http.Request) (repository.RecipeFilter, error) {
	q := r.URL.Query()
	var filter repository.RecipeFilter

	if raw := q.Get("author"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return filter, errInvalidFilter
		}
		author := uint(id)
		filter.AuthorID = &author
	}
	filter.TagSlugs = q["tags"]

	favorited, err := boolFilter(q, "is_favorited")
	if err != nil {
		return filter, err
	}
	inCart, err := boolFilter(q, "is_in_shopping_cart")
	if err != nil {
		return filter, err
	}

	if user := middleware.UserFromContext(r.Context()); user != nil {
		filter.ViewerID = user.ID
		filter.IsFavorited = favorited
		filter.IsInCart = inCart
	}
	return filter, nil
}

// GetRecipe handles GET /api/recipes/{id}
func (h *RecipeHandler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, service.ErrRecipeNotFound.Error(), h.logger)
		return
	}

	recipe, err := h.recipes.GetRecipe(r.Context(), viewerID(r), id)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to get recipe", "recipe_id", id)
		return
	}
	WriteJSON(w, http.StatusOK, recipe, h.logger)
}

// CreateRecipe handles POST /api/recipes
func (h *RecipeHandler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req models.RecipeRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	user := middleware.UserFromContext(r.Context())
	recipe, err := h.recipes.CreateRecipe(r.Context(), user.ID, req)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to create recipe", "user_id", user.ID)
		return
	}

	h.logger.Info("recipe created", "recipe_id", recipe.ID, "user_id", user.ID)
	WriteJSON(w, http.StatusCreated, recipe, h.logger)
}

// UpdateRecipe handles PUT /api/recipes/{id}
func (h *RecipeHandler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, service.ErrRecipeNotFound.Error(), h.logger)
		return
	}

	var req models.RecipeRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	user := middleware.UserFromContext(r.Context())
	recipe, err := h.recipes.UpdateRecipe(r.Context(), user.ID, id, req)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to update recipe", "recipe_id", id)
		return
	}
	WriteJSON(w, http.StatusOK, recipe, h.logger)
}

// PatchRecipe handles PATCH /api/recipes/{id}; omitted fields keep their values
func (h *RecipeHandler) PatchRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, service.ErrRecipeNotFound.Error(), h.logger)
		return
	}

	var patch models.RecipePatch
	if !decodeAndValidate(w, r, &patch, h.logger) {
		return
	}

	user := middleware.UserFromContext(r.Context())
	recipe, err := h.recipes.PatchRecipe(r.Context(), user.ID, id, patch)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to patch recipe", "recipe_id", id)
		return
	}
	WriteJSON(w, http.StatusOK, recipe, h.logger)
}

// DeleteRecipe handles DELETE /api/recipes/{id}
func (h *RecipeHandler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, service.ErrRecipeNotFound.Error(), h.logger)
		return
	}

	user := middleware.UserFromContext(r.Context())
	if err := h.recipes.DeleteRecipe(r.Context(), user.ID, id); err != nil {
		writeServiceError(w, err, h.logger, "failed to delete recipe", "recipe_id", id)
		return
	}

	h.logger.Info("recipe deleted", "recipe_id", id, "user_id", user.ID)
	w.WriteHeader(http.StatusNoContent)
}

// AddFavorite handles GET|POST /api/recipes/{id}/favorite
func (h *RecipeHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, "favorite", h.favorites.AddFavorite, nil)
}

// RemoveFavorite handles DELETE /api/recipes/{id}/favorite
func (h *RecipeHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, "favorite", nil, h.favorites.RemoveFavorite)
}

// AddToCart handles GET|POST /api/recipes/{id}/shopping_cart
func (h *RecipeHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, "shopping_cart", h.cart.AddToCart, nil)
}

// RemoveFromCart handles DELETE /api/recipes/{id}/shopping_cart
func (h *RecipeHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, "shopping_cart", nil, h.cart.RemoveFromCart)
}

type (
	addFunc    func(ctx context.Context, userID, recipeID uint) (*models.RecipeShort, error)
	removeFunc func(ctx context.Context, userID, recipeID uint) error
)

// toggle runs exactly one of add or remove for the current user.
// A malformed id names no recipe, which toggles report as 400.
func (h *RecipeHandler) toggle(w http.ResponseWriter, r *http.Request, kind string, add addFunc, remove removeFunc) {
	id, ok := idParam(r, "id")
	if !ok {
		WriteError(w, http.StatusBadRequest, service.ErrRecipeDoesNotExist.Error(), h.logger)
		return
	}
	user := middleware.UserFromContext(r.Context())

	if add != nil {
		short, err := add(r.Context(), user.ID, id)
		if err != nil {
			writeServiceError(w, err, h.logger, "failed to add recipe", "kind", kind, "recipe_id", id)
			return
		}
		WriteJSON(w, http.StatusCreated, short, h.logger)
		return
	}

	if err := remove(r.Context(), user.ID, id); err != nil {
		writeServiceError(w, err, h.logger, "failed to remove recipe", "kind", kind, "recipe_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DownloadShoppingCart handles GET /api/recipes/download_shopping_cart
func (h *RecipeHandler) DownloadShoppingCart(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	totals, err := h.cart.ShoppingList(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err, h.logger, "failed to build shopping list", "user_id", user.ID)
		return
	}

	var buf bytes.Buffer
	if err := shopping.Render(&buf, totals); err != nil {
		h.logger.Error("failed to render shopping list", "error", err, "user_id", user.ID)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("failed to write shopping list", "error", err)
	}
}

// viewerID is the authenticated user's id, or zero for anonymous callers
func viewerID(r *http.Request) uint {
	if user := middleware.UserFromContext(r.Context()); user != nil {
		return user.ID
	}
	return 0
}
