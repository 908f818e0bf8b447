package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lixing-Zhang/foodgram/backend/internal/metrics"
	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
	"github.com/Lixing-Zhang/foodgram/backend/internal/repository"
	"github.com/Lixing-Zhang/foodgram/backend/internal/shopping"
)

// recipeSet is a per-user set of recipes such as favorites or the shopping cart
type recipeSet interface {
	Add(ctx context.Context, userID, recipeID uint) error
	Remove(ctx context.Context, userID, recipeID uint) (bool, error)
	Exists(ctx context.Context, userID, recipeID uint) (bool, error)
}

// recipeToggle adds and removes recipes in a recipeSet with duplicate and
// absence checks. The unique index behind Add is the final guard.
type recipeToggle struct {
	kind       string
	recipes    repository.RecipeRepository
	set        recipeSet
	errExists  error
	errMissing error
}

func (t recipeToggle) add(ctx context.Context, userID, recipeID uint) (short *models.RecipeShort, err error) {
	defer func() { metrics.RecordToggle(t.kind, "add", err) }()

	recipe, err := t.recipes.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, ErrRecipeDoesNotExist
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	exists, err := t.set.Exists(ctx, userID, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", t.kind, err)
	}
	if exists {
		return nil, t.errExists
	}

	if err := t.set.Add(ctx, userID, recipeID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, t.errExists
		}
		return nil, fmt.Errorf("failed to add %s: %w", t.kind, err)
	}

	result := models.NewRecipeShort(recipe)
	return &result, nil
}

func (t recipeToggle) remove(ctx context.Context, userID, recipeID uint) (err error) {
	defer func() { metrics.RecordToggle(t.kind, "remove", err) }()

	exists, err := t.recipes.Exists(ctx, recipeID)
	if err != nil {
		return fmt.Errorf("failed to get recipe: %w", err)
	}
	if !exists {
		return ErrRecipeDoesNotExist
	}

	removed, err := t.set.Remove(ctx, userID, recipeID)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", t.kind, err)
	}
	if !removed {
		return t.errMissing
	}
	return nil
}

// FavoriteService manages a user's favorite recipes
type FavoriteService struct {
	toggle recipeToggle
}

// NewFavoriteService creates a new favorite service
func NewFavoriteService(repos *repository.Repositories) *FavoriteService {
	return &FavoriteService{
		toggle: recipeToggle{
			kind:       "favorite",
			recipes:    repos.Recipes,
			set:        repos.Favorites,
			errExists:  ErrAlreadyFavorited,
			errMissing: ErrNotFavorited,
		},
	}
}

// AddFavorite marks the recipe as a favorite of userID
func (s *FavoriteService) AddFavorite(ctx context.Context, userID, recipeID uint) (*models.RecipeShort, error) {
	return s.toggle.add(ctx, userID, recipeID)
}

// RemoveFavorite unmarks the recipe
func (s *FavoriteService) RemoveFavorite(ctx context.Context, userID, recipeID uint) error {
	return s.toggle.remove(ctx, userID, recipeID)
}

// ShoppingCartService manages a user's shopping cart and builds the shopping list
type ShoppingCartService struct {
	toggle recipeToggle
	cart   repository.ShoppingListRepository
}

// NewShoppingCartService creates a new shopping cart service
func NewShoppingCartService(repos *repository.Repositories) *ShoppingCartService {
	return &ShoppingCartService{
		toggle: recipeToggle{
			kind:       "shopping_cart",
			recipes:    repos.Recipes,
			set:        repos.ShoppingLists,
			errExists:  ErrAlreadyInCart,
			errMissing: ErrNotInCart,
		},
		cart: repos.ShoppingLists,
	}
}

// AddToCart puts the recipe into the user's shopping cart
func (s *ShoppingCartService) AddToCart(ctx context.Context, userID, recipeID uint) (*models.RecipeShort, error) {
	return s.toggle.add(ctx, userID, recipeID)
}

// RemoveFromCart takes the recipe out of the user's shopping cart
func (s *ShoppingCartService) RemoveFromCart(ctx context.Context, userID, recipeID uint) error {
	return s.toggle.remove(ctx, userID, recipeID)
}

// ShoppingList aggregates the ingredients of every recipe in the user's cart
func (s *ShoppingCartService) ShoppingList(ctx context.Context, userID uint) (*shopping.Totals, error) {
	recipes, err := s.cart.Recipes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping cart: %w", err)
	}

	items := make([]shopping.Recipe, 0, len(recipes))
	for i := range recipes {
		items = append(items, &recipes[i])
	}

	totals := shopping.Aggregate(items)
	metrics.RecordShoppingListDownload(totals.Len())
	return totals, nil
}
