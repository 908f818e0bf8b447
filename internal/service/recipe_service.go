package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lixing-Zhang/foodgram/backend/internal/metrics"
	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
	"github.com/Lixing-Zhang/foodgram/backend/internal/repository"
)

// RecipeService handles recipe business logic
type RecipeService struct {
	recipes     repository.RecipeRepository
	tags        repository.TagRepository
	ingredients repository.IngredientRepository
	favorites   repository.FavoriteRepository
	cart        repository.ShoppingListRepository
	follows     repository.FollowRepository
}

// NewRecipeService creates a new recipe service
func NewRecipeService(repos *repository.Repositories) *RecipeService {
	return &RecipeService{
		recipes:     repos.Recipes,
		tags:        repos.Tags,
		ingredients: repos.Ingredients,
		favorites:   repos.Favorites,
		cart:        repos.ShoppingLists,
		follows:     repos.Follows,
	}
}

// ListRecipes returns a page of recipes as seen by viewerID (zero for anonymous)
func (s *RecipeService) ListRecipes(ctx context.Context, filter repository.RecipeFilter, offset, limit int) ([]models.RecipeResponse, int64, error) {
	recipes, count, err := s.recipes.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}

	responses, err := s.present(ctx, filter.ViewerID, recipes)
	if err != nil {
		return nil, 0, err
	}
	return responses, count, nil
}

// GetRecipe returns a recipe as seen by viewerID
func (s *RecipeService) GetRecipe(ctx context.Context, viewerID, id uint) (*models.RecipeResponse, error) {
	recipe, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.presentOne(ctx, viewerID, recipe)
}

// CreateRecipe publishes a recipe by authorID
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uint, req models.RecipeRequest) (*models.RecipeResponse, error) {
	recipe := &models.Recipe{AuthorID: authorID}
	if err := s.apply(ctx, recipe, req); err != nil {
		return nil, err
	}

	if err := s.recipes.Create(ctx, recipe); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	metrics.RecipesCreated.Inc()

	return s.GetRecipe(ctx, authorID, recipe.ID)
}

// UpdateRecipe replaces every field of the recipe; only its author may do so
func (s *RecipeService) UpdateRecipe(ctx context.Context, userID, id uint, req models.RecipeRequest) (*models.RecipeResponse, error) {
	recipe, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, userID, recipe, req)
}

// PatchRecipe updates the fields present in patch and keeps the rest
func (s *RecipeService) PatchRecipe(ctx context.Context, userID, id uint, patch models.RecipePatch) (*models.RecipeResponse, error) {
	recipe, err := s.loadOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, userID, recipe, patch.Apply(requestFrom(recipe)))
}

// DeleteRecipe removes the recipe; only its author may do so
func (s *RecipeService) DeleteRecipe(ctx context.Context, userID, id uint) error {
	if _, err := s.loadOwned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.recipes.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return ErrRecipeNotFound
		}
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return nil
}

func (s *RecipeService) save(ctx context.Context, userID uint, recipe *models.Recipe, req models.RecipeRequest) (*models.RecipeResponse, error) {
	if err := s.apply(ctx, recipe, req); err != nil {
		return nil, err
	}
	if err := s.recipes.Update(ctx, recipe); err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	return s.GetRecipe(ctx, userID, recipe.ID)
}

// apply checks the referenced tags and ingredients and copies req onto recipe
func (s *RecipeService) apply(ctx context.Context, recipe *models.Recipe, req models.RecipeRequest) error {
	// Validate line items (deduplicated by ingredient)
	ingredientIDs := make([]uint, 0, len(req.Ingredients))
	seen := make(map[uint]bool, len(req.Ingredients))
	for _, item := range req.Ingredients {
		if seen[item.ID] {
			return fmt.Errorf("%w: %d", ErrDuplicateIngredient, item.ID)
		}
		seen[item.ID] = true
		ingredientIDs = append(ingredientIDs, item.ID)
	}

	found, err := s.ingredients.GetByIDs(ctx, ingredientIDs)
	if err != nil {
		return fmt.Errorf("failed to load ingredients: %w", err)
	}
	known := make(map[uint]models.Ingredient, len(found))
	for _, ingredient := range found {
		known[ingredient.ID] = ingredient
	}

	items := make([]models.RecipeIngredient, 0, len(req.Ingredients))
	for _, item := range req.Ingredients {
		ingredient, ok := known[item.ID]
		if !ok {
			return fmt.Errorf("%w: %d", ErrUnknownIngredient, item.ID)
		}
		items = append(items, models.RecipeIngredient{
			IngredientID: ingredient.ID,
			Amount:       item.Amount,
		})
	}

	tags, err := s.tags.GetByIDs(ctx, req.Tags)
	if err != nil {
		return fmt.Errorf("failed to load tags: %w", err)
	}
	if len(tags) != len(req.Tags) {
		return fmt.Errorf("%w: %v", ErrUnknownTag, missingTagIDs(req.Tags, tags))
	}

	recipe.Name = req.Name
	recipe.Image = req.Image
	recipe.Text = req.Text
	recipe.CookingTime = req.CookingTime
	recipe.Tags = tags
	recipe.Ingredients = items
	return nil
}

func (s *RecipeService) load(ctx context.Context, id uint) (*models.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return recipe, nil
}

func (s *RecipeService) loadOwned(ctx context.Context, userID, id uint) (*models.Recipe, error) {
	recipe, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != userID {
		return nil, ErrForbidden
	}
	return recipe, nil
}

func (s *RecipeService) presentOne(ctx context.Context, viewerID uint, recipe *models.Recipe) (*models.RecipeResponse, error) {
	responses, err := s.present(ctx, viewerID, []models.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

// present renders recipes with the viewer-relative flags resolved in bulk
func (s *RecipeService) present(ctx context.Context, viewerID uint, recipes []models.Recipe) ([]models.RecipeResponse, error) {
	recipeIDs := make([]uint, 0, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	favorited, err := s.favorites.FavoritedIDs(ctx, viewerID, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	inCart, err := s.cart.InCartIDs(ctx, viewerID, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping cart: %w", err)
	}
	following, err := s.follows.FollowingIDs(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}

	responses := make([]models.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		r := &recipes[i]

		ingredients := make([]models.RecipeIngredientResponse, 0, len(r.Ingredients))
		for _, ri := range r.Ingredients {
			ingredients = append(ingredients, models.RecipeIngredientResponse{
				ID:              ri.Ingredient.ID,
				Name:            ri.Ingredient.Name,
				MeasurementUnit: ri.Ingredient.MeasurementUnit,
				Amount:          ri.Amount,
			})
		}

		tags := r.Tags
		if tags == nil {
			tags = []models.Tag{}
		}

		responses = append(responses, models.RecipeResponse{
			ID:               r.ID,
			Tags:             tags,
			Author:           models.NewUserResponse(&r.Author, following[r.AuthorID]),
			Ingredients:      ingredients,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		})
	}
	return responses, nil
}

// requestFrom rebuilds the write payload that would produce recipe
func requestFrom(recipe *models.Recipe) models.RecipeRequest {
	req := models.RecipeRequest{
		Ingredients: make([]models.IngredientAmount, 0, len(recipe.Ingredients)),
		Tags:        make([]uint, 0, len(recipe.Tags)),
		Image:       recipe.Image,
		Name:        recipe.Name,
		Text:        recipe.Text,
		CookingTime: recipe.CookingTime,
	}
	for _, ri := range recipe.Ingredients {
		req.Ingredients = append(req.Ingredients, models.IngredientAmount{ID: ri.IngredientID, Amount: ri.Amount})
	}
	for _, tag := range recipe.Tags {
		req.Tags = append(req.Tags, tag.ID)
	}
	return req
}

func missingTagIDs(requested []uint, found []models.Tag) []uint {
	present := make(map[uint]bool, len(found))
	for _, tag := range found {
		present[tag.ID] = true
	}
	var missing []uint
	for _, id := range requested {
		if !present[id] {
			missing = append(missing, id)
		}
	}
	return missing
}
