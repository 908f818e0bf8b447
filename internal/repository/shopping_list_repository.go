package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
)

// ShoppingListRepository defines the interface for shopping cart data access
type ShoppingListRepository interface {
	Add(ctx context.Context, userID, recipeID uint) error
	Remove(ctx context.Context, userID, recipeID uint) (bool, error)
	Exists(ctx context.Context, userID, recipeID uint) (bool, error)
	InCartIDs(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error)
	Recipes(ctx context.Context, userID uint) ([]models.Recipe, error)
}

// GormShoppingListRepository implements ShoppingListRepository on top of gorm
type GormShoppingListRepository struct {
	db *gorm.DB
}

// NewGormShoppingListRepository creates a new shopping list repository
func NewGormShoppingListRepository(db *gorm.DB) *GormShoppingListRepository {
	return &GormShoppingListRepository{db: db}
}

// Add puts the recipe into the user's list, creating the list on first use.
// A recipe already in the list yields ErrDuplicate.
func (r *GormShoppingListRepository) Add(ctx context.Context, userID, recipeID uint) error {
	list, err := r.getOrCreateList(ctx, userID)
	if err != nil {
		return err
	}

	entry := models.ShoppingListRecipe{ShoppingListID: list.ID, RecipeID: recipeID}
	return translate(r.db.WithContext(ctx).Omit("Recipe").Create(&entry).Error, ErrRecipeNotFound)
}

// Remove takes the recipe out of the user's list and reports whether it was there
func (r *GormShoppingListRepository) Remove(ctx context.Context, userID, recipeID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("recipe_id = ? AND shopping_list_id IN (?)", recipeID, r.listIDs(userID)).
		Delete(&models.ShoppingListRecipe{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *GormShoppingListRepository) Exists(ctx context.Context, userID, recipeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ShoppingListRecipe{}).
		Where("recipe_id = ? AND shopping_list_id IN (?)", recipeID, r.listIDs(userID)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InCartIDs returns which of recipeIDs are in the user's list
func (r *GormShoppingListRepository) InCartIDs(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	if userID == 0 || len(recipeIDs) == 0 {
		return map[uint]bool{}, nil
	}

	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.ShoppingListRecipe{}).
		Where("recipe_id IN ? AND shopping_list_id IN (?)", recipeIDs, r.listIDs(userID)).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return idSet(ids), nil
}

// Recipes returns the recipes in the user's list in the order they were added,
// each with its line items loaded. A user without a list gets no recipes.
func (r *GormShoppingListRepository) Recipes(ctx context.Context, userID uint) ([]models.Recipe, error) {
	var entries []models.ShoppingListRecipe
	err := r.db.WithContext(ctx).
		Where("shopping_list_id IN (?)", r.listIDs(userID)).
		Preload("Recipe.Ingredients.Ingredient").
		Order("id").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	recipes := make([]models.Recipe, 0, len(entries))
	for _, e := range entries {
		recipe := e.Recipe
		normalize(&recipe)
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

func (r *GormShoppingListRepository) getOrCreateList(ctx context.Context, userID uint) (*models.ShoppingList, error) {
	var list models.ShoppingList
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&list).Error
	if err == nil {
		return &list, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	list = models.ShoppingList{UserID: userID}
	err = r.db.WithContext(ctx).Create(&list).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// created concurrently
		err = r.db.WithContext(ctx).Where("user_id = ?", userID).First(&list).Error
	}
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func (r *GormShoppingListRepository) listIDs(userID uint) *gorm.DB {
	return r.db.Model(&models.ShoppingList{}).Select("id").Where("user_id = ?", userID)
}
