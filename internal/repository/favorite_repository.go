package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
)

// FavoriteRepository defines the interface for favorite data access
type FavoriteRepository interface {
	Add(ctx context.Context, userID, recipeID uint) error
	Remove(ctx context.Context, userID, recipeID uint) (bool, error)
	Exists(ctx context.Context, userID, recipeID uint) (bool, error)
	FavoritedIDs(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error)
}

// GormFavoriteRepository implements FavoriteRepository on top of gorm
type GormFavoriteRepository struct {
	db *gorm.DB
}

// NewGormFavoriteRepository creates a new favorite repository
func NewGormFavoriteRepository(db *gorm.DB) *GormFavoriteRepository {
	return &GormFavoriteRepository{db: db}
}

// Add favorites the recipe; an existing favorite yields ErrDuplicate
func (r *GormFavoriteRepository) Add(ctx context.Context, userID, recipeID uint) error {
	favorite := models.Favorite{UserID: userID, RecipeID: recipeID}
	return translate(r.db.WithContext(ctx).Create(&favorite).Error, ErrRecipeNotFound)
}

// Remove deletes the favorite and reports whether one existed
func (r *GormFavoriteRepository) Remove(ctx context.Context, userID, recipeID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *GormFavoriteRepository) Exists(ctx context.Context, userID, recipeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FavoritedIDs returns which of recipeIDs the user has favorited
func (r *GormFavoriteRepository) FavoritedIDs(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	if userID == 0 || len(recipeIDs) == 0 {
		return map[uint]bool{}, nil
	}

	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return idSet(ids), nil
}
