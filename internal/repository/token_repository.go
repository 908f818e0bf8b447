package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
)

// TokenRepository tracks issued auth tokens by their id
type TokenRepository interface {
	Create(ctx context.Context, token *models.AuthToken) error
	Exists(ctx context.Context, id string, userID uint) (bool, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID uint) error
}

// GormTokenRepository implements TokenRepository on top of gorm
type GormTokenRepository struct {
	db *gorm.DB
}

// NewGormTokenRepository creates a new token repository
func NewGormTokenRepository(db *gorm.DB) *GormTokenRepository {
	return &GormTokenRepository{db: db}
}

func (r *GormTokenRepository) Create(ctx context.Context, token *models.AuthToken) error {
	return translate(r.db.WithContext(ctx).Omit("User").Create(token).Error, ErrTokenNotFound)
}

// Exists reports whether the token is still active for the user
func (r *GormTokenRepository) Exists(ctx context.Context, id string, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AuthToken{}).
		Where("id = ? AND user_id = ?", id, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete revokes a single token
func (r *GormTokenRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.AuthToken{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTokenNotFound
	}
	return nil
}

// DeleteByUser revokes every token of the user
func (r *GormTokenRepository) DeleteByUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.AuthToken{}).Error
}
