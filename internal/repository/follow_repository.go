package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
)

// FollowRepository defines the interface for subscription data access
type FollowRepository interface {
	Create(ctx context.Context, userID, followingID uint) error
	Delete(ctx context.Context, userID, followingID uint) (bool, error)
	Exists(ctx context.Context, userID, followingID uint) (bool, error)
	FollowingIDs(ctx context.Context, userID uint, candidates []uint) (map[uint]bool, error)
	ListFollowing(ctx context.Context, userID uint, offset, limit int) ([]models.User, int64, error)
}

// GormFollowRepository implements FollowRepository on top of gorm
type GormFollowRepository struct {
	db *gorm.DB
}

// NewGormFollowRepository creates a new follow repository
func NewGormFollowRepository(db *gorm.DB) *GormFollowRepository {
	return &GormFollowRepository{db: db}
}

// Create subscribes userID to followingID; an existing subscription yields ErrDuplicate
func (r *GormFollowRepository) Create(ctx context.Context, userID, followingID uint) error {
	follow := models.Follow{UserID: userID, FollowingID: followingID}
	return translate(r.db.WithContext(ctx).Omit("Following").Create(&follow).Error, ErrUserNotFound)
}

// Delete removes the subscription and reports whether one existed
func (r *GormFollowRepository) Delete(ctx context.Context, userID, followingID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND following_id = ?", userID, followingID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *GormFollowRepository) Exists(ctx context.Context, userID, followingID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ? AND following_id = ?", userID, followingID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FollowingIDs returns which of candidates userID is subscribed to
func (r *GormFollowRepository) FollowingIDs(ctx context.Context, userID uint, candidates []uint) (map[uint]bool, error) {
	if userID == 0 || len(candidates) == 0 {
		return map[uint]bool{}, nil
	}

	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ? AND following_id IN ?", userID, candidates).
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return idSet(ids), nil
}

// ListFollowing returns a page of the authors userID is subscribed to, oldest subscription first
func (r *GormFollowRepository) ListFollowing(ctx context.Context, userID uint, offset, limit int) ([]models.User, int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var follows []models.Follow
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Following").
		Order("id").
		Scopes(paginate(offset, limit)).
		Find(&follows).Error
	if err != nil {
		return nil, 0, err
	}

	users := make([]models.User, 0, len(follows))
	for _, f := range follows {
		users = append(users, f.Following)
	}
	return users, count, nil
}
