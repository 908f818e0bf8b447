package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
)

// TagRepository defines the interface for tag data access
type TagRepository interface {
	GetAll(ctx context.Context) ([]models.Tag, error)
	GetByID(ctx context.Context, id uint) (*models.Tag, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Tag, error)
}

// GormTagRepository implements TagRepository on top of gorm
type GormTagRepository struct {
	db *gorm.DB
}

// NewGormTagRepository creates a new tag repository
func NewGormTagRepository(db *gorm.DB) *GormTagRepository {
	return &GormTagRepository{db: db}
}

// GetAll returns all tags ordered by id
func (r *GormTagRepository) GetAll(ctx context.Context) ([]models.Tag, error) {
	tags := make([]models.Tag, 0)
	if err := r.db.WithContext(ctx).Order("id").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// GetByID returns a tag by its ID
func (r *GormTagRepository) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, translate(err, ErrTagNotFound)
	}
	return &tag, nil
}

// GetByIDs returns the tags that exist among ids, ordered by name
func (r *GormTagRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(ids))
	if len(ids) == 0 {
		return tags, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}
