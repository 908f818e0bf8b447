package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
)

// IngredientRepository defines the interface for ingredient data access
type IngredientRepository interface {
	Search(ctx context.Context, namePrefix string) ([]models.Ingredient, error)
	GetByID(ctx context.Context, id uint) (*models.Ingredient, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Ingredient, error)
	GetOrCreate(ctx context.Context, name, unit string) (*models.Ingredient, bool, error)
}

// GormIngredientRepository implements IngredientRepository on top of gorm
type GormIngredientRepository struct {
	db *gorm.DB
}

// NewGormIngredientRepository creates a new ingredient repository
func NewGormIngredientRepository(db *gorm.DB) *GormIngredientRepository {
	return &GormIngredientRepository{db: db}
}

// Search returns ingredients whose name starts with namePrefix, case-insensitively.
// An empty prefix returns every ingredient.
func (r *GormIngredientRepository) Search(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	query := r.db.WithContext(ctx).Order("name").Order("id")
	if namePrefix != "" {
		query = query.Where("LOWER(name) LIKE ? ESCAPE '\\'", escapeLike(strings.ToLower(namePrefix))+"%")
	}

	ingredients := make([]models.Ingredient, 0)
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// GetByID returns an ingredient by its ID
func (r *GormIngredientRepository) GetByID(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, translate(err, ErrIngredientNotFound)
	}
	return &ingredient, nil
}

// GetByIDs returns the ingredients that exist among ids
func (r *GormIngredientRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Ingredient, error) {
	ingredients := make([]models.Ingredient, 0, len(ids))
	if len(ids) == 0 {
		return ingredients, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// GetOrCreate finds the ingredient with this name and unit, creating it when absent.
// The boolean reports whether a row was created.
func (r *GormIngredientRepository) GetOrCreate(ctx context.Context, name, unit string) (*models.Ingredient, bool, error) {
	var ingredient models.Ingredient
	err := r.db.WithContext(ctx).
		Where("name = ? AND measurement_unit = ?", name, unit).
		First(&ingredient).Error
	if err == nil {
		return &ingredient, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	ingredient = models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := r.db.WithContext(ctx).Create(&ingredient).Error; err != nil {
		return nil, false, translate(err, ErrIngredientNotFound)
	}
	return &ingredient, true, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
