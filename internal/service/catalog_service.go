package service

import (
	"context"
	"errors"

	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
	"github.com/Lixing-Zhang/foodgram/backend/internal/repository"
)

// CatalogService serves the read-only tag and ingredient reference data
type CatalogService struct {
	tags        repository.TagRepository
	ingredients repository.IngredientRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(tags repository.TagRepository, ingredients repository.IngredientRepository) *CatalogService {
	return &CatalogService{
		tags:        tags,
		ingredients: ingredients,
	}
}

// ListTags returns all tags
func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.tags.GetAll(ctx)
}

// GetTag returns a tag by ID
func (s *CatalogService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	tag, err := s.tags.GetByID(ctx, id)
	if errors.Is(err, repository.ErrTagNotFound) {
		return nil, ErrTagNotFound
	}
	return tag, err
}

// SearchIngredients returns ingredients whose name starts with prefix
func (s *CatalogService) SearchIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	return s.ingredients.Search(ctx, prefix)
}

// GetIngredient returns an ingredient by ID
func (s *CatalogService) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	ingredient, err := s.ingredients.GetByID(ctx, id)
	if errors.Is(err, repository.ErrIngredientNotFound) {
		return nil, ErrIngredientNotFound
	}
	return ingredient, err
}
