package testutil

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Lixing-Zhang/foodgram/backend/internal/config"
	"github.com/Lixing-Zhang/foodgram/backend/internal/database"
	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
	"github.com/Lixing-Zhang/foodgram/backend/pkg/logger"
)

// Logger returns a logger that drops everything
func Logger(tb testing.TB) *slog.Logger {
	tb.Helper()
	return logger.New("disabled")
}

// DB opens a fresh in-memory sqlite database with the full schema
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	cfg := config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}
	db, err := database.Open(cfg, Logger(tb))
	if err != nil {
		tb.Fatalf("failed to init test db: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func SeedUser(tb testing.TB, db *gorm.DB, username string) *models.User {
	tb.Helper()
	u := &models.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "First",
		LastName:  "Last",
		Password:  "pw",
	}
	if err := db.WithContext(context.Background()).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedTag(tb testing.TB, db *gorm.DB, name, color, slug string) *models.Tag {
	tb.Helper()
	t := &models.Tag{Name: name, Color: color, Slug: slug}
	if err := db.WithContext(context.Background()).Create(t).Error; err != nil {
		tb.Fatalf("seed tag: %v", err)
	}
	return t
}

func SeedIngredient(tb testing.TB, db *gorm.DB, name, unit string) *models.Ingredient {
	tb.Helper()
	i := &models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.WithContext(context.Background()).Create(i).Error; err != nil {
		tb.Fatalf("seed ingredient: %v", err)
	}
	return i
}

// SeedRecipe creates a recipe by author with the given tags and line items.
// amounts maps ingredient position in ingredients to its amount.
func SeedRecipe(tb testing.TB, db *gorm.DB, author *models.User, name string, tags []*models.Tag, ingredients []*models.Ingredient, amounts []int) *models.Recipe {
	tb.Helper()
	if len(ingredients) != len(amounts) {
		tb.Fatalf("seed recipe: %d ingredients but %d amounts", len(ingredients), len(amounts))
	}

	r := &models.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Image:       "data:image/png;base64,iVBORw0KGgo=",
		Text:        name + " description",
		CookingTime: 10,
	}
	for _, t := range tags {
		r.Tags = append(r.Tags, *t)
	}
	for i, ing := range ingredients {
		r.Ingredients = append(r.Ingredients, models.RecipeIngredient{IngredientID: ing.ID, Amount: amounts[i]})
	}
	if err := db.WithContext(context.Background()).Omit("Tags.*").Create(r).Error; err != nil {
		tb.Fatalf("seed recipe: %v", err)
	}
	return r
}
