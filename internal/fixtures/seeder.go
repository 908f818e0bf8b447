package fixtures

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Lixing-Zhang/foodgram/backend/internal/config"
	"github.com/Lixing-Zhang/foodgram/backend/internal/metrics"
	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
	"github.com/Lixing-Zhang/foodgram/backend/internal/repository"
	"github.com/Lixing-Zhang/foodgram/backend/internal/validation"
)

// Hasher hashes fixture passwords before they are stored
type Hasher interface {
	Hash(password string) (string, error)
}

// Seeder inserts fixture records that are not stored yet
type Seeder struct {
	loader      *Loader
	ingredients repository.IngredientRepository
	users       repository.UserRepository
	hasher      Hasher
	logger      *slog.Logger
}

// NewSeeder creates a seeder writing through repos
func NewSeeder(loader *Loader, repos *repository.Repositories, hasher Hasher, logger *slog.Logger) *Seeder {
	return &Seeder{
		loader:      loader,
		ingredients: repos.Ingredients,
		users:       repos.Users,
		hasher:      hasher,
		logger:      logger,
	}
}

// Run loads and seeds every configured source. Ingredients go first.
func (s *Seeder) Run(ctx context.Context, cfg config.FixturesConfig) error {
	if len(cfg.Ingredients) > 0 {
		records, err := s.loader.Ingredients(ctx, cfg.Ingredients)
		if err != nil {
			return fmt.Errorf("failed to load ingredient fixtures: %w", err)
		}
		created, err := s.SeedIngredients(ctx, records)
		if err != nil {
			return err
		}
		s.logger.Info("ingredient fixtures loaded", "records", len(records), "created", created)
	}

	if len(cfg.Users) > 0 {
		records, err := s.loader.Users(ctx, cfg.Users)
		if err != nil {
			return fmt.Errorf("failed to load user fixtures: %w", err)
		}
		created, err := s.SeedUsers(ctx, records)
		if err != nil {
			return err
		}
		s.logger.Info("user fixtures loaded", "records", len(records), "created", created)
	}

	return nil
}

// SeedIngredients creates the ingredients missing by name and unit
func (s *Seeder) SeedIngredients(ctx context.Context, records []IngredientRecord) (int, error) {
	created := 0
	for i, rec := range records {
		if err := validation.Struct(rec); err != nil {
			return created, fmt.Errorf("ingredient fixture %d: %w", i, err)
		}

		_, isNew, err := s.ingredients.GetOrCreate(ctx, rec.Name, rec.MeasurementUnit)
		if err != nil {
			return created, fmt.Errorf("failed to seed ingredient %q: %w", rec.Name, err)
		}
		if isNew {
			created++
		}
	}

	metrics.FixturesLoaded.WithLabelValues("ingredient").Add(float64(created))
	return created, nil
}

// SeedUsers creates the users missing by email
func (s *Seeder) SeedUsers(ctx context.Context, records []UserRecord) (int, error) {
	created := 0
	for i, rec := range records {
		if err := validation.Struct(rec); err != nil {
			return created, fmt.Errorf("user fixture %d: %w", i, err)
		}

		if _, err := s.users.GetByEmail(ctx, rec.Email); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return created, fmt.Errorf("failed to check user %q: %w", rec.Email, err)
		}

		hash, err := s.hasher.Hash(rec.Password)
		if err != nil {
			return created, err
		}

		user := &models.User{
			Email:     rec.Email,
			Username:  rec.Username,
			FirstName: rec.FirstName,
			LastName:  rec.LastName,
			Password:  hash,
		}
		if err := s.users.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				s.logger.Warn("skipping user fixture with taken username", "username", rec.Username)
				continue
			}
			return created, fmt.Errorf("failed to seed user %q: %w", rec.Email, err)
		}
		created++
	}

	metrics.FixturesLoaded.WithLabelValues("user").Add(float64(created))
	return created, nil
}
