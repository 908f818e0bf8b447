package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lixing-Zhang/foodgram/backend/internal/metrics"
	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
	"github.com/Lixing-Zhang/foodgram/backend/internal/repository"
)

// SubscriptionService manages subscriptions between users and authors
type SubscriptionService struct {
	users   repository.UserRepository
	follows repository.FollowRepository
	recipes repository.RecipeRepository
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(repos *repository.Repositories) *SubscriptionService {
	return &SubscriptionService{
		users:   repos.Users,
		follows: repos.Follows,
		recipes: repos.Recipes,
	}
}

// Subscribe subscribes userID to authorID and returns the author with recipes.
// recipesLimit caps the embedded recipes; a negative value embeds all.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, authorID uint, recipesLimit int) (result *models.UserWithRecipes, err error) {
	defer func() { metrics.RecordToggle("subscription", "add", err) }()

	author, err := s.author(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if userID == authorID {
		return nil, ErrSelfSubscription
	}

	exists, err := s.follows.Exists(ctx, userID, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check subscription: %w", err)
	}
	if exists {
		return nil, ErrAlreadySubscribed
	}

	if err := s.follows.Create(ctx, userID, authorID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadySubscribed
		}
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	entries, err := s.withRecipes(ctx, []models.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &entries[0], nil
}

// Unsubscribe removes the subscription of userID to authorID
func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID, authorID uint) (err error) {
	defer func() { metrics.RecordToggle("subscription", "remove", err) }()

	if _, err := s.author(ctx, authorID); err != nil {
		return err
	}

	deleted, err := s.follows.Delete(ctx, userID, authorID)
	if err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}
	if !deleted {
		return ErrNotSubscribed
	}
	return nil
}

// ListSubscriptions returns a page of the authors userID follows with their recipes
func (s *SubscriptionService) ListSubscriptions(ctx context.Context, userID uint, offset, limit, recipesLimit int) ([]models.UserWithRecipes, int64, error) {
	authors, count, err := s.follows.ListFollowing(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	entries, err := s.withRecipes(ctx, authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return entries, count, nil
}

func (s *SubscriptionService) author(ctx context.Context, id uint) (*models.User, error) {
	author, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return author, nil
}

// withRecipes builds subscription entries; every author listed is followed by the caller
func (s *SubscriptionService) withRecipes(ctx context.Context, authors []models.User, recipesLimit int) ([]models.UserWithRecipes, error) {
	ids := make([]uint, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}
	counts, err := s.recipes.CountByAuthors(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count recipes: %w", err)
	}

	entries := make([]models.UserWithRecipes, 0, len(authors))
	for i := range authors {
		recipes, err := s.recipes.ListByAuthor(ctx, authors[i].ID, recipesLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to list recipes: %w", err)
		}

		short := make([]models.RecipeShort, 0, len(recipes))
		for j := range recipes {
			short = append(short, models.NewRecipeShort(&recipes[j]))
		}

		entries = append(entries, models.UserWithRecipes{
			UserResponse: models.NewUserResponse(&authors[i], true),
			Recipes:      short,
			RecipesCount: counts[authors[i].ID],
		})
	}
	return entries, nil
}
