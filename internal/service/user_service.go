package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lixing-Zhang/foodgram/backend/internal/auth"
	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
	"github.com/Lixing-Zhang/foodgram/backend/internal/repository"
)

// PasswordHasher hashes and checks user passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// UserService handles registration and profile logic
type UserService struct {
	users   repository.UserRepository
	follows repository.FollowRepository
	hasher  PasswordHasher
}

// NewUserService creates a new user service
func NewUserService(repos *repository.Repositories, hasher PasswordHasher) *UserService {
	return &UserService{
		users:   repos.Users,
		follows: repos.Follows,
		hasher:  hasher,
	}
}

// Register creates an account with a hashed password
func (s *UserService) Register(ctx context.Context, req models.UserCreateRequest) (*models.UserResponse, error) {
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	if _, err := s.users.GetByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	resp := models.NewUserResponse(user, false)
	return &resp, nil
}

// ListUsers returns a page of users as seen by viewerID
func (s *UserService) ListUsers(ctx context.Context, viewerID uint, offset, limit int) ([]models.UserResponse, int64, error) {
	users, count, err := s.users.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	following, err := s.follows.FollowingIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load subscriptions: %w", err)
	}

	responses := make([]models.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, models.NewUserResponse(&users[i], following[users[i].ID]))
	}
	return responses, count, nil
}

// GetUser returns a user profile as seen by viewerID
func (s *UserService) GetUser(ctx context.Context, viewerID, id uint) (*models.UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	subscribed := false
	if viewerID != 0 && viewerID != id {
		if subscribed, err = s.follows.Exists(ctx, viewerID, id); err != nil {
			return nil, fmt.Errorf("failed to check subscription: %w", err)
		}
	}

	resp := models.NewUserResponse(user, subscribed)
	return &resp, nil
}

// SetPassword replaces the password after checking the current one
func (s *UserService) SetPassword(ctx context.Context, user *models.User, req models.SetPasswordRequest) error {
	if err := s.hasher.Compare(user.Password, req.CurrentPassword); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return ErrWrongPassword
		}
		return err
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	user.Password = hash
	return nil
}
