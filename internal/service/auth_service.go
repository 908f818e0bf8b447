package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lixing-Zhang/foodgram/backend/internal/auth"
	"github.com/Lixing-Zhang/foodgram/backend/internal/metrics"
	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
	"github.com/Lixing-Zhang/foodgram/backend/internal/repository"
)

// TokenIssuer issues and validates signed auth tokens
type TokenIssuer interface {
	Issue(userID uint) (token string, id string, err error)
	Validate(token string) (*auth.Claims, error)
}

// AuthService handles token login, logout and request authentication
type AuthService struct {
	users  repository.UserRepository
	tokens repository.TokenRepository
	issuer TokenIssuer
	hasher PasswordHasher
}

// NewAuthService creates a new auth service
func NewAuthService(repos *repository.Repositories, issuer TokenIssuer, hasher PasswordHasher) *AuthService {
	return &AuthService{
		users:  repos.Users,
		tokens: repos.Tokens,
		issuer: issuer,
		hasher: hasher,
	}
}

// Login checks the credentials and issues a token
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	token, err := s.login(ctx, email, password)
	result := "success"
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		result = "invalid_credentials"
	case err != nil:
		result = "error"
	}
	metrics.LoginAttempts.WithLabelValues(result).Inc()
	return token, err
}

func (s *AuthService) login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.hasher.Compare(user.Password, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	token, id, err := s.issuer.Issue(user.ID)
	if err != nil {
		return "", err
	}
	if err := s.tokens.Create(ctx, &models.AuthToken{ID: id, UserID: user.ID}); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}
	return token, nil
}

// Logout revokes the token with the given id
func (s *AuthService) Logout(ctx context.Context, tokenID string) error {
	if err := s.tokens.Delete(ctx, tokenID); err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// Authenticate resolves a raw token to its user and token id.
// Tokens that were revoked or whose user is gone are rejected.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, string, error) {
	claims, err := s.issuer.Validate(token)
	if err != nil {
		return nil, "", ErrInvalidToken
	}

	active, err := s.tokens.Exists(ctx, claims.ID, claims.UserID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check token: %w", err)
	}
	if !active {
		return nil, "", ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrInvalidToken
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}
	return user, claims.ID, nil
}
