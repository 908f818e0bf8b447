package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Lixing-Zhang/foodgram/backend/internal/auth"
	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
	"github.com/Lixing-Zhang/foodgram/backend/internal/testutil"
)

const testSecret = "test-secret-with-at-least-32-characters!"

var testHasher = auth.BcryptHasher{Cost: bcrypt.MinCost}

func registration(username string) models.UserCreateRequest {
	return models.UserCreateRequest{
		Email:     username + "@mail.test",
		Username:  username,
		FirstName: "Ivan",
		LastName:  "Petrov",
		Password:  "correct-horse",
	}
}

func TestUserService_Register(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewUserService(f.repos, testHasher)

	created, err := svc.Register(ctx, registration("ivan"))
	require.NoError(t, err)
	assert.Equal(t, "ivan", created.Username)
	assert.False(t, created.IsSubscribed)

	stored, err := f.repos.Users.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", stored.Password)
	assert.NoError(t, testHasher.Compare(stored.Password, "correct-horse"))

	_, err = svc.Register(ctx, registration("ivan"))
	assert.ErrorIs(t, err, ErrEmailTaken)

	sameName := registration("ivan")
	sameName.Email = "other@mail.test"
	_, err = svc.Register(ctx, sameName)
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestUserService_SetPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewUserService(f.repos, testHasher)

	created, err := svc.Register(ctx, registration("ivan"))
	require.NoError(t, err)
	user, err := f.repos.Users.GetByID(ctx, created.ID)
	require.NoError(t, err)

	err = svc.SetPassword(ctx, user, models.SetPasswordRequest{NewPassword: "new-password", CurrentPassword: "wrong"})
	assert.ErrorIs(t, err, ErrWrongPassword)

	require.NoError(t, svc.SetPassword(ctx, user, models.SetPasswordRequest{NewPassword: "new-password", CurrentPassword: "correct-horse"}))

	reloaded, err := f.repos.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NoError(t, testHasher.Compare(reloaded.Password, "new-password"))
}

func TestUserService_ListAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewUserService(f.repos, testHasher)
	require.NoError(t, f.repos.Follows.Create(ctx, f.reader.ID, f.author.ID))

	users, count, err := svc.ListUsers(ctx, f.reader.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	require.Len(t, users, 2)
	assert.True(t, users[0].IsSubscribed, "reader follows author")
	assert.False(t, users[1].IsSubscribed)

	got, err := svc.GetUser(ctx, f.reader.ID, f.author.ID)
	require.NoError(t, err)
	assert.True(t, got.IsSubscribed)

	_, err = svc.GetUser(ctx, f.reader.ID, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSubscriptionService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewSubscriptionService(f.repos)

	for _, name := range []string{"First", "Second", "Third"} {
		testutil.SeedRecipe(t, f.db, f.author, name, nil, nil, nil)
	}

	entry, err := svc.Subscribe(ctx, f.reader.ID, f.author.ID, 2)
	require.NoError(t, err)
	assert.True(t, entry.IsSubscribed)
	assert.Equal(t, int64(3), entry.RecipesCount)
	require.Len(t, entry.Recipes, 2)
	assert.Equal(t, "Third", entry.Recipes[0].Name)

	_, err = svc.Subscribe(ctx, f.reader.ID, f.author.ID, -1)
	assert.ErrorIs(t, err, ErrAlreadySubscribed)

	_, err = svc.Subscribe(ctx, f.reader.ID, f.reader.ID, -1)
	assert.ErrorIs(t, err, ErrSelfSubscription)

	_, err = svc.Subscribe(ctx, f.reader.ID, 9999, -1)
	assert.ErrorIs(t, err, ErrUserNotFound)

	list, count, err := svc.ListSubscriptions(ctx, f.reader.ID, 0, 6, -1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Recipes, 3)

	require.NoError(t, svc.Unsubscribe(ctx, f.reader.ID, f.author.ID))
	assert.ErrorIs(t, svc.Unsubscribe(ctx, f.reader.ID, f.author.ID), ErrNotSubscribed)

	list, count, err = svc.ListSubscriptions(ctx, f.reader.ID, 0, 6, -1)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, list)
}

func TestAuthService_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tokens, err := auth.NewTokenManager(testSecret, time.Hour)
	require.NoError(t, err)

	users := NewUserService(f.repos, testHasher)
	svc := NewAuthService(f.repos, tokens, testHasher)

	created, err := users.Register(ctx, registration("ivan"))
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ivan@mail.test", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@mail.test", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, err := svc.Login(ctx, "ivan@mail.test", "correct-horse")
	require.NoError(t, err)

	user, tokenID, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	require.NoError(t, svc.Logout(ctx, tokenID))
	_, _, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken, "revoked token")

	assert.ErrorIs(t, svc.Logout(ctx, tokenID), ErrInvalidToken)

	_, _, err = svc.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
