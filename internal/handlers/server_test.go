package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Lixing-Zhang/foodgram/backend/internal/auth"
	"github.com/Lixing-Zhang/foodgram/backend/internal/config"
	"github.com/Lixing-Zhang/foodgram/backend/internal/database"
	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
	"github.com/Lixing-Zhang/foodgram/backend/internal/repository"
	"github.com/Lixing-Zhang/foodgram/backend/internal/service"
	"github.com/Lixing-Zhang/foodgram/backend/internal/testutil"
)

const testSecret = "handler-test-secret-of-32-characters!!"

// testServer is the full router over a fresh sqlite database
type testServer struct {
	t       *testing.T
	db      *gorm.DB
	repos   *repository.Repositories
	svc     Services
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.DB(t)
	repos := repository.NewRepositories(db)

	tokens, err := auth.NewTokenManager(testSecret, time.Hour)
	require.NoError(t, err)
	hasher := auth.BcryptHasher{Cost: bcrypt.MinCost}

	svc := Services{
		Catalog:       service.NewCatalogService(repos.Tags, repos.Ingredients),
		Recipes:       service.NewRecipeService(repos),
		Favorites:     service.NewFavoriteService(repos),
		Cart:          service.NewShoppingCartService(repos),
		Users:         service.NewUserService(repos, hasher),
		Subscriptions: service.NewSubscriptionService(repos),
		Auth:          service.NewAuthService(repos, tokens, hasher),
	}
	cfg := config.APIConfig{
		PageSize:    6,
		MaxPageSize: 999,
		CORSOrigins: []string{"*"},
	}
	pinger := PingerFunc(func(ctx context.Context) error { return database.Ping(ctx, db) })

	return &testServer{
		t:       t,
		db:      db,
		repos:   repos,
		svc:     svc,
		handler: NewRouter(svc, pinger, cfg, testutil.Logger(t)),
	}
}

// do sends a request through the router; body is JSON-encoded when non-nil
func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

// signUp registers username and logs in, returning the stored user and a token
func (s *testServer) signUp(username string) (*models.User, string) {
	s.t.Helper()
	ctx := context.Background()

	created, err := s.svc.Users.Register(ctx, models.UserCreateRequest{
		Email:     username + "@mail.test",
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "correct-horse",
	})
	require.NoError(s.t, err)

	token, err := s.svc.Auth.Login(ctx, username+"@mail.test", "correct-horse")
	require.NoError(s.t, err)

	user, err := s.repos.Users.GetByID(ctx, created.ID)
	require.NoError(s.t, err)
	return user, token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}
