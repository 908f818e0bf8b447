package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
)

// ErrUnauthenticated is reported when a route requires a user and none is present
var ErrUnauthenticated = errors.New("authentication credentials were not provided")

// Authenticator resolves a raw token to its user and token id
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, string, error)
}

type contextKey int

const (
	userKey contextKey = iota
	tokenIDKey
)

// Authenticate resolves "Authorization: Token <t>" or "Authorization: Bearer <t>"
// to a user stored in the request context. Requests without the header pass
// through anonymously; a header carrying a bad token is rejected with 401.
func Authenticate(authn Authenticator, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := tokenFromHeader(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user, tokenID, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				logger.Debug("rejected auth token", "error", err, "path", r.URL.Path)
				writeUnauthorized(w, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user, tokenID)))
		})
	}
}

// RequireAuth rejects anonymous requests with 401
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			writeUnauthorized(w, ErrUnauthenticated.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the authenticated user, or nil for anonymous requests
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

// TokenIDFromContext returns the id of the token that authenticated the request
func TokenIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(tokenIDKey).(string)
	return id
}

// WithUser returns a context carrying user, as Authenticate would
func WithUser(ctx context.Context, user *models.User, tokenID string) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, tokenIDKey, tokenID)
}

func tokenFromHeader(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found {
		return "", false
	}
	switch strings.ToLower(scheme) {
	case "token", "bearer":
	default:
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Token")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"errors": message})
}
