package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
	"github.com/Lixing-Zhang/foodgram/backend/pkg/logger"
)

type stubAuthenticator map[string]*models.User

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (*models.User, string, error) {
	user, ok := s[token]
	if !ok {
		return nil, "", errors.New("invalid token")
	}
	return user, "jti-" + token, nil
}

func TestAuthenticate(t *testing.T) {
	authn := stubAuthenticator{"good": {ID: 7, Username: "cook"}}

	// Echo the resolved user so the test can see what reached the handler
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if user := UserFromContext(r.Context()); user != nil {
			_, _ = w.Write([]byte(user.Username + ":" + TokenIDFromContext(r.Context())))
			return
		}
		_, _ = w.Write([]byte("anonymous"))
	})

	authHandler := Authenticate(authn, logger.New("disabled"))(testHandler)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "token scheme",
			header:         "Token good",
			expectedStatus: http.StatusOK,
			expectedBody:   "cook:jti-good",
		},
		{
			name:           "bearer scheme",
			header:         "Bearer good",
			expectedStatus: http.StatusOK,
			expectedBody:   "cook:jti-good",
		},
		{
			name:           "no header is anonymous",
			header:         "",
			expectedStatus: http.StatusOK,
			expectedBody:   "anonymous",
		},
		{
			name:           "unknown scheme is anonymous",
			header:         "Basic Zm9vOmJhcg==",
			expectedStatus: http.StatusOK,
			expectedBody:   "anonymous",
		},
		{
			name:           "invalid token",
			header:         "Token bad",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			authHandler.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}
			if tt.expectedBody != "" && w.Body.String() != tt.expectedBody {
				t.Errorf("body = %s, want %s", w.Body.String(), tt.expectedBody)
			}
			if tt.expectedStatus == http.StatusUnauthorized && !strings.Contains(w.Body.String(), `"errors"`) {
				t.Errorf("body = %s, want JSON errors payload", w.Body.String())
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want %d", w.Code, http.StatusUnauthorized)
	}

	req = req.WithContext(WithUser(req.Context(), &models.User{ID: 1}, "jti"))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("authenticated status = %d, want %d", w.Code, http.StatusNoContent)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New("info", logger.WithOutput(&buf))

	handler := Logger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/tags", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	for _, want := range []string{`"msg":"http request"`, `"status":418`, `"path":"/api/tags"`} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %s missing %s", line, want)
		}
	}
}
