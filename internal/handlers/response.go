package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/Lixing-Zhang/foodgram/backend/internal/service"
	"github.com/Lixing-Zhang/foodgram/backend/internal/validation"
)

const maxBodyBytes = 10 << 20

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Errors string            `json:"errors"`
	Fields map[string]string `json:"fields,omitempty"`
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response in JSON format
func WriteError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	WriteJSON(w, status, ErrorResponse{Errors: message}, logger)
}

// writeServiceError maps a service error to its status code.
// Unknown errors are logged and reported as 500.
func writeServiceError(w http.ResponseWriter, err error, logger *slog.Logger, msg string, args ...any) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(msg, append(args, "error", err)...)
		WriteError(w, status, "Internal server error", logger)
		return
	}

	logger.Debug(msg, append(args, "error", err, "status", status)...)
	WriteError(w, status, err.Error(), logger)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrRecipeNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrTagNotFound),
		errors.Is(err, service.ErrIngredientNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrRecipeDoesNotExist),
		errors.Is(err, service.ErrAlreadyFavorited),
		errors.Is(err, service.ErrNotFavorited),
		errors.Is(err, service.ErrAlreadyInCart),
		errors.Is(err, service.ErrNotInCart),
		errors.Is(err, service.ErrAlreadySubscribed),
		errors.Is(err, service.ErrSelfSubscription),
		errors.Is(err, service.ErrNotSubscribed),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrWrongPassword),
		errors.Is(err, service.ErrUnknownIngredient),
		errors.Is(err, service.ErrUnknownTag),
		errors.Is(err, service.ErrDuplicateIngredient):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeAndValidate reads a JSON body into dst and validates it.
// On failure it writes the 400 reply and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}, logger *slog.Logger) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.Debug("failed to decode request body", "error", err, "path", r.URL.Path)
		WriteError(w, http.StatusBadRequest, "Invalid request body", logger)
		return false
	}

	if err := validation.Struct(dst); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			WriteJSON(w, http.StatusBadRequest, ErrorResponse{Errors: verr.Error(), Fields: verr.Fields}, logger)
			return false
		}
		logger.Error("failed to validate request", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", logger)
		return false
	}
	return true
}
