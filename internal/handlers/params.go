package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
)

var errInvalidFilter = errors.New("invalid filter value")

// Paginator reads page and limit query parameters
type Paginator struct {
	DefaultLimit int
	MaxLimit     int
}

// PageRequest is a parsed page selection; Page is 1-based
type PageRequest struct {
	Page  int
	Limit int
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Parse reads ?page= and ?limit=. A missing or malformed limit falls back to
// the default and a limit above the maximum is clamped. A malformed page is an error.
func (p Paginator) Parse(r *http.Request) (PageRequest, error) {
	q := r.URL.Query()
	req := PageRequest{Page: 1, Limit: p.DefaultLimit}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return req, errors.New("invalid page")
		}
		req.Page = page
	}

	if raw := q.Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			req.Limit = limit
		}
	}
	if p.MaxLimit > 0 && req.Limit > p.MaxLimit {
		req.Limit = p.MaxLimit
	}
	return req, nil
}

// pageLinks builds absolute next and previous URLs for the page
func pageLinks(r *http.Request, req PageRequest, count int64) (next, previous *string) {
	if int64(req.Page*req.Limit) < count {
		u := pageURL(r, req.Page+1)
		next = &u
	}
	if req.Page > 1 {
		u := pageURL(r, req.Page-1)
		previous = &u
	}
	return next, previous
}

func pageURL(r *http.Request, page int) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}

	q := r.URL.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}

	u := url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawQuery: q.Encode()}
	return u.String()
}

// idParam parses a positive numeric URL parameter
func idParam(r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// boolFilter parses true/false/1/0; an absent parameter yields nil
func boolFilter(q url.Values, name string) (*bool, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	var v bool
	switch strings.ToLower(raw) {
	case "true", "1":
		v = true
	case "false", "0":
		v = false
	default:
		return nil, errInvalidFilter
	}
	return &v, nil
}

// recipesLimit parses ?recipes_limit=; absent or malformed means no limit
func recipesLimit(q url.Values) int {
	limit, err := strconv.Atoi(q.Get("recipes_limit"))
	if err != nil || limit < 0 {
		return -1
	}
	return limit
}

// writePage replies with a paginated body for the current request
func writePage[T any](w http.ResponseWriter, r *http.Request, req PageRequest, results []T, count int64, logger *slog.Logger) {
	if results == nil {
		results = []T{}
	}
	next, previous := pageLinks(r, req, count)
	WriteJSON(w, http.StatusOK, models.Page[T]{
		Count:    count,
		Next:     next,
		Previous: previous,
		Results:  results,
	}, logger)
}
