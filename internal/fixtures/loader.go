// Package fixtures loads seed data for ingredients and users from local files
// or http(s) URLs and inserts whatever is missing.
package fixtures

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// IngredientRecord is one entry of an ingredient fixture file
type IngredientRecord struct {
	Name            string `json:"name" validate:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" validate:"required,max=200"`
}

// UserRecord is one entry of a user fixture file
type UserRecord struct {
	Username  string `json:"username" validate:"required,max=150,username"`
	Email     string `json:"email" validate:"required,email,max=254"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required"`
}

// Loader fetches fixture sources. A source is a file path or an http(s) URL;
// sources ending in .gz are gunzipped.
type Loader struct {
	client *http.Client
}

// NewLoader creates a loader with a bounded HTTP timeout
func NewLoader() *Loader {
	return &Loader{
		client: &http.Client{Timeout: 2 * time.Minute},
	}
}

// loadResult holds the records decoded from a single source
type loadResult[T any] struct {
	index   int
	records []T
	err     error
}

// Ingredients loads every source concurrently and concatenates the records in source order
func (l *Loader) Ingredients(ctx context.Context, sources []string) ([]IngredientRecord, error) {
	return load[IngredientRecord](ctx, l, sources)
}

// Users loads every source concurrently and concatenates the records in source order
func (l *Loader) Users(ctx context.Context, sources []string) ([]UserRecord, error) {
	return load[UserRecord](ctx, l, sources)
}

func load[T any](ctx context.Context, l *Loader, sources []string) ([]T, error) {
	if len(sources) == 0 {
		return nil, nil
	}

	resultChan := make(chan loadResult[T], len(sources))

	var wg sync.WaitGroup
	for i, source := range sources {
		wg.Add(1)
		go func(index int, source string) {
			defer wg.Done()

			records, err := decodeSource[T](ctx, l, source)
			resultChan <- loadResult[T]{index: index, records: records, err: err}
		}(i, source)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	// Collect results maintaining order
	results := make([]loadResult[T], len(sources))
	for result := range resultChan {
		results[result.index] = result
	}

	var records []T
	for i, result := range results {
		if result.err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", sources[i], result.err)
		}
		records = append(records, result.records...)
	}
	return records, nil
}

func decodeSource[T any](ctx context.Context, l *Loader, source string) ([]T, error) {
	rc, err := l.open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var r io.Reader = rc
	if strings.HasSuffix(strings.ToLower(source), ".gz") {
		gzReader, err := gzip.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzReader.Close()
		r = gzReader
	}

	var records []T
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return records, nil
}

func (l *Loader) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return resp.Body, nil
}
