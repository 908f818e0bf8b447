package fixtures

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Lixing-Zhang/foodgram/backend/internal/auth"
	"github.com/Lixing-Zhang/foodgram/backend/internal/config"
	"github.com/Lixing-Zhang/foodgram/backend/internal/repository"
	"github.com/Lixing-Zhang/foodgram/backend/internal/testutil"
)

const (
	ingredientsJSON = `[
		{"name": "Flour", "measurement_unit": "g"},
		{"name": "Milk", "measurement_unit": "ml"}
	]`
	moreIngredientsJSON = `[
		{"name": "Salt", "measurement_unit": "g"},
		{"name": "Flour", "measurement_unit": "g"}
	]`
	usersJSON = `[
		{"username": "chef", "email": "chef@mail.test", "first_name": "Ann", "last_name": "Lee", "password": "secret-pass"}
	]`
)

// writeFixture writes content under dir, gzipping it when name ends in .gz
func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()

	data := []byte(content)
	if filepath.Ext(name) == ".gz" {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		if _, err := gz.Write(data); err != nil {
			t.Fatalf("failed to gzip fixture: %v", err)
		}
		if err := gz.Close(); err != nil {
			t.Fatalf("failed to gzip fixture: %v", err)
		}
		data = buf.Bytes()
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to create fixture %s: %v", name, err)
	}
	return path
}

func TestLoader_Ingredients(t *testing.T) {
	dir := t.TempDir()
	plain := writeFixture(t, dir, "ingredients.json", ingredientsJSON)
	gzipped := writeFixture(t, dir, "more.json.gz", moreIngredientsJSON)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ingredients.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`[{"name": "Sugar", "measurement_unit": "g"}]`))
	}))
	defer srv.Close()

	loader := NewLoader()
	ctx := context.Background()

	t.Run("files and urls in source order", func(t *testing.T) {
		records, err := loader.Ingredients(ctx, []string{gzipped, srv.URL + "/ingredients.json", plain})
		require.NoError(t, err)

		names := make([]string, 0, len(records))
		for _, r := range records {
			names = append(names, r.Name)
		}
		assert.Equal(t, []string{"Salt", "Flour", "Sugar", "Flour", "Milk"}, names)
	})

	t.Run("no sources", func(t *testing.T) {
		records, err := loader.Ingredients(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.Ingredients(ctx, []string{plain, filepath.Join(dir, "absent.json")})
		assert.Error(t, err)
	})

	t.Run("http error", func(t *testing.T) {
		_, err := loader.Ingredients(ctx, []string{srv.URL + "/missing.json"})
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		bad := writeFixture(t, dir, "bad.json", `{"name": "not an array"}`)
		_, err := loader.Ingredients(ctx, []string{bad})
		assert.Error(t, err)
	})
}

func TestSeeder_Run(t *testing.T) {
	db := testutil.DB(t)
	repos := repository.NewRepositories(db)
	hasher := auth.BcryptHasher{Cost: bcrypt.MinCost}
	seeder := NewSeeder(NewLoader(), repos, hasher, testutil.Logger(t))
	ctx := context.Background()

	dir := t.TempDir()
	cfg := config.FixturesConfig{
		Ingredients: []string{
			writeFixture(t, dir, "a.json", ingredientsJSON),
			writeFixture(t, dir, "b.json", moreIngredientsJSON),
		},
		Users: []string{writeFixture(t, dir, "users.json", usersJSON)},
	}

	require.NoError(t, seeder.Run(ctx, cfg))

	all, err := repos.Ingredients.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	chef, err := repos.Users.GetByEmail(ctx, "chef@mail.test")
	require.NoError(t, err)
	assert.Equal(t, "chef", chef.Username)
	assert.NoError(t, hasher.Compare(chef.Password, "secret-pass"))

	// Seeding again creates nothing
	created, err := seeder.SeedIngredients(ctx, []IngredientRecord{{Name: "Flour", MeasurementUnit: "g"}})
	require.NoError(t, err)
	assert.Zero(t, created)

	created, err = seeder.SeedUsers(ctx, []UserRecord{{
		Username: "chef", Email: "chef@mail.test", FirstName: "Ann", LastName: "Lee", Password: "secret-pass",
	}})
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestSeeder_RejectsInvalidRecords(t *testing.T) {
	db := testutil.DB(t)
	seeder := NewSeeder(NewLoader(), repository.NewRepositories(db), auth.BcryptHasher{Cost: bcrypt.MinCost}, testutil.Logger(t))

	_, err := seeder.SeedIngredients(context.Background(), []IngredientRecord{{Name: "Flour"}})
	assert.Error(t, err)

	_, err = seeder.SeedUsers(context.Background(), []UserRecord{{Username: "x", Email: "not-an-email", Password: "p"}})
	assert.Error(t, err)
}
