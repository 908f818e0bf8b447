package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
)

func validRecipe() models.RecipeRequest {
	return models.RecipeRequest{
		Ingredients: []models.IngredientAmount{{ID: 1, Amount: 10}},
		Tags:        []uint{1, 2},
		Image:       "data:image/png;base64,AAAA",
		Name:        "Borscht",
		Text:        "Boil the beets",
		CookingTime: 60,
	}
}

func TestStruct_RecipeRequest(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*models.RecipeRequest)
		wantField string
	}{
		{name: "valid", mutate: func(*models.RecipeRequest) {}},
		{name: "no ingredients", mutate: func(r *models.RecipeRequest) { r.Ingredients = nil }, wantField: "ingredients"},
		{name: "zero amount", mutate: func(r *models.RecipeRequest) { r.Ingredients[0].Amount = 0 }, wantField: "ingredients[0].amount"},
		{name: "duplicate tags", mutate: func(r *models.RecipeRequest) { r.Tags = []uint{1, 1} }, wantField: "tags"},
		{name: "no tags", mutate: func(r *models.RecipeRequest) { r.Tags = []uint{} }, wantField: "tags"},
		{name: "long name", mutate: func(r *models.RecipeRequest) { r.Name = string(make([]byte, 201)) }, wantField: "name"},
		{name: "zero cooking time", mutate: func(r *models.RecipeRequest) { r.CookingTime = 0 }, wantField: "cooking_time"},
		{name: "missing image", mutate: func(r *models.RecipeRequest) { r.Image = "" }, wantField: "image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRecipe()
			tt.mutate(&req)

			err := Struct(&req)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var verr *Error
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Contains(t, verr.Fields, tt.wantField)
		})
	}
}

func TestStruct_RecipePatch(t *testing.T) {
	empty := ""
	zero := 0
	assert.NoError(t, Struct(&models.RecipePatch{}), "all fields omitted")

	err := Struct(&models.RecipePatch{Name: &empty, CookingTime: &zero})
	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "cooking_time")
}

func TestStruct_Username(t *testing.T) {
	req := models.UserCreateRequest{
		Email:     "cook@example.com",
		Username:  "good.name+1@x",
		FirstName: "A",
		LastName:  "B",
		Password:  "long-enough",
	}
	assert.NoError(t, Struct(&req))

	req.Username = "bad name!"
	err := Struct(&req)
	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "username may contain only letters, digits and @/./+/-/_", verr.Fields["username"])
}

func TestError_Message(t *testing.T) {
	err := &Error{Fields: map[string]string{"b": "b is required", "a": "a is required"}}
	assert.Equal(t, "a is required; b is required", err.Error())
	assert.Equal(t, "validation failed", (&Error{}).Error())
}
