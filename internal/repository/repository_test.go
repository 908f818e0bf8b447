package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
	"github.com/Lixing-Zhang/foodgram/backend/internal/repository"
	"github.com/Lixing-Zhang/foodgram/backend/internal/testutil"
)

func TestShoppingListRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	cart := repository.NewGormShoppingListRepository(db)

	user := testutil.SeedUser(t, db, "cook")
	salt := testutil.SeedIngredient(t, db, "Salt", "g")
	first := testutil.SeedRecipe(t, db, user, "First", nil, []*models.Ingredient{salt}, []int{10})
	second := testutil.SeedRecipe(t, db, user, "Second", nil, []*models.Ingredient{salt}, []int{5})

	recipes, err := cart.Recipes(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, recipes, "no list yet")

	require.NoError(t, cart.Add(ctx, user.ID, second.ID))
	require.NoError(t, cart.Add(ctx, user.ID, first.ID))
	assert.ErrorIs(t, cart.Add(ctx, user.ID, first.ID), repository.ErrDuplicate)

	var lists int64
	require.NoError(t, db.Model(&models.ShoppingList{}).Count(&lists).Error)
	assert.Equal(t, int64(1), lists, "one list per user")

	recipes, err = cart.Recipes(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Second", "First"}, recipeNames(recipes), "insertion order")
	require.Len(t, recipes[0].Ingredients, 1)
	assert.Equal(t, "Salt", recipes[0].Ingredients[0].Ingredient.Name)

	inCart, err := cart.InCartIDs(ctx, user.ID, []uint{first.ID, second.ID, 999})
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{first.ID: true, second.ID: true}, inCart)

	removed, err := cart.Remove(ctx, user.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = cart.Remove(ctx, user.ID, first.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	exists, err := cart.Exists(ctx, user.ID, second.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestFavoriteRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	favorites := repository.NewGormFavoriteRepository(db)

	user := testutil.SeedUser(t, db, "fan")
	recipe := testutil.SeedRecipe(t, db, user, "Soup", nil, nil, nil)

	require.NoError(t, favorites.Add(ctx, user.ID, recipe.ID))
	assert.ErrorIs(t, favorites.Add(ctx, user.ID, recipe.ID), repository.ErrDuplicate)

	var rows int64
	require.NoError(t, db.Model(&models.Favorite{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	ids, err := favorites.FavoritedIDs(ctx, user.ID, []uint{recipe.ID})
	require.NoError(t, err)
	assert.True(t, ids[recipe.ID])

	ids, err = favorites.FavoritedIDs(ctx, 0, []uint{recipe.ID})
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFollowRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	follows := repository.NewGormFollowRepository(db)

	reader := testutil.SeedUser(t, db, "reader")
	first := testutil.SeedUser(t, db, "first")
	second := testutil.SeedUser(t, db, "second")

	require.NoError(t, follows.Create(ctx, reader.ID, second.ID))
	require.NoError(t, follows.Create(ctx, reader.ID, first.ID))
	assert.ErrorIs(t, follows.Create(ctx, reader.ID, first.ID), repository.ErrDuplicate)

	users, count, err := follows.ListFollowing(ctx, reader.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	require.Len(t, users, 2)
	assert.Equal(t, "second", users[0].Username)

	ids, err := follows.FollowingIDs(ctx, reader.ID, []uint{first.ID, reader.ID})
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{first.ID: true}, ids)

	deleted, err := follows.Delete(ctx, reader.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	exists, err := follows.Exists(ctx, reader.ID, first.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestIngredientRepository_Search(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	ingredients := repository.NewGormIngredientRepository(db)

	testutil.SeedIngredient(t, db, "Sugar", "g")
	testutil.SeedIngredient(t, db, "salt", "g")
	testutil.SeedIngredient(t, db, "Salmon", "g")
	testutil.SeedIngredient(t, db, "50%_cream", "ml")

	tests := []struct {
		prefix string
		want   []string
	}{
		{prefix: "", want: []string{"50%_cream", "Salmon", "Sugar", "salt"}},
		{prefix: "sa", want: []string{"Salmon", "salt"}},
		{prefix: "SU", want: []string{"Sugar"}},
		{prefix: "50%", want: []string{"50%_cream"}},
		{prefix: "%", want: []string{}},
		{prefix: "x", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			got, err := ingredients.Search(ctx, tt.prefix)
			require.NoError(t, err)
			names := make([]string, 0, len(got))
			for _, i := range got {
				names = append(names, i.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestIngredientRepository_GetOrCreate(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	ingredients := repository.NewGormIngredientRepository(db)

	first, created, err := ingredients.GetOrCreate(ctx, "Flour", "g")
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := ingredients.GetOrCreate(ctx, "Flour", "g")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	_, created, err = ingredients.GetOrCreate(ctx, "Flour", "kg")
	require.NoError(t, err)
	assert.True(t, created, "unit is part of the identity")
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	users := repository.NewGormUserRepository(db)

	u := &models.User{Email: "a@example.com", Username: "a", FirstName: "A", LastName: "B", Password: "hash"}
	require.NoError(t, users.Create(ctx, u))

	dup := &models.User{Email: "a@example.com", Username: "other", FirstName: "A", LastName: "B", Password: "hash"}
	assert.ErrorIs(t, users.Create(ctx, dup), repository.ErrDuplicate)

	byEmail, err := users.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = users.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	require.NoError(t, users.UpdatePassword(ctx, u.ID, "new-hash"))
	reloaded, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", reloaded.Password)

	assert.ErrorIs(t, users.UpdatePassword(ctx, 999, "x"), repository.ErrUserNotFound)

	list, count, err := users.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Len(t, list, 1)
}
