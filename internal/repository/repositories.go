package repository

import "gorm.io/gorm"

// Repositories bundles every repository backed by one database handle
type Repositories struct {
	Users         UserRepository
	Tokens        TokenRepository
	Follows       FollowRepository
	Tags          TagRepository
	Ingredients   IngredientRepository
	Recipes       RecipeRepository
	Favorites     FavoriteRepository
	ShoppingLists ShoppingListRepository
}

// NewRepositories creates the gorm implementation of every repository
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:         NewGormUserRepository(db),
		Tokens:        NewGormTokenRepository(db),
		Follows:       NewGormFollowRepository(db),
		Tags:          NewGormTagRepository(db),
		Ingredients:   NewGormIngredientRepository(db),
		Recipes:       NewGormRecipeRepository(db),
		Favorites:     NewGormFavoriteRepository(db),
		ShoppingLists: NewGormShoppingListRepository(db),
	}
}
