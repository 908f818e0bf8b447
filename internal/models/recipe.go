package models

import (
	"time"

	"github.com/Lixing-Zhang/foodgram/backend/internal/shopping"
)

// Tag is a recipe category such as "breakfast"
type Tag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:200;uniqueIndex;not null" json:"name"`
	Color string `gorm:"size:7;uniqueIndex;not null" json:"color"`
	Slug  string `gorm:"size:200;uniqueIndex;not null" json:"slug"`
}

// Ingredient is identified by its name and measurement unit
type Ingredient struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"size:200;index;not null" json:"name"`
	MeasurementUnit string `gorm:"size:200;not null" json:"measurement_unit"`
}

// RecipeIngredient is a line item: an ingredient with an amount, owned by one recipe
type RecipeIngredient struct {
	ID           uint       `gorm:"primaryKey"`
	RecipeID     uint       `gorm:"index;not null"`
	IngredientID uint       `gorm:"index;not null"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID"`
	Amount       int        `gorm:"not null"`
}

// Recipe is a published recipe
type Recipe struct {
	ID          uint               `gorm:"primaryKey"`
	AuthorID    uint               `gorm:"index;not null"`
	Author      User               `gorm:"foreignKey:AuthorID"`
	Name        string             `gorm:"size:200;not null"`
	Image       string             `gorm:"type:text"`
	Text        string             `gorm:"type:text;not null"`
	CookingTime int                `gorm:"not null"`
	PubDate     time.Time          `gorm:"autoCreateTime;index"`
	Tags        []Tag              `gorm:"many2many:recipe_tags"`
	Ingredients []RecipeIngredient
}

// LineItems exposes the recipe's ingredients to the shopping list aggregator
func (r *Recipe) LineItems() []shopping.LineItem {
	items := make([]shopping.LineItem, 0, len(r.Ingredients))
	for _, ri := range r.Ingredients {
		items = append(items, shopping.LineItem{
			Name:   ri.Ingredient.Name,
			Unit:   ri.Ingredient.MeasurementUnit,
			Amount: ri.Amount,
		})
	}
	return items
}

// Favorite marks a recipe as a user's favorite; unique per (user, recipe)
type Favorite struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"uniqueIndex:idx_favorite_user_recipe;not null"`
	RecipeID  uint `gorm:"uniqueIndex:idx_favorite_user_recipe;index;not null"`
	CreatedAt time.Time
}

// ShoppingList is a user's cart; each user has at most one
type ShoppingList struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
}

// ShoppingListRecipe puts a recipe in a shopping list; unique per (list, recipe)
type ShoppingListRecipe struct {
	ID             uint   `gorm:"primaryKey"`
	ShoppingListID uint   `gorm:"uniqueIndex:idx_shopping_list_recipe;not null"`
	RecipeID       uint   `gorm:"uniqueIndex:idx_shopping_list_recipe;index;not null"`
	Recipe         Recipe `gorm:"foreignKey:RecipeID"`
	CreatedAt      time.Time
}
