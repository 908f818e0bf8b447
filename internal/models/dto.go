package models

// UserResponse is the public representation of a user
type UserResponse struct {
	Email        string `json:"email"`
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// NewUserResponse builds the response for u as seen by a viewer
func NewUserResponse(u *User, isSubscribed bool) UserResponse {
	return UserResponse{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
	}
}

// UserWithRecipes is an entry of the subscriptions list
type UserWithRecipes struct {
	UserResponse
	Recipes      []RecipeShort `json:"recipes"`
	RecipesCount int64         `json:"recipes_count"`
}

// RecipeIngredientResponse is a line item as rendered in a recipe
type RecipeIngredientResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeResponse is the full representation of a recipe
type RecipeResponse struct {
	ID               uint                       `json:"id"`
	Tags             []Tag                      `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

// RecipeShort is the compact representation returned by favorite and cart toggles
type RecipeShort struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// NewRecipeShort builds the compact representation of r
func NewRecipeShort(r *Recipe) RecipeShort {
	return RecipeShort{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

// IngredientAmount is a line item in a recipe write request
type IngredientAmount struct {
	ID     uint `json:"id" validate:"required"`
	Amount int  `json:"amount" validate:"min=1"`
}

// RecipeRequest is the payload of recipe create and full update
type RecipeRequest struct {
	Ingredients []IngredientAmount `json:"ingredients" validate:"required,min=1,dive"`
	Tags        []uint             `json:"tags" validate:"required,min=1,unique"`
	Image       string             `json:"image" validate:"required"`
	Name        string             `json:"name" validate:"required,max=200"`
	Text        string             `json:"text" validate:"required"`
	CookingTime int                `json:"cooking_time" validate:"min=1"`
}

// RecipePatch is the payload of a partial recipe update; nil fields are kept
type RecipePatch struct {
	Ingredients *[]IngredientAmount `json:"ingredients" validate:"omitnil,min=1,dive"`
	Tags        *[]uint             `json:"tags" validate:"omitnil,min=1,unique"`
	Image       *string             `json:"image" validate:"omitnil,min=1"`
	Name        *string             `json:"name" validate:"omitnil,min=1,max=200"`
	Text        *string             `json:"text" validate:"omitnil,min=1"`
	CookingTime *int                `json:"cooking_time" validate:"omitnil,min=1"`
}

// Apply merges the patch over a full request built from the stored recipe
func (p RecipePatch) Apply(base RecipeRequest) RecipeRequest {
	if p.Ingredients != nil {
		base.Ingredients = *p.Ingredients
	}
	if p.Tags != nil {
		base.Tags = *p.Tags
	}
	if p.Image != nil {
		base.Image = *p.Image
	}
	if p.Name != nil {
		base.Name = *p.Name
	}
	if p.Text != nil {
		base.Text = *p.Text
	}
	if p.CookingTime != nil {
		base.CookingTime = *p.CookingTime
	}
	return base
}

// UserCreateRequest is the registration payload
type UserCreateRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest is the token login payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SetPasswordRequest is the password change payload
type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
	CurrentPassword string `json:"current_password" validate:"required"`
}

// TokenResponse carries an issued auth token
type TokenResponse struct {
	AuthToken string `json:"auth_token"`
}

// Page is a paginated list response
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}
