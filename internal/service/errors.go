package service

import "errors"

var (
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrRecipeDoesNotExist = errors.New("recipe does not exist")
	ErrUserNotFound       = errors.New("user not found")
	ErrTagNotFound        = errors.New("tag not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrForbidden          = errors.New("only the author may change this recipe")

	ErrAlreadyFavorited  = errors.New("the recipe is already in the favorites")
	ErrNotFavorited      = errors.New("there is no recipe in the favorites")
	ErrAlreadyInCart     = errors.New("the recipe is already in the shopping list")
	ErrNotInCart         = errors.New("there is no recipe in the shopping list")
	ErrAlreadySubscribed = errors.New("you are already subscribed to the user")
	ErrSelfSubscription  = errors.New("unable to subscribe to yourself")
	ErrNotSubscribed     = errors.New("you are not subscribed to the user")

	ErrInvalidCredentials = errors.New("unable to log in with provided credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrEmailTaken         = errors.New("a user with that email already exists")
	ErrUsernameTaken      = errors.New("a user with that username already exists")
	ErrWrongPassword      = errors.New("current password is incorrect")

	ErrUnknownIngredient   = errors.New("ingredient does not exist")
	ErrUnknownTag          = errors.New("tag does not exist")
	ErrDuplicateIngredient = errors.New("ingredients must not repeat")
)
