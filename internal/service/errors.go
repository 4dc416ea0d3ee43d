package service

import "errors"

var (
	// ErrInvalidCredentials is returned for both unknown emails and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrInvalidRecipe      = errors.New("invalid recipe")
	ErrStorage            = errors.New("storage failure")
)
