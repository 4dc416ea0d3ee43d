package service

import (
	"context"

	"github.com/pageza/recipebox/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Verify(ctx context.Context, email, password string) (*Identity, error)
	Login(ctx context.Context, email, password string) (string, error)
	IssueToken(userID uint, role string) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	List(ctx context.Context) ([]types.Recipe, error)
	Get(ctx context.Context, id uint) (*types.Recipe, error)
	Create(ctx context.Context, fields types.RecipeFields, image *string) (*types.Recipe, error)
	Update(ctx context.Context, id uint, fields types.RecipeFields, newImage *string) error
	Delete(ctx context.Context, id uint) error
}

var (
	_ IAuthService   = (*AuthService)(nil)
	_ IRecipeService = (*RecipeService)(nil)
)
