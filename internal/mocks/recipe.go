package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) List(ctx context.Context) ([]types.Recipe, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Recipe), args.Error(1)
}

func (m *MockRecipeService) Get(ctx context.Context, id uint) (*types.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Recipe), args.Error(1)
}

func (m *MockRecipeService) Create(ctx context.Context, fields types.RecipeFields, image *string) (*types.Recipe, error) {
	args := m.Called(ctx, fields, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Recipe), args.Error(1)
}

func (m *MockRecipeService) Update(ctx context.Context, id uint, fields types.RecipeFields, newImage *string) error {
	args := m.Called(ctx, id, fields, newImage)
	return args.Error(0)
}

func (m *MockRecipeService) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ service.IRecipeService = (*MockRecipeService)(nil)
