// Package presentation holds the local state behind the recipe list and detail views.
package presentation

import (
	"context"
	"strings"

	"github.com/pageza/recipebox/backend/internal/types"
)

// RecipeLister is the part of the API the list view needs
type RecipeLister interface {
	ListRecipes(ctx context.Context) ([]types.Recipe, error)
	DeleteRecipe(ctx context.Context, id uint) error
}

// Board is the list view. It is not safe for concurrent use.
type Board struct {
	api     RecipeLister
	recipes []types.Recipe
}

func NewBoard(api RecipeLister) *Board {
	return &Board{api: api}
}

// Load replaces local state with the full list from the server
func (b *Board) Load(ctx context.Context) error {
	recipes, err := b.api.ListRecipes(ctx)
	if err != nil {
		return err
	}
	b.recipes = recipes
	return nil
}

// Recipes returns the locally held list
func (b *Board) Recipes() []types.Recipe {
	out := make([]types.Recipe, len(b.recipes))
	copy(out, b.recipes)
	return out
}

// Filter returns the local recipes whose title contains term, ignoring case. An empty
// term matches everything. The server is not consulted.
func (b *Board) Filter(term string) []types.Recipe {
	needle := strings.ToLower(term)
	out := make([]types.Recipe, 0, len(b.recipes))
	for _, r := range b.recipes {
		if strings.Contains(strings.ToLower(r.Title), needle) {
			out = append(out, r)
		}
	}
	return out
}

// Delete removes a recipe on the server and then from local state without refetching.
// On failure local state is left untouched.
func (b *Board) Delete(ctx context.Context, id uint) error {
	if err := b.api.DeleteRecipe(ctx, id); err != nil {
		return err
	}
	kept := b.recipes[:0]
	for _, r := range b.recipes {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	b.recipes = kept
	return nil
}
