package presentation

import (
	"context"
	"fmt"
	"strings"

	"github.com/pageza/recipebox/backend/internal/types"
)

// UploadsPrefix is where bare image filenames are served from
const UploadsPrefix = "/uploads"

// IngredientItem pairs an ingredient with a shopping-list check mark. Checked is view
// state only and is never serialized.
type IngredientItem struct {
	types.Ingredient
	Checked bool `json:"-"`
}

// RecipeGetter is the part of the API the detail view needs
type RecipeGetter interface {
	GetRecipe(ctx context.Context, id uint) (*types.Recipe, error)
}

// Detail is the single-recipe view
type Detail struct {
	Recipe types.Recipe
	Items  []IngredientItem
}

func NewDetail(recipe types.Recipe) *Detail {
	items := make([]IngredientItem, len(recipe.Ingredients))
	for i, ing := range recipe.Ingredients {
		items[i] = IngredientItem{Ingredient: ing}
	}
	return &Detail{Recipe: recipe, Items: items}
}

// LoadDetail fetches one recipe and wraps it for display
func LoadDetail(ctx context.Context, api RecipeGetter, id uint) (*Detail, error) {
	recipe, err := api.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewDetail(*recipe), nil
}

// Toggle flips the check mark on ingredient i
func (d *Detail) Toggle(i int) error {
	if i < 0 || i >= len(d.Items) {
		return fmt.Errorf("ingredient %d out of range (have %d)", i, len(d.Items))
	}
	d.Items[i].Checked = !d.Items[i].Checked
	return nil
}

// ClearAll unchecks every ingredient
func (d *Detail) ClearAll() {
	for i := range d.Items {
		d.Items[i].Checked = false
	}
}

// ImageURL returns the path to request the recipe photo from, or "" when there is none
func (d *Detail) ImageURL() string {
	return ResolveImageURL(d.Recipe.Image)
}

// ResolveImageURL keeps paths under /uploads and absolute URLs as they are and places
// bare filenames under /uploads.
func ResolveImageURL(image *string) string {
	if image == nil || *image == "" {
		return ""
	}
	img := *image
	switch {
	case strings.HasPrefix(img, UploadsPrefix),
		strings.HasPrefix(img, "http://"),
		strings.HasPrefix(img, "https://"):
		return img
	default:
		return UploadsPrefix + "/" + img
	}
}
