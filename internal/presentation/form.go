package presentation

import (
	"strings"

	"github.com/pageza/recipebox/backend/internal/types"
)

// PrepareFields drops ingredient rows missing a name or an amount and blank
// instruction steps before a create or update is submitted.
func PrepareFields(fields types.RecipeFields) types.RecipeFields {
	ingredients := make([]types.Ingredient, 0, len(fields.Ingredients))
	for _, ing := range fields.Ingredients {
		if strings.TrimSpace(ing.Name) != "" && strings.TrimSpace(ing.Amount) != "" {
			ingredients = append(ingredients, ing)
		}
	}
	steps := make([]string, 0, len(fields.Instructions))
	for _, step := range fields.Instructions {
		if strings.TrimSpace(step) != "" {
			steps = append(steps, step)
		}
	}
	fields.Ingredients = ingredients
	fields.Instructions = steps
	return fields
}

// ParseIngredient reads "name,amount,unit" as typed on the command line. Missing
// trailing parts are left empty.
func ParseIngredient(s string) types.Ingredient {
	parts := strings.SplitN(s, ",", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	return types.Ingredient{
		Name:   strings.TrimSpace(parts[0]),
		Amount: strings.TrimSpace(parts[1]),
		Unit:   strings.TrimSpace(parts[2]),
	}
}
