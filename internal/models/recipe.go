package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pageza/recipebox/backend/internal/types"
)

// IngredientList stores a recipe's ingredients as JSON text in a single column
type IngredientList []types.Ingredient

// Value implements the driver.Valuer interface
func (l IngredientList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]types.Ingredient(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (l *IngredientList) Scan(value interface{}) error {
	b, err := columnBytes(value)
	if err != nil {
		return err
	}
	if len(b) == 0 {
		*l = IngredientList{}
		return nil
	}
	var decoded []types.Ingredient
	if err := json.Unmarshal(b, &decoded); err != nil {
		return fmt.Errorf("decode ingredients: %w", err)
	}
	if decoded == nil {
		decoded = []types.Ingredient{}
	}
	*l = decoded
	return nil
}

// StepList stores a recipe's instruction steps as JSON text in a single column
type StepList []string

// Value implements the driver.Valuer interface
func (l StepList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (l *StepList) Scan(value interface{}) error {
	b, err := columnBytes(value)
	if err != nil {
		return err
	}
	if len(b) == 0 {
		*l = StepList{}
		return nil
	}
	var decoded []string
	if err := json.Unmarshal(b, &decoded); err != nil {
		return fmt.Errorf("decode instructions: %w", err)
	}
	if decoded == nil {
		decoded = []string{}
	}
	*l = decoded
	return nil
}

func columnBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported column type %T", value)
	}
}

// Recipe is the stored row of the recipes table
type Recipe struct {
	ID           uint           `gorm:"primaryKey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Title        string         `gorm:"size:255;not null"`
	Description  string         `gorm:"type:text;not null"`
	Ingredients  IngredientList `gorm:"type:text;not null"`
	Instructions StepList       `gorm:"type:text;not null"`
	Image        *string        `gorm:"size:1024"`
}

// ToType converts the row into its API form
func (r *Recipe) ToType() types.Recipe {
	ingredients := []types.Ingredient(r.Ingredients)
	if ingredients == nil {
		ingredients = []types.Ingredient{}
	}
	instructions := []string(r.Instructions)
	if instructions == nil {
		instructions = []string{}
	}
	return types.Recipe{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		Ingredients:  ingredients,
		Instructions: instructions,
		Image:        r.Image,
	}
}

// NewRecipe builds a row from user-editable fields
func NewRecipe(fields types.RecipeFields, image *string) *Recipe {
	return &Recipe{
		Title:        fields.Title,
		Description:  fields.Description,
		Ingredients:  IngredientList(fields.Ingredients),
		Instructions: StepList(fields.Instructions),
		Image:        image,
	}
}
