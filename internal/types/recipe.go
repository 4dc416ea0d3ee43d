package types

// Ingredient is one line of a recipe's ingredient list
type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

// Recipe represents a recipe in the system. Ingredients and Instructions are always in
// structured form here; the encoded column text never leaves the models package.
type Recipe struct {
	ID           uint         `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions"`
	Image        *string      `json:"image"`
}
