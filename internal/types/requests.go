package types

// LoginRequest is the body of POST /login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued session token
type LoginResponse struct {
	Token string `json:"token"`
}

// RecipeFields are the user-editable fields written on create and update
type RecipeFields struct {
	Title        string
	Description  string
	Ingredients  []Ingredient
	Instructions []string
}

// MessageResponse is the body of every error and of non-entity success responses
type MessageResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"id,omitempty"`
}
