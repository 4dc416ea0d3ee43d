package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/storage"
	"github.com/pageza/recipebox/backend/internal/types"
)

// respondError maps service and storage errors to a status code and writes the JSON
// error body. fallback is the message used for unexpected failures.
func respondError(c *gin.Context, err error, fallback string) {
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, types.MessageResponse{Message: "Invalid email or password"})
	case errors.Is(err, service.ErrRecipeNotFound):
		c.JSON(http.StatusNotFound, types.MessageResponse{Message: "Recipe not found"})
	case errors.Is(err, service.ErrInvalidRecipe), errors.Is(err, errInvalidForm):
		c.JSON(http.StatusBadRequest, types.MessageResponse{Message: err.Error()})
	case errors.As(err, &maxBytesErr):
		c.JSON(http.StatusRequestEntityTooLarge, types.MessageResponse{Message: "request body too large"})
	case errors.Is(err, storage.ErrUpload):
		log.Printf("[RecipeHandler] %s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, types.MessageResponse{Message: "Error saving image"})
	default:
		log.Printf("[RecipeHandler] %s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, types.MessageResponse{Message: fallback})
	}
}
