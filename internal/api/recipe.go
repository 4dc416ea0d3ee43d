package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/storage"
	"github.com/pageza/recipebox/backend/internal/types"
)

var errInvalidForm = errors.New("invalid form")

type RecipeHandler struct {
	recipes service.IRecipeService
	images  storage.ImageStore
}

func NewRecipeHandler(recipes service.IRecipeService, images storage.ImageStore) *RecipeHandler {
	return &RecipeHandler{
		recipes: recipes,
		images:  images,
	}
}

// RegisterRoutes mounts the recipe endpoints. Handlers passed in guard run before each.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, guard ...gin.HandlerFunc) {
	recipes := router.Group("/recipes", guard...)
	{
		recipes.GET("", h.ListRecipes)
		recipes.POST("", h.CreateRecipe)
		recipes.GET("/:id", h.GetRecipe)
		recipes.PUT("/:id", h.UpdateRecipe)
		recipes.DELETE("/:id", h.DeleteRecipe)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.recipes.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Error fetching recipes")
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Error fetching recipe")
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	fields, err := bindRecipeForm(c)
	if err != nil {
		respondError(c, err, "Error saving recipe")
		return
	}

	imagePath, err := h.acceptImage(c)
	if err != nil {
		respondError(c, err, "Error saving recipe")
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), fields, imagePath)
	if err != nil {
		h.discardImage(c, imagePath)
		respondError(c, err, "Error saving recipe")
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

// UpdateRecipe overwrites a recipe. Omitting the image part keeps the current photo.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	fields, err := bindRecipeForm(c)
	if err != nil {
		respondError(c, err, "Error updating recipe")
		return
	}

	imagePath, err := h.acceptImage(c)
	if err != nil {
		respondError(c, err, "Error updating recipe")
		return
	}

	if err := h.recipes.Update(c.Request.Context(), id, fields, imagePath); err != nil {
		h.discardImage(c, imagePath)
		respondError(c, err, "Error updating recipe")
		return
	}
	c.JSON(http.StatusOK, types.MessageResponse{Message: "Recipe updated", ID: id})
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Error deleting recipe")
		return
	}
	c.JSON(http.StatusOK, types.MessageResponse{Message: "Recipe deleted", ID: id})
}

func recipeID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, types.MessageResponse{Message: "invalid recipe id"})
		return 0, false
	}
	return uint(id), true
}

// bindRecipeForm reads the text parts of a recipe form. ingredients and instructions
// arrive as JSON-encoded strings.
func bindRecipeForm(c *gin.Context) (types.RecipeFields, error) {
	var fields types.RecipeFields

	if c.ContentType() == binding.MIMEMultipartPOSTForm {
		if _, err := c.MultipartForm(); err != nil {
			return fields, wrapFormError(err)
		}
	} else if err := c.Request.ParseForm(); err != nil {
		return fields, wrapFormError(err)
	}

	fields.Title = c.PostForm("title")
	fields.Description = c.PostForm("description")

	if raw := c.PostForm("ingredients"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &fields.Ingredients); err != nil {
			return fields, fmt.Errorf("%w: ingredients must be a JSON array of {name, amount, unit}", errInvalidForm)
		}
	}
	if raw := c.PostForm("instructions"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &fields.Instructions); err != nil {
			return fields, fmt.Errorf("%w: instructions must be a JSON array of strings", errInvalidForm)
		}
	}
	return fields, nil
}

func wrapFormError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return err
	}
	return fmt.Errorf("%w: %v", errInvalidForm, err)
}

// acceptImage stores the optional "image" file part and returns its path, or nil when
// the request carried no file.
func (h *RecipeHandler) acceptImage(c *gin.Context) (*string, error) {
	header, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrUpload, err)
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open form file: %w", storage.ErrUpload, err)
	}
	defer func() { _ = file.Close() }()

	img, err := h.images.Accept(c.Request.Context(), file, header.Filename)
	if err != nil {
		return nil, err
	}
	return &img.Path, nil
}

// discardImage removes an image accepted for a request whose write then failed
func (h *RecipeHandler) discardImage(c *gin.Context, imagePath *string) {
	if imagePath == nil {
		return
	}
	if err := h.images.Remove(c.Request.Context(), *imagePath); err != nil {
		log.Printf("[RecipeHandler] failed to discard unreferenced image %s: %v", *imagePath, err)
	}
}
