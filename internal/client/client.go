// Package client talks to the recipe API over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pageza/recipebox/backend/internal/types"
)

// APIError is returned for any non-2xx reply
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an APIError with the given status code
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// ImageUpload is a photo attached to a create or update call
type ImageUpload struct {
	Name   string
	Reader io.Reader
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken attaches token as a bearer credential on later calls
func (c *Client) SetToken(token string) {
	c.token = token
}

// ImageURL turns a stored image path into an absolute URL on this server. Absolute
// URLs are returned unchanged.
func (c *Client) ImageURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + path
}

func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, err := json.Marshal(types.LoginRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}

	var resp types.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/login", bytes.NewReader(body), "application/json", &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (c *Client) ListRecipes(ctx context.Context) ([]types.Recipe, error) {
	var recipes []types.Recipe
	if err := c.do(ctx, http.MethodGet, "/api/recipes", nil, "", &recipes); err != nil {
		return nil, err
	}
	if recipes == nil {
		recipes = []types.Recipe{}
	}
	return recipes, nil
}

func (c *Client) GetRecipe(ctx context.Context, id uint) (*types.Recipe, error) {
	var recipe types.Recipe
	if err := c.do(ctx, http.MethodGet, recipePath(id), nil, "", &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// CreateRecipe posts a new recipe. image may be nil.
func (c *Client) CreateRecipe(ctx context.Context, fields types.RecipeFields, image *ImageUpload) (*types.Recipe, error) {
	body, contentType, err := encodeRecipeForm(fields, image)
	if err != nil {
		return nil, err
	}

	var recipe types.Recipe
	if err := c.do(ctx, http.MethodPost, "/api/recipes", body, contentType, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// UpdateRecipe replaces a recipe's fields. A nil image keeps the current photo.
func (c *Client) UpdateRecipe(ctx context.Context, id uint, fields types.RecipeFields, image *ImageUpload) error {
	body, contentType, err := encodeRecipeForm(fields, image)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, recipePath(id), body, contentType, nil)
}

func (c *Client) DeleteRecipe(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, recipePath(id), nil, "", nil)
}

func recipePath(id uint) string {
	return "/api/recipes/" + strconv.FormatUint(uint64(id), 10)
}

// encodeRecipeForm builds the multipart body the create and update endpoints expect.
// ingredients and instructions are sent as JSON strings.
func encodeRecipeForm(fields types.RecipeFields, image *ImageUpload) (io.Reader, string, error) {
	ingredients := fields.Ingredients
	if ingredients == nil {
		ingredients = []types.Ingredient{}
	}
	instructions := fields.Instructions
	if instructions == nil {
		instructions = []string{}
	}
	ingredientsJSON, err := json.Marshal(ingredients)
	if err != nil {
		return nil, "", fmt.Errorf("encode ingredients: %w", err)
	}
	instructionsJSON, err := json.Marshal(instructions)
	if err != nil {
		return nil, "", fmt.Errorf("encode instructions: %w", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range []struct{ name, value string }{
		{"title", fields.Title},
		{"description", fields.Description},
		{"ingredients", string(ingredientsJSON)},
		{"instructions", string(instructionsJSON)},
	} {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}

	if image != nil {
		part, err := w.CreateFormFile("image", image.Name)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, image.Reader); err != nil {
			return nil, "", fmt.Errorf("read image: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var msg types.MessageResponse
		if json.Unmarshal(data, &msg) == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
