package api_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipebox/backend/internal/api"
	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/mocks"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/storage"
	"github.com/pageza/recipebox/backend/internal/types"
)

type mockEnv struct {
	*testEnv
	auth    *mocks.MockAuthService
	recipes *mocks.MockRecipeService
	images  *mocks.MockImageStore
}

func setupMockRouter(t *testing.T) *mockEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &mockEnv{
		auth:    new(mocks.MockAuthService),
		recipes: new(mocks.MockRecipeService),
		images:  new(mocks.MockImageStore),
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	api.RegisterRoutes(router, api.Dependencies{
		AuthService:   env.auth,
		RecipeService: env.recipes,
		Images:        env.images,
	})
	env.testEnv = &testEnv{router: router}
	return env
}

func TestListRecipesStorageFailure(t *testing.T) {
	env := setupMockRouter(t)
	env.recipes.On("List", mock.Anything).Return(nil, service.ErrStorage)

	w := env.do(t, http.MethodGet, "/api/recipes", nil, "", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error fetching recipes", message(t, w))
	env.recipes.AssertExpectations(t)
}

func TestLoginServiceFailure(t *testing.T) {
	env := setupMockRouter(t)
	env.auth.On("Login", mock.Anything, "a@b.c", "pw").Return("", errors.New("connection reset"))

	w := env.do(t, http.MethodPost, "/api/login", strings.NewReader(`{"email":"a@b.c","password":"pw"}`), "application/json", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env.auth.AssertExpectations(t)
}

func TestCreateRecipeImageFailureSkipsWrite(t *testing.T) {
	env := setupMockRouter(t)
	env.images.On("Accept", mock.Anything, "curry.jpg").Return(nil, storage.ErrUpload)

	body, ct := recipeForm(t, curryForm(), &upload{name: "curry.jpg", data: "jpeg"})
	w := env.do(t, http.MethodPost, "/api/recipes", body, ct, "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error saving image", message(t, w))
	env.recipes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	env.images.AssertExpectations(t)
}

func TestCreateRecipePassesDecodedFields(t *testing.T) {
	env := setupMockRouter(t)
	path := "/uploads/1700000000000-curry.jpg"
	env.images.On("Accept", mock.Anything, "curry.jpg").Return(&storage.UploadedImage{Filename: "1700000000000-curry.jpg", Path: path}, nil)

	want := types.RecipeFields{
		Title:        "Curry",
		Description:  "Spicy",
		Ingredients:  []types.Ingredient{{Name: "rice", Amount: "1", Unit: "cup"}},
		Instructions: []string{"cook"},
	}
	env.recipes.On("Create", mock.Anything, want, mock.MatchedBy(func(p *string) bool {
		return p != nil && *p == path
	})).Return(&types.Recipe{ID: 7, Title: "Curry", Image: &path}, nil)

	body, ct := recipeForm(t, curryForm(), &upload{name: "curry.jpg", data: "jpeg"})
	w := env.do(t, http.MethodPost, "/api/recipes", body, ct, "")

	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	env.recipes.AssertExpectations(t)
	env.images.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
}

func TestUpdateRecipeDiscardsImageOnMissingRecipe(t *testing.T) {
	env := setupMockRouter(t)
	path := "/uploads/1700000000000-new.jpg"
	env.images.On("Accept", mock.Anything, "new.jpg").Return(&storage.UploadedImage{Filename: "1700000000000-new.jpg", Path: path}, nil)
	env.images.On("Remove", mock.Anything, path).Return(nil)
	env.recipes.On("Update", mock.Anything, uint(42), mock.Anything, mock.Anything).Return(service.ErrRecipeNotFound)

	body, ct := recipeForm(t, curryForm(), &upload{name: "new.jpg", data: "jpeg"})
	w := env.do(t, http.MethodPut, "/api/recipes/42", body, ct, "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	env.images.AssertExpectations(t)
	env.recipes.AssertExpectations(t)
}

func TestDeleteRecipeStorageFailure(t *testing.T) {
	env := setupMockRouter(t)
	env.recipes.On("Delete", mock.Anything, uint(3)).Return(errors.New("disk I/O error"))

	w := env.do(t, http.MethodDelete, "/api/recipes/3", nil, "", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error deleting recipe", message(t, w))
}
