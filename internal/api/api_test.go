package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebox/backend/internal/api"
	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/storage"
	"github.com/pageza/recipebox/backend/internal/testhelpers"
	"github.com/pageza/recipebox/backend/internal/types"
)

type testEnv struct {
	router    *gin.Engine
	authSvc   *service.AuthService
	uploadDir string
}

func setupTestRouter(t *testing.T, requireAuth bool) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDatabase(t)
	testhelpers.CreateTestUser(t, db, "free@example.com", "free123", models.RoleFree)

	authSvc := service.NewAuthService(db, "test-secret", time.Hour)
	uploadDir := filepath.Join(t.TempDir(), "uploads")

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoMethod(middleware.MethodNotAllowed())
	router.Use(middleware.Recovery())

	api.RegisterRoutes(router, api.Dependencies{
		AuthService:   authSvc,
		RecipeService: service.NewRecipeService(db, nil),
		Images:        storage.NewLocalImageStore(uploadDir),
		RequireAuth:   requireAuth,
	})

	return &testEnv{router: router, authSvc: authSvc, uploadDir: uploadDir}
}

type upload struct {
	name string
	data string
}

func recipeForm(t *testing.T, fields map[string]string, image *upload) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if image != nil {
		part, err := w.CreateFormFile("image", image.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(image.data))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func curryForm() map[string]string {
	return map[string]string{
		"title":        "Curry",
		"description":  "Spicy",
		"ingredients":  `[{"name":"rice","amount":"1","unit":"cup"}]`,
		"instructions": `["cook"]`,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body io.Reader, contentType, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) createRecipe(t *testing.T, fields map[string]string, image *upload) types.Recipe {
	t.Helper()
	body, ct := recipeForm(t, fields, image)
	w := e.do(t, http.MethodPost, "/api/recipes", body, ct, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var recipe types.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recipe))
	return recipe
}

func (e *testEnv) getRecipe(t *testing.T, id uint) types.Recipe {
	t.Helper()
	w := e.do(t, http.MethodGet, "/api/recipes/"+itoa(id), nil, "", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var recipe types.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recipe))
	return recipe
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body types.MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Message
}

func uploadedFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
