package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/api"
	"github.com/pageza/recipebox/backend/internal/cache"
	"github.com/pageza/recipebox/backend/internal/client"
	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/presentation"
	"github.com/pageza/recipebox/backend/internal/server"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/session"
	"github.com/pageza/recipebox/backend/internal/storage"
	"github.com/pageza/recipebox/backend/internal/testhelpers"
	"github.com/pageza/recipebox/backend/internal/types"
)

type stack struct {
	client    *client.Client
	redis     *miniredis.Miniredis
	uploadDir string
}

// setupStack wires the server the same way cmd/api does, with miniredis standing in
// for the list cache.
func setupStack(t *testing.T, requireAuth bool) *stack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDatabase(t)
	_, err := database.SeedUsers(context.Background(), db, database.DefaultSeedUsers(), bcrypt.MinCost)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	cfg := &config.Config{
		ServerPort:  "0",
		RedisURL:    "redis://" + mr.Addr(),
		CacheTTL:    time.Minute,
		MaxUploadMB: 1,
	}
	rdb, err := database.NewRedisClient(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	uploadDir := filepath.Join(t.TempDir(), "uploads")
	srv := server.New(cfg, api.Dependencies{
		AuthService:   service.NewAuthService(db, "integration-secret", time.Hour),
		RecipeService: service.NewRecipeService(db, cache.NewRedisRecipeCache(rdb, cfg.CacheTTL)),
		Images:        storage.NewLocalImageStore(uploadDir),
		RequireAuth:   requireAuth,
		Health: func(ctx context.Context) error {
			return database.HealthCheck(ctx, db)
		},
	}, uploadDir)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &stack{client: client.New(ts.URL), redis: mr, uploadDir: uploadDir}
}

func curry() types.RecipeFields {
	return types.RecipeFields{
		Title:        "Curry",
		Description:  "Spicy",
		Ingredients:  []types.Ingredient{{Name: "rice", Amount: "1", Unit: "cup"}},
		Instructions: []string{"cook"},
	}
}

func TestRecipeListCacheInvalidation(t *testing.T) {
	s := setupStack(t, false)
	ctx := context.Background()

	recipes, err := s.client.ListRecipes(ctx)
	require.NoError(t, err)
	assert.Empty(t, recipes)
	assert.True(t, s.redis.Exists(cache.RecipeListKey), "list should be cached after a read")

	created, err := s.client.CreateRecipe(ctx, curry(), nil)
	require.NoError(t, err)
	assert.False(t, s.redis.Exists(cache.RecipeListKey), "create must invalidate the cached list")

	recipes, err = s.client.ListRecipes(ctx)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, created.ID, recipes[0].ID)

	fields := curry()
	fields.Title = "Green Curry"
	require.NoError(t, s.client.UpdateRecipe(ctx, created.ID, fields, nil))
	assert.False(t, s.redis.Exists(cache.RecipeListKey), "update must invalidate the cached list")

	recipes, err = s.client.ListRecipes(ctx)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Green Curry", recipes[0].Title)

	require.NoError(t, s.client.DeleteRecipe(ctx, created.ID))
	recipes, err = s.client.ListRecipes(ctx)
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

func TestListSurvivesCacheOutage(t *testing.T) {
	s := setupStack(t, false)
	ctx := context.Background()

	_, err := s.client.CreateRecipe(ctx, curry(), nil)
	require.NoError(t, err)

	s.redis.Close()

	recipes, err := s.client.ListRecipes(ctx)
	require.NoError(t, err)
	assert.Len(t, recipes, 1)
}

func TestSessionFlowAgainstServer(t *testing.T) {
	s := setupStack(t, true)
	ctx := context.Background()
	store := &session.MemoryTokenStore{}
	guard := session.Guard{Store: store, CheckExpiry: true}

	_, err := guard.Require()
	require.ErrorIs(t, err, session.ErrLoginRequired)

	token, err := s.client.Login(ctx, "paid@example.com", "paid123")
	require.NoError(t, err)
	require.NoError(t, store.Save(token))

	token, err = guard.Require()
	require.NoError(t, err)
	s.client.SetToken(token)

	created, err := s.client.CreateRecipe(ctx, curry(), &client.ImageUpload{
		Name:   "curry.jpg",
		Reader: strings.NewReader("jpeg bytes"),
	})
	require.NoError(t, err)
	require.NotNil(t, created.Image)

	board := presentation.NewBoard(s.client)
	require.NoError(t, board.Load(ctx))
	assert.Len(t, board.Filter("CURRY"), 1)

	detail, err := presentation.LoadDetail(ctx, s.client, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created.Image, detail.ImageURL())

	resp, err := http.Get(s.client.ImageURL(*created.Image))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, board.Delete(ctx, created.ID))
	assert.Empty(t, board.Recipes())

	_, err = s.client.GetRecipe(ctx, created.ID)
	assert.True(t, client.IsStatus(err, http.StatusNotFound))
}
