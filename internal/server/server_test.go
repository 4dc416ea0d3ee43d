package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/api"
	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/storage"
	"github.com/pageza/recipebox/backend/internal/testhelpers"
)

func testDeps(t *testing.T) api.Dependencies {
	db := testhelpers.SetupTestDatabase(t)
	return api.Dependencies{
		AuthService:   service.NewAuthService(db, "test-secret", time.Hour),
		RecipeService: service.NewRecipeService(db, nil),
		Images:        storage.NewLocalImageStore(t.TempDir()),
		Health: func(ctx context.Context) error {
			return database.HealthCheck(ctx, db)
		},
	}
}

func TestNew(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		ServerHost:  "localhost",
		ServerPort:  "8080",
		MaxUploadMB: 1,
	}

	server := New(cfg, testDeps(t), "")
	require.NotNil(t, server)
	assert.Equal(t, "localhost:8080", server.http.Addr)

	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestStartAndShutdown(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	cfg := &config.Config{ServerHost: "127.0.0.1", ServerPort: strconv.Itoa(port), MaxUploadMB: 1}
	server := New(cfg, testDeps(t), "")

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + cfg.Addr() + "/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Shutdown(ctx))
	assert.NoError(t, <-errCh)
}
