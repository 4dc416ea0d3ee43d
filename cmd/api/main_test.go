package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/recipebox/backend/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		ServerHost:   "127.0.0.1",
		ServerPort:   "0",
		DBDriver:     config.DriverSQLite,
		DBPath:       filepath.Join(dir, "recipes.db"),
		JWTSecret:    "test-secret",
		TokenTTL:     time.Hour,
		UploadDir:    filepath.Join(dir, "uploads"),
		MaxUploadMB:  1,
		ImageBackend: config.ImageBackendLocal,
	}
}

// countCloses wraps closeDatabase for the duration of the test
func countCloses(t *testing.T) *int {
	t.Helper()
	calls := 0
	orig := closeDatabase
	closeDatabase = func(db *gorm.DB) error {
		calls++
		return orig(db)
	}
	t.Cleanup(func() { closeDatabase = orig })
	return &calls
}

func TestRunClosesDatabaseOnStartupError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	closes := countCloses(t)

	cfg := testConfig(t)
	cfg.ImageBackend = "ftp"

	err := run(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported image backend")
	assert.Equal(t, 1, *closes)
}

func TestRunDatabaseOpenFailure(t *testing.T) {
	closes := countCloses(t)

	cfg := testConfig(t)
	cfg.DBDriver = "mysql"

	err := run(context.Background(), cfg)
	require.Error(t, err)
	assert.Zero(t, *closes)
}

func TestRunStopsOnCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	closes := countCloses(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, run(ctx, testConfig(t)))
	assert.Equal(t, 1, *closes)
}
