package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/models"
)

func TestDatabase(t *testing.T) {
	cfg := &config.Config{
		DBDriver: config.DriverSQLite,
		DBPath:   filepath.Join(t.TempDir(), "nested", "recipes.db"),
	}

	db, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, RunMigrations(db))

	user := models.User{Email: "test@example.com", PasswordHash: "hashedpassword", Role: models.RoleFree}
	require.NoError(t, db.Create(&user).Error)
	assert.NotZero(t, user.ID)

	assert.True(t, db.Migrator().HasTable(&models.Recipe{}))
	assert.NoError(t, HealthCheck(context.Background(), db))

	require.NoError(t, Close(db))
	assert.Error(t, HealthCheck(context.Background(), db))
}

func TestNewUnsupportedDriver(t *testing.T) {
	_, err := New(&config.Config{DBDriver: "oracle"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("s3cret")

	client, err := NewRedisClient(&config.Config{
		RedisURL:      "redis://" + mr.Addr(),
		RedisPassword: "s3cret",
	})
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	mr.CheckGet(t, "k", "v")
}
