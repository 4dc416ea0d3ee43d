package testhelpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/recipebox/backend/internal/models"
)

func TestDatabaseSetup(t *testing.T) {
	db := SetupTestDatabase(t)
	require.NotNil(t, db)

	assert.True(t, db.Migrator().HasTable(&models.User{}))
	assert.True(t, db.Migrator().HasTable(&models.Recipe{}))

	user := CreateTestUser(t, db, "test@example.com", "pw", models.RolePaid)
	assert.NotZero(t, user.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw")))

	var stored models.User
	require.NoError(t, db.First(&stored, "email = ?", "test@example.com").Error)
	assert.Equal(t, models.RolePaid, stored.Role)
}

func TestDatabasesAreIsolated(t *testing.T) {
	first := SetupTestDatabase(t)
	second := SetupTestDatabase(t)

	CreateTestUser(t, first, "only@first.com", "pw", models.RoleFree)

	var count int64
	require.NoError(t, second.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}
