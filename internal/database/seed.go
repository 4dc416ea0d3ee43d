package database

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/recipebox/backend/internal/models"
)

// SeedCost is the bcrypt cost used for seeded accounts
const SeedCost = 10

// SeedUser is an account created out of band for logging in
type SeedUser struct {
	Email    string
	Password string
	Role     string
}

// DefaultSeedUsers returns the demo accounts, one per role
func DefaultSeedUsers() []SeedUser {
	return []SeedUser{
		{Email: "admin@example.com", Password: "admin123", Role: models.RoleAdmin},
		{Email: "paid@example.com", Password: "paid123", Role: models.RolePaid},
		{Email: "free@example.com", Password: "free123", Role: models.RoleFree},
	}
}

// SeedUsers inserts every user whose email is not already present and returns how many
// were created.
func SeedUsers(ctx context.Context, db *gorm.DB, users []SeedUser, cost int) (int, error) {
	created := 0
	for _, u := range users {
		var existing models.User
		err := db.WithContext(ctx).Where("email = ?", u.Email).First(&existing).Error
		if err == nil {
			log.Printf("[Seed] user %s already exists, skipping", u.Email)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, fmt.Errorf("look up %s: %w", u.Email, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), cost)
		if err != nil {
			return created, fmt.Errorf("hash password for %s: %w", u.Email, err)
		}

		user := models.User{Email: u.Email, PasswordHash: string(hash), Role: u.Role}
		if err := db.WithContext(ctx).Create(&user).Error; err != nil {
			return created, fmt.Errorf("create %s: %w", u.Email, err)
		}
		log.Printf("[Seed] created %s user %s", u.Role, u.Email)
		created++
	}
	return created, nil
}
