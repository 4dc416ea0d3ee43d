package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/pageza/recipebox/backend/internal/models"
)

// RunMigrations creates or updates the users and recipes tables
func RunMigrations(db *gorm.DB) error {
	log.Printf("Running auto-migration for %s", db.Dialector.Name())
	return db.AutoMigrate(
		&models.User{},
		&models.Recipe{},
	)
}
