package main

import (
	"log"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/database"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}
	log.Printf("Schema is up to date (%s)", cfg.DBDriver)
}
