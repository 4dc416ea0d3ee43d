package main

import (
	"context"
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
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	users := database.DefaultSeedUsers()
	log.Println("Creating demo users...")

	created, err := database.SeedUsers(context.Background(), db, users, database.SeedCost)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}

	log.Printf("Created %d of %d users", created, len(users))
	log.Println("Demo credentials:")
	for _, u := range users {
		log.Printf("  %-6s %s / %s", u.Role, u.Email, u.Password)
	}
}
