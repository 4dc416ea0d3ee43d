package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/api"
	"github.com/pageza/recipebox/backend/internal/cache"
	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/server"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// closeDatabase is swapped in tests to observe the shutdown path
var closeDatabase = database.Close

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg)
	stop()
	if err != nil {
		log.Printf("Server error: %v", err)
		os.Exit(1)
	}
}

// run serves until ctx is cancelled or the server fails. Every resource opened here is
// released before it returns, including on startup errors.
func run(ctx context.Context, cfg *config.Config) error {
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := closeDatabase(db); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	if err := database.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	var recipeCache service.RecipeCache
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg)
		if err != nil {
			// Continue without the list cache if Redis is not available
			log.Printf("Warning: Failed to connect to Redis, recipe list cache disabled: %v", err)
		} else {
			defer func() { _ = redisClient.Close() }()
			recipeCache = cache.NewRedisRecipeCache(redisClient, cfg.CacheTTL)
		}
	}

	images, uploadDir, err := newImageStore(ctx, cfg)
	if err != nil {
		return err
	}

	srv := server.New(cfg, dependencies(cfg, db, recipeCache, images), uploadDir)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		log.Println("Starting server...")
		errChan <- srv.Start()
	}()

	// Block until we are told to stop or the server fails
	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Println("Received shutdown signal")
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Println("Server stopped")
	return nil
}

// newImageStore picks the image backend. uploadDir is empty unless files are served
// from local disk.
func newImageStore(ctx context.Context, cfg *config.Config) (storage.ImageStore, string, error) {
	switch cfg.ImageBackend {
	case config.ImageBackendS3:
		s3Cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, "", fmt.Errorf("failed to initialize S3: %w", err)
		}
		return storage.NewS3ImageStore(s3Cfg), "", nil
	case config.ImageBackendLocal, "":
		return storage.NewLocalImageStore(cfg.UploadDir), cfg.UploadDir, nil
	default:
		return nil, "", fmt.Errorf("unsupported image backend %q", cfg.ImageBackend)
	}
}

func dependencies(cfg *config.Config, db *gorm.DB, recipeCache service.RecipeCache, images storage.ImageStore) api.Dependencies {
	return api.Dependencies{
		AuthService:   service.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTL),
		RecipeService: service.NewRecipeService(db, recipeCache),
		Images:        images,
		RequireAuth:   cfg.RequireAuth,
		Health: func(ctx context.Context) error {
			return database.HealthCheck(ctx, db)
		},
	}
}
