package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/storage"
)

// HealthChecker reports whether a backing store is reachable
type HealthChecker func(ctx context.Context) error

// Dependencies holds everything the route table needs
type Dependencies struct {
	AuthService   service.IAuthService
	RecipeService service.IRecipeService
	Images        storage.ImageStore
	// RequireAuth puts the recipe routes behind bearer token validation
	RequireAuth bool
	Health      HealthChecker
}

// HealthCheck returns the health status of the API
func HealthCheck(check HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				log.Printf("[Health] database check failed: %v", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	// Health check endpoint (no auth required)
	router.GET("/health", HealthCheck(deps.Health))

	var guard []gin.HandlerFunc
	if deps.RequireAuth {
		guard = append(guard, middleware.AuthMiddleware(deps.AuthService))
	}

	apiGroup := router.Group("/api")
	NewAuthHandler(deps.AuthService).RegisterRoutes(apiGroup)
	NewRecipeHandler(deps.RecipeService, deps.Images).RegisterRoutes(apiGroup, guard...)
}
