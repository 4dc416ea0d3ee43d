package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/recipebox/backend/internal/api"
	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/storage"
)

// multipartMemory is how much of a multipart form is held in memory before spilling
// file parts to temporary files.
const multipartMemory = 8 << 20

// Options configures the engine independently of the route handlers
type Options struct {
	AllowedOrigins []string
	// UploadDir is served under /uploads when non-empty
	UploadDir      string
	MaxUploadBytes int64
}

// SetupRouter configures the application routes
func SetupRouter(opts Options, deps api.Dependencies) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.MaxMultipartMemory = multipartMemory

	router.Use(
		middleware.RequestID(),
		gin.Logger(),
		middleware.Recovery(),
		middleware.CORS(opts.AllowedOrigins),
		middleware.BodyLimit(opts.MaxUploadBytes),
	)
	router.NoMethod(middleware.MethodNotAllowed())
	router.NoRoute(middleware.NotFound())

	if opts.UploadDir != "" {
		router.Static(storage.DefaultURLPrefix, opts.UploadDir)
	}

	api.RegisterRoutes(router, deps)
	return router
}
