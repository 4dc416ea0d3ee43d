package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/api"
	"github.com/pageza/recipebox/backend/internal/router"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New builds the server from configuration and the wired services. uploadDir is served
// under /uploads when non-empty.
func New(cfg *config.Config, deps api.Dependencies, uploadDir string) *Server {
	engine := router.SetupRouter(router.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		UploadDir:      uploadDir,
		MaxUploadBytes: int64(cfg.MaxUploadMB) << 20,
	}, deps)

	return &Server{
		router: engine,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler exposes the routing engine
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until Shutdown is called. A clean shutdown returns nil.
func (s *Server) Start() error {
	log.Printf("[Server] listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
