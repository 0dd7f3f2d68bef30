// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/dayreel/internal/api"
	"github.com/stwalsh4118/dayreel/internal/config"
	"github.com/stwalsh4118/dayreel/internal/logger"
	"github.com/stwalsh4118/dayreel/internal/middleware"
	"github.com/stwalsh4118/dayreel/internal/store"
	"github.com/stwalsh4118/dayreel/internal/video"
)

// Server represents the HTTP server
type Server struct {
	config       *config.Config
	backend      store.Backend
	videoService *video.VideoService
	limiter      *middleware.RateLimiter
	router       *gin.Engine
	server       *http.Server
}

// New creates a new server instance over an open storage backend
func New(cfg *config.Config, backend store.Backend, opts ...video.Option) *Server {
	opts = append([]video.Option{video.WithPolicy(cfg.Schedule.Policy())}, opts...)

	s := &Server{
		config:       cfg,
		backend:      backend,
		videoService: video.NewVideoService(backend, opts...),
	}
	if cfg.RateLimit.Enabled {
		s.limiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	return s
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	// Set Gin mode based on log level
	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	// Middleware stack
	s.router.Use(middleware.RequestLogger()) // zerolog request logger
	s.router.Use(gin.Recovery())             // Panic recovery
	s.router.Use(cors.Default())             // CORS for the admin frontend (allows all origins)

	var mutate []gin.HandlerFunc
	if s.limiter != nil {
		mutate = append(mutate, s.limiter.Middleware())
	}

	apiGroup := s.router.Group("/api")
	api.SetupHealthRoutes(apiGroup, s.backend, s.config.Storage.Backend)
	api.SetupVideoRoutes(apiGroup, s.videoService, mutate...)

	api.SetupViewerRoutes(s.router, s.videoService)
}

// Router returns the configured HTTP handler, building it on first use
func (s *Server) Router() *gin.Engine {
	if s.router == nil {
		s.setupRouter()
	}
	return s.router
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.Router(),
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	logger.Log.Info().
		Str("host", s.config.Server.Host).
		Int("port", s.config.Server.Port).
		Str("backend", s.config.Storage.Backend).
		Msg("Starting HTTP server")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server. The storage backend is left open for the caller to close.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Shutting down server gracefully")

	// Check if server was started before attempting shutdown
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	logger.Log.Info().Msg("Server stopped")
	return nil
}
