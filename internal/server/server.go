// Package server assembles the gin router and owns the HTTP lifecycle.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/cinemind/cinemind/internal/config"
	"github.com/cinemind/cinemind/internal/events"
	"github.com/cinemind/cinemind/internal/logger"
	"github.com/cinemind/cinemind/internal/sentiment"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	cfg        *config.Config
	router     *gin.Engine
	httpServer *http.Server
	log        hclog.Logger
}

// New builds a fully wired server.
func New(cfg *config.Config, db *gorm.DB, analyzer sentiment.Analyzer, bus *events.Bus) *Server {
	router := SetupRouter(cfg, db, analyzer, bus)
	return &Server{
		cfg:    cfg,
		router: router,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		log: logger.Named("server"),
	}
}

// SetupRouter builds the gin engine with middleware and all routes
// registered. Exposed separately so tests can drive the router without
// binding a socket.
func SetupRouter(cfg *config.Config, db *gorm.DB, analyzer sentiment.Analyzer, bus *events.Bus) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), AccessLog(), Recovery())

	if cfg.Server.EnableCORS {
		corsConfig := cors.DefaultConfig()
		if len(cfg.Server.AllowedOrigins) > 0 {
			corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
		} else {
			corsConfig.AllowAllOrigins = true
		}
		corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, requestIDHeader)
		router.Use(cors.New(corsConfig))
	}

	registerRoutes(router, db, analyzer, bus)
	return router
}

// Start begins serving and blocks until the listener stops.
func (s *Server) Start() error {
	s.log.Info("starting HTTP server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
