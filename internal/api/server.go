// Package api serves the explorer as a JSON API over gin
package api

import (
	"github.com/gin-gonic/gin"

	"distlab/adapters/excel"
	"distlab/app"
	"distlab/internal"
)

// Server holds the API router and its collaborators
type Server struct {
	router   *gin.Engine
	explorer *app.ExplorerService
	exporter *excel.Exporter
	logger   *internal.Logger
}

// NewServer builds the router. gin's mode must be set by the caller.
func NewServer(explorer *app.ExplorerService, exporter *excel.Exporter, logger *internal.Logger) *Server {
	s := &Server{
		router:   gin.New(),
		explorer: explorer,
		exporter: exporter,
		logger:   logger.With("api"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler exposes the router for http.Server and tests
func (s *Server) Handler() *gin.Engine {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(RequestID())
	s.router.Use(AccessLog(s.logger))
}

func (s *Server) setupRoutes() {
	s.router.GET("/api/health", s.handleHealth())

	distributions := s.router.Group("/api/distributions")
	{
		distributions.GET("", s.handleListDistributions())
		distributions.GET("/:id", s.handleGetDistribution())
		distributions.POST("/:id/explore", s.handleExplore())
		distributions.GET("/:id/export", s.handleExport())
	}

	compare := s.router.Group("/api/compare")
	{
		compare.POST("/overlay", s.handleOverlay())
		compare.POST("/sensitivity/:family", s.handleSensitivity())
	}
}
