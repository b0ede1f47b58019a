package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/orgdex/internal/core/ports/driving"
)

// Server wires the catalog and discovery services to the HTTP surface.
type Server struct {
	catalog   driving.Catalog
	discovery driving.Discovery
	router    *gin.Engine
}

// NewServer creates the HTTP server with all routes registered.
func NewServer(catalog driving.Catalog, discovery driving.Discovery) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	s := &Server{
		catalog:   catalog,
		discovery: discovery,
		router:    router,
	}

	api := router.Group("/api/v1")
	api.GET("/health", s.handleHealth)
	api.GET("/projects", s.handleListProjects)
	api.GET("/projects/:id", s.handleGetProject)
	api.PATCH("/projects/:id/tags", s.handleUpdateTags)
	api.GET("/stats", s.handleStats)
	api.POST("/discover", s.handleDiscover)

	return s
}

// Router exposes the underlying router, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves HTTP on the given address until the listener fails.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
