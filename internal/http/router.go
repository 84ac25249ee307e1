package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoRoute(notFoundHandler)
	router.NoMethod(methodNotAllowedHandler)
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(SecurityHeadersMiddleware())

	healthController := NewHealthController(cfg.ParseService, cfg.Version)
	router.GET("/health", healthController.Status)

	clippingsController := NewClippingsController(cfg.ParseService, cfg.MaxUploadBytes)
	api := router.Group("/api/clippings")
	{
		api.POST("/parse", clippingsController.Parse)
		api.POST("/markdown", clippingsController.Markdown)
	}

	return router
}
