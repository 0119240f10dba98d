package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pouchpalace/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		images := v1.Group("/images")
		{
			images.GET("/report", handler.GetReport)
			images.POST("/reconcile", handler.ApplyFixes)
			images.POST("/manifest/rebuild", handler.RebuildManifest)
		}

		catalog := v1.Group("/catalog")
		{
			catalog.POST("/import", handler.ImportCatalog)
		}
	}

	return router
}
