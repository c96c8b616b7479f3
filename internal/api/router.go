package api

import (
	"github.com/gin-gonic/gin"
	"github.com/tonalworks/voicelead-api/internal/api/handlers"
	"github.com/tonalworks/voicelead-api/internal/api/middleware"
	"github.com/tonalworks/voicelead-api/internal/config"
	"github.com/tonalworks/voicelead-api/internal/metrics"
	"github.com/tonalworks/voicelead-api/internal/services"
)

func SetupRouter(cfg *config.Config, cw *metrics.Client, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(middleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(middleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(middleware.RequestTracking(cw))

	// CORS middleware
	router.Use(middleware.CORS())

	// Health check
	router.GET("/health", handlers.HealthCheck)

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	// Engine endpoints
	svc := services.NewVoiceleadService(cfg.MaxConcurrent)
	voiceleadHandler := handlers.NewVoiceleadHandler(svc, cfg, cw)

	v1 := router.Group("/api/v1")
	{
		// Voice-leading optimization over a chord progression
		v1.POST("/voicings/optimize", voiceleadHandler.Optimize)

		// Chord substitution suggestions using the same cost machinery
		v1.POST("/reharmonize", voiceleadHandler.Reharmonize)

		// Tonnetz lattice queries
		v1.GET("/tonnetz/neighbors", handlers.TonnetzNeighbors)
		v1.GET("/tonnetz/distance", handlers.TonnetzDistance)
		v1.GET("/tonnetz/path", handlers.TonnetzPath)
	}

	return router
}
