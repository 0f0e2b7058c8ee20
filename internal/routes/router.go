package routes

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"userhub-client/internal/config"
	"userhub-client/internal/delivery/http/handler"
	"userhub-client/internal/logger"
	"userhub-client/internal/middleware"
	"userhub-client/internal/usecase/client"
)

// HealthCheck reports whether a dependency of the surface is usable.
type HealthCheck func(ctx context.Context) error

func SetupRoutes(cfg *config.Config, svc *client.Service, health HealthCheck) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Order: recovery, request ID, logging, security headers, CORS, request size limit, general rate limit
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))

	router.GET("/health", func(c *gin.Context) {
		if health != nil {
			if err := health(c.Request.Context()); err != nil {
				logger.Warn("Health check failed",
					zap.Error(err),
					zap.String("event", "health_check_failed"),
				)
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"message": "Session storage unavailable",
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	clientHandler := handler.NewClientHandler(svc)

	api := router.Group("/api")
	{
		clientHandler.RegisterRoutes(api)
	}

	logger.Info("All routes initialized")
	return router
}
