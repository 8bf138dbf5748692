package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"law-ai-api/internal/config"
	"law-ai-api/internal/handlers"
	"law-ai-api/internal/middleware"
	"law-ai-api/pkg/server"
)

const maxRequestBytes = 1 << 20

func newRouter(container *server.Container) *gin.Engine {
	cfg := container.Config

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(container.Logger))
	// CORS comes before anything that can abort, so error responses carry it
	router.Use(middleware.CORS(container.Cors.Headers()))
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestSizeLimit(maxRequestBytes))
	router.Use(middleware.RateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))

	// Every path goes through the dispatcher, as it does on Lambda
	router.NoRoute(handlers.GinHandler(container.Dispatcher))

	return router
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	// Initialize dependencies
	container, err := server.NewContainer(context.Background(), cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize container")
	}
	logger := container.Logger

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(container),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	logger.WithFields(logrus.Fields{
		"port":         cfg.Port,
		"stage":        cfg.Gateway.Stage,
		"admin_routes": cfg.Gateway.AdminRoutesEnabled,
	}).Info("Server started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
