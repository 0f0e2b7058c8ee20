package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"userhub-client/internal/config"
	"userhub-client/internal/infrastructure/api"
	"userhub-client/internal/infrastructure/storage"
	"userhub-client/internal/logger"
	"userhub-client/internal/routes"
	"userhub-client/internal/usecase/client"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", cfg.Server.Environment),
		zap.String("api_base_url", cfg.API.BaseURL),
		zap.String("storage_backend", cfg.Storage.Backend),
	)

	store, health, closeStore := openStorage(cfg)
	defer closeStore()

	// The token source reads the service's session, which is created below.
	var svc *client.Service
	apiClient := api.NewClient(cfg.API.BaseURL, http.DefaultClient, func() string {
		return svc.AccessToken()
	})

	scheduler := client.NewAsyncScheduler()
	svc = client.NewService(
		api.NewUserGateway(apiClient),
		api.NewOrderGateway(apiClient),
		storage.NewSessionStore(store),
		scheduler,
		client.Options{
			NotificationTTL:     cfg.UI.NotificationTTL,
			LoginRedirectDelay:  cfg.UI.LoginRedirectDelay,
			SignupRedirectDelay: cfg.UI.SignupRedirectDelay,
			OTPRedirectDelay:    cfg.UI.OTPRedirectDelay,
			ResetRedirectDelay:  cfg.UI.ResetRedirectDelay,
			LogoutDelay:         cfg.UI.LogoutDelay,
			OrderRedirectDelay:  cfg.UI.OrderRedirectDelay,
			Now:                 time.Now,
		},
	)

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := svc.Bootstrap(bootCtx); err != nil {
		bootCancel()
		logger.Fatal("Failed to restore session", zap.Error(err))
	}
	bootCancel()

	router := routes.SetupRoutes(cfg, svc, health)

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", zap.Error(err))
	}
	if err := scheduler.Close(ctx); err != nil {
		logger.Error("Background tasks did not finish", zap.Error(err))
	}

	logger.Info("Server exited properly")
}

// openStorage builds the configured session storage, a health check for it,
// and its cleanup.
func openStorage(cfg *config.Config) (storage.Storage, routes.HealthCheck, func()) {
	if cfg.Storage.Backend == config.StorageBackendRedis {
		redisStore := storage.NewRedisStorage(
			cfg.Storage.RedisAddr,
			cfg.Storage.RedisPassword,
			cfg.Storage.RedisDB,
			cfg.Storage.RedisPrefix,
		)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := redisStore.Ping(ctx); err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}

		logger.Info("Session storage ready",
			zap.String("backend", config.StorageBackendRedis),
			zap.String("addr", cfg.Storage.RedisAddr),
		)
		return redisStore, redisStore.Ping, func() {
			if err := redisStore.Close(); err != nil {
				logger.Error("Failed to close redis connection", zap.Error(err))
			}
		}
	}

	logger.Info("Session storage ready",
		zap.String("backend", config.StorageBackendFile),
		zap.String("path", cfg.Storage.SessionFile),
	)
	return storage.NewFileStorage(afero.NewOsFs(), cfg.Storage.SessionFile), nil, func() {}
}
