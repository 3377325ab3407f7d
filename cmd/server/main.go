// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"shorturl/internal/cache"
	"shorturl/internal/config"
	"shorturl/internal/handler"
	"shorturl/internal/service"
	"shorturl/internal/store"
	"shorturl/pkg/logger"
)

func main() {
	// Docker HEALTHCHECK: probe the running server
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		os.Exit(healthcheck())
	}

	// .env is optional; real deployments use the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: failed to read .env file: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(logger.Options{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
		File:        cfg.LogFile,
		MaxSizeMB:   cfg.LogMaxSizeMB,
		MaxBackups:  cfg.LogMaxBackups,
	}).WithFields(map[string]interface{}{"service": "url-shortener"})
	defer appLogger.Sync()

	appLogger.Infow("URL Shortener startup", "environment", cfg.Environment)

	if err := run(cfg, appLogger); err != nil {
		appLogger.Errorw("Server stopped with error", "error", err)
		appLogger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, appLogger *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, backend, err := store.Open(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.StoreTimeout)
		defer cancel()
		if err := repo.Close(closeCtx); err != nil {
			appLogger.Errorw("Error closing store", "error", err)
		}
	}()

	var redirectCache cache.Cache
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			appLogger.Warnw("Failed to initialize Redis cache, continuing without cache", "error", err)
		} else {
			redirectCache = redisCache
			defer func() {
				if err := redisCache.Close(); err != nil {
					appLogger.Errorw("Error closing Redis connection", "error", err)
				}
			}()
		}
	}

	clicks := service.NewClickRecorder(repo, redirectCache, cfg.ClickWorkers, cfg.ClickQueueSize, cfg.StoreTimeout, appLogger)
	// runs before the store is closed
	defer clicks.Close()

	urlService := service.NewURLService(repo, redirectCache, clicks, cfg, appLogger)

	router, err := handler.NewRouter(urlService, redirectCache, cfg, backend, appLogger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}

	serveErr := make(chan error, 1)
	go func() {
		appLogger.Infow("Server starting", "port", cfg.ServerPort, "store", backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}

	appLogger.Infow("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Errorw("Server forced to shutdown", "error", err)
	}

	appLogger.Infow("Server exited successfully")
	return nil
}

// healthcheck asks the local server for /health and returns the process exit code
func healthcheck() int {
	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://localhost:%s/health", port))
	if err != nil {
		return 1
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 1
	}
	return 0
}
