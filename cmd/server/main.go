package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/pouchpalace/backend/config"
	"github.com/pouchpalace/backend/internal/bootstrap"
	httpDelivery "github.com/pouchpalace/backend/internal/delivery/http"
	"github.com/pouchpalace/backend/internal/infrastructure/cache"
	"github.com/pouchpalace/backend/internal/logging"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Server.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting Pouch Palace backend",
		zap.String("version", "1.0.0"),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("images", cfg.Images.Dir),
		zap.String("catalog", cfg.Catalog.Path),
		zap.String("manifest", cfg.Manifest.Path),
		zap.String("docstore", cfg.DocStore.Type))

	// Initialize infrastructure dependencies
	reportCache := cache.NewMemoryCache(10 * time.Minute)
	defer reportCache.Close()

	importer, closeStore, err := bootstrap.NewImportService(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("failed to open document store", zap.Error(err))
	}
	defer closeStore()

	reconciler := bootstrap.NewReconcileService(cfg, logger)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(
		reconciler,
		importer,
		reportCache,
		logger.Named("http"),
		httpDelivery.HandlerConfig{
			CacheTTL:         cfg.Cache.TTL,
			ImportCollection: cfg.DocStore.Collection,
		},
	)

	router := httpDelivery.SetupRouter(cfg, handler, logger.Named("http"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
