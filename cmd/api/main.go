package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/kurihiro0119/repo-hub/internal/aggregator"
	"github.com/kurihiro0119/repo-hub/internal/api"
	"github.com/kurihiro0119/repo-hub/internal/collector"
	"github.com/kurihiro0119/repo-hub/internal/config"
	"github.com/kurihiro0119/repo-hub/internal/logging"
	"github.com/kurihiro0119/repo-hub/internal/storage"
	"github.com/kurihiro0119/repo-hub/internal/storage/postgres"
	"github.com/kurihiro0119/repo-hub/internal/storage/sqlite"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	if logging.ParseLevel(cfg.LogLevel) > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	hub, err := config.LoadHub(cfg.HubPath)
	if err != nil {
		return fmt.Errorf("failed to load hub settings: %w", err)
	}

	// Credentials are resolved once; a missing token for the aggregation
	// backend stops the server here.
	creds := config.EnvCredentials()
	backend := cfg.AggregationBackend()

	coll, err := collector.New(backend, creds, cfg.RequestTimeout)
	if err != nil {
		return err
	}

	// Initialize storage
	store, err := openStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize %s storage: %w", cfg.StorageType, err)
	}
	if store != nil {
		defer store.Close()
	}

	agg := aggregator.NewAggregator(coll, store, logger)
	handler := api.NewHandler(agg, store, hub, creds, logger)
	router := api.SetupRoutes(handler, cfg.PublicDir)

	// Start server
	addr := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	logger.Info("starting API server",
		slog.String("addr", addr),
		slog.String("backend", backend.String()),
		slog.String("primary", hub.Name),
		slog.Int("orgs", len(hub.Orgs)),
		slog.String("storage", cfg.StorageType),
	)

	return router.Run(addr)
}

// openStorage returns nil when run history is disabled
func openStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.StorageType {
	case "postgres":
		return postgres.NewPostgresStorage(cfg.PostgresURL)
	case "sqlite":
		return sqlite.NewSQLiteStorage(cfg.SQLitePath)
	default:
		return nil, nil
	}
}
