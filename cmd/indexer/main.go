package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"quasarindexer/internal/config"
	"quasarindexer/internal/coordinator"
	"quasarindexer/internal/dbmetrics"
	"quasarindexer/internal/dispatch"
	"quasarindexer/internal/headeringest"
	"quasarindexer/internal/ledger/retry"
	"quasarindexer/internal/metrics"
	"quasarindexer/internal/storage"

	httpapi "quasarindexer/internal/api"
)

func main() {
	slog.Info("🌟 Starting Stellar ledger indexer...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	logger.Info("Configuration loaded", "ingestion_mode", cfg.Ingestion.Mode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.QuasarDatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to quasar database: %v", err)
	}
	defer pool.Close()
	logger.Info("Quasar database connected")

	repo := storage.New(pool, retry.NewStrategy(cfg.Retry))
	m := metrics.New()

	catalog, err := storage.OpenNodeCatalog(cfg.StellarNodeDatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to node catalog: %v", err)
	}
	defer catalog.Close()
	logger.Info("Node catalog connected")

	ing := headeringest.New(repo, catalog, m)
	disp := dispatch.New(logger, ing, m)

	coord := coordinator.New(logger, coordinator.Config{
		Mode:            cfg.Ingestion.Mode,
		BucketsPath:     cfg.Ingestion.BucketsPath,
		PollingInterval: cfg.Ingestion.PollingInterval,
	}, disp, ing)

	dbm := dbmetrics.New(logger, pool, m.Registry)
	go dbm.Run(ctx, cfg.Metrics.DatabasePollingInterval)

	server := httpapi.New(logger, addrFromConfig(cfg), m.Registry, repo)
	go func() {
		if err := server.ListenAndServe(ctx); err != nil {
			logger.Error("HTTP server stopped with error", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := coord.Run(ctx); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		logger.Warn("Interrupt received, shutting down...")
		cancel()
	case err := <-errChan:
		logger.Error("Coordinator error", "error", err)
		cancel()
		os.Exit(1)
	}

	logger.Info("Indexer stopped")
}

func addrFromConfig(cfg config.Config) string {
	return cfg.API.Host + ":" + strconv.Itoa(cfg.API.Port)
}
