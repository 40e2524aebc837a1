// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

// Package main is the entry point for the Aniora server.
//
// Aniora recommends anime from a catalog CSV and an optional user rating
// log. Title queries prefer item-item collaborative neighbors and fall back
// to genre similarity; category and popularity views need no model.
//
// # Startup
//
//  1. Configuration: defaults, config.yaml, environment (Koanf v2)
//  2. Logging: zerolog with the configured level and format
//  3. Dataset: catalog plus ratings (CSV or DuckDB reader)
//  4. Engine: content and collaborative indices built concurrently
//  5. Enrichment (optional): Jikan client, artwork cache, cache GC service
//  6. HTTP server and supervisor tree
//
// A missing or unreadable catalog is fatal. Missing ratings are not: the
// engine serves content-based recommendations only.
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains for
// server.shutdown_timeout, the artwork cache is closed, and services that
// failed to stop are reported.
//
// # Example Usage
//
//	export CATALOG_PATH=data/anime.csv
//	export RATINGS_PATH=data/rating.csv
//	export RATINGS_BACKEND=duckdb
//	./aniora
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/aniora/internal/api"
	"github.com/tomtom215/aniora/internal/config"
	"github.com/tomtom215/aniora/internal/logging"
	"github.com/tomtom215/aniora/internal/metrics"
	"github.com/tomtom215/aniora/internal/supervisor"
	"github.com/tomtom215/aniora/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("catalog", cfg.Data.CatalogPath).
		Str("ratings", cfg.Data.RatingsPath).
		Str("ratings_backend", cfg.Data.RatingsBackend).
		Bool("enrich", cfg.Enrich.Enabled).
		Msg("Starting Aniora")

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
	started := time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine, err := initEngine(ctx, cfg, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build recommendation engine")
	}

	enrichment, err := initEnrichment(cfg, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize artwork enrichment")
	}
	defer enrichment.Close()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if enrichment.Collector != nil {
		tree.AddDataService(services.NewCacheGCService(enrichment.Collector, cfg.Enrich.CacheGCInterval, logging.Logger()))
		logging.Info().Str("backend", enrichment.Backend).Msg("Artwork cache GC service added")
	}

	handler := api.NewHandler(engine, enrichment.HandlerOptions(version))
	chiMw := api.NewChiMiddlewareFromSecurity(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)
	if cfg.HasWildcardCORS() {
		logging.Warn().Msg("CORS allows any origin; set CORS_ORIGINS for production")
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(handler, chiMw).SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	go trackUptime(ctx, started)

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
		cancel()
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// trackUptime refreshes the uptime gauge until ctx is canceled.
func trackUptime(ctx context.Context, started time.Time) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		metrics.AppUptime.Set(time.Since(started).Seconds())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
