// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package main

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/tomtom215/aniora/internal/api"
	"github.com/tomtom215/aniora/internal/config"
	"github.com/tomtom215/aniora/internal/enrich"
	"github.com/tomtom215/aniora/internal/logging"
	"github.com/tomtom215/aniora/internal/supervisor/services"
)

const (
	cacheBackendMemory = "memory"
	cacheBackendBadger = "badger"
)

// EnrichComponents holds the artwork layer. All fields are zero when
// enrichment is disabled.
type EnrichComponents struct {
	Enricher  *enrich.Enricher
	Client    *enrich.JikanClient
	Collector services.CacheCollector
	Backend   string

	closeFn func() error
}

// initEnrichment builds the Jikan client and artwork cache. cache_dir
// selects Badger on disk; otherwise the cache is an in-memory LRU.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initEnrichment(cfg *config.Config, logger zerolog.Logger) (*EnrichComponents, error) {
	if !cfg.Enrich.Enabled {
		logger.Info().Msg("Artwork enrichment disabled (ENRICH_ENABLED=false)")
		return &EnrichComponents{}, nil
	}

	enrichCfg := cfg.EnricherConfig()
	components := &EnrichComponents{}

	var cache enrich.Cache
	if cfg.Enrich.CacheDir != "" {
		badgerCache, err := enrich.OpenBadgerCache(cfg.Enrich.CacheDir, enrichCfg.CacheTTL, logger)
		if err != nil {
			return nil, err
		}
		cache = badgerCache
		components.Collector = badgerCache
		components.Backend = cacheBackendBadger
		components.closeFn = badgerCache.Close
	} else {
		memCache := enrich.NewMemoryCache(cfg.Enrich.CacheSize, enrichCfg.CacheTTL)
		cache = memCache
		components.Collector = memCache
		components.Backend = cacheBackendMemory
	}

	components.Client = enrich.NewJikanClient(enrichCfg, &http.Client{Timeout: enrichCfg.Timeout}, logger)
	components.Enricher = enrich.NewEnricher(components.Client, cache, enrichCfg, logger)

	logger.Info().
		Str("base_url", enrichCfg.BaseURL).
		Str("cache", components.Backend).
		Int("workers", enrichCfg.Workers).
		Msg("Artwork enrichment enabled")

	return components, nil
}

// HandlerOptions exposes the components to the API handler.
func (c *EnrichComponents) HandlerOptions(version string) api.HandlerOptions {
	opts := api.HandlerOptions{Version: version}
	if c.Enricher == nil {
		return opts
	}
	opts.Enricher = c.Enricher
	opts.CacheBackend = c.Backend
	opts.BreakerState = c.Client.State
	return opts
}

// Close releases the artwork cache.
func (c *EnrichComponents) Close() {
	if c.closeFn == nil {
		return
	}
	if err := c.closeFn(); err != nil {
		logging.Error().Err(err).Msg("Error closing artwork cache")
	}
}
