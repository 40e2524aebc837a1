// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

/*
Package config provides centralized configuration management for Aniora.

Configuration is layered with Koanf v2:

 1. Defaults: built-in values from defaultConfig()
 2. Config file: optional YAML (CONFIG_PATH, config.yaml, config.yml,
    /etc/aniora/config.yaml, /etc/aniora/config.yml)
 3. Environment variables: explicit mappings only; unknown variables
    are ignored

# Configuration Structure

  - DataConfig: catalog and rating log locations, rating filters
  - RecommendConfig: result limits and category view parameters
  - EnrichConfig: Jikan artwork lookups, pacing and caching
  - ServerConfig: HTTP listener and shutdown timeouts
  - SecurityConfig: CORS origins and API rate limits
  - LoggingConfig: zerolog level, format and caller info

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	dsCfg := cfg.DatasetConfig()
	engineCfg := cfg.EngineConfig()

# Environment Variables

	CATALOG_PATH, RATINGS_PATH, RATINGS_BACKEND, MAX_RATING_ROWS,
	MIN_USER_RATINGS, DEFAULT_TOP_N, MAX_TOP_N, MIN_CATEGORY_RATING,
	ENRICH_ENABLED, JIKAN_BASE_URL, ENRICH_WORKERS, ENRICH_TIMEOUT,
	ENRICH_CACHE_DIR, HTTP_PORT, HTTP_HOST, CORS_ORIGINS,
	RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT,
	LOG_LEVEL, LOG_FORMAT, LOG_CALLER

See envTransformFunc for the complete mapping.

# Thread Safety

Config is immutable after Load() and safe for concurrent reads.
*/
package config
