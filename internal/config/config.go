// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package config

import (
	"time"

	"github.com/tomtom215/aniora/internal/enrich"
	"github.com/tomtom215/aniora/internal/recommend"
	"github.com/tomtom215/aniora/internal/recommend/dataset"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any mapped setting
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Data      DataConfig      `koanf:"data"`
	Recommend RecommendConfig `koanf:"recommend"`
	Enrich    EnrichConfig    `koanf:"enrich"`
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DataConfig locates the catalog and rating log.
//
// Environment Variables:
//   - CATALOG_PATH: primary catalog CSV (default: data/anime.csv)
//   - CATALOG_FALLBACKS: comma-separated fallback paths (default: anime.csv)
//   - RATINGS_PATH: rating log CSV, empty disables collaborative data (default: rating.csv)
//   - RATINGS_BACKEND: csv or duckdb (default: csv)
//   - MAX_RATING_ROWS: raw rows read from the rating log, 0 = all (default: 500000)
//   - MIN_USER_RATINGS: users with this many or fewer ratings are dropped (default: 50)
type DataConfig struct {
	CatalogPath      string   `koanf:"catalog_path"`
	CatalogFallbacks []string `koanf:"catalog_fallbacks"`
	RatingsPath      string   `koanf:"ratings_path"`
	RatingsBackend   string   `koanf:"ratings_backend"`
	MaxRatingRows    int      `koanf:"max_rating_rows"`
	MinUserRatings   int      `koanf:"min_user_ratings"`
}

// RecommendConfig holds query limits and view parameters.
type RecommendConfig struct {
	// DefaultTopN is used when a request does not set k.
	DefaultTopN int `koanf:"default_top_n"`

	// MaxTopN clamps larger requests.
	MaxTopN int `koanf:"max_top_n"`

	// MinCategoryRating filters by-category results. 0 disables the filter.
	MinCategoryRating float64 `koanf:"min_category_rating"`

	// SuggestionLimit caps category suggestions on a miss.
	SuggestionLimit int `koanf:"suggestion_limit"`

	// KNNWorkers parallelizes the collaborative index build. 0 = NumCPU.
	KNNWorkers int `koanf:"knn_workers"`
}

// EnrichConfig controls artwork lookups against the Jikan API.
//
// Environment Variables:
//   - ENRICH_ENABLED: attach artwork to results (default: true)
//   - JIKAN_BASE_URL: API root (default: https://api.jikan.moe/v4)
//   - ENRICH_WORKERS: concurrent lookups per batch (default: 3)
//   - ENRICH_TIMEOUT: per-lookup timeout (default: 4s)
//   - ENRICH_CACHE_DIR: Badger directory, empty = in-memory LRU
type EnrichConfig struct {
	Enabled           bool          `koanf:"enabled"`
	BaseURL           string        `koanf:"base_url"`
	Workers           int           `koanf:"workers"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	CacheSize         int           `koanf:"cache_size"`
	CacheTTL          time.Duration `koanf:"cache_ttl"`
	CacheDir          string        `koanf:"cache_dir"`
	CacheGCInterval   time.Duration `koanf:"cache_gc_interval"`
	PlaceholderURL    string        `koanf:"placeholder_url"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// SecurityConfig holds CORS and rate limit settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// JSON is recommended for production (structured, machine-parseable).
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// DatasetConfig converts the data section into loader configuration.
func (c *Config) DatasetConfig() dataset.Config {
	fallbacks := make([]string, len(c.Data.CatalogFallbacks))
	copy(fallbacks, c.Data.CatalogFallbacks)
	return dataset.Config{
		CatalogPath:      c.Data.CatalogPath,
		CatalogFallbacks: fallbacks,
		RatingsPath:      c.Data.RatingsPath,
		RatingsBackend:   c.Data.RatingsBackend,
		MaxRatingRows:    c.Data.MaxRatingRows,
		MinUserRatings:   c.Data.MinUserRatings,
	}
}

// EngineConfig converts the recommend section into engine configuration.
func (c *Config) EngineConfig() *recommend.Config {
	cfg := recommend.DefaultConfig()
	cfg.Limits.DefaultTopN = c.Recommend.DefaultTopN
	cfg.Limits.MaxTopN = c.Recommend.MaxTopN
	cfg.Category.MinRating = c.Recommend.MinCategoryRating
	cfg.Category.SuggestionLimit = c.Recommend.SuggestionLimit
	cfg.KNN.NumWorkers = c.Recommend.KNNWorkers
	return cfg
}

// EnricherConfig converts the enrich section into enricher configuration.
func (c *Config) EnricherConfig() enrich.Config {
	return enrich.Config{
		BaseURL:           c.Enrich.BaseURL,
		Workers:           c.Enrich.Workers,
		Timeout:           c.Enrich.Timeout,
		RequestsPerSecond: c.Enrich.RequestsPerSecond,
		Burst:             c.Enrich.Burst,
		CacheTTL:          c.Enrich.CacheTTL,
		PlaceholderURL:    c.Enrich.PlaceholderURL,
	}
}

// Load loads configuration from defaults, an optional config file, and
// environment variables.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
