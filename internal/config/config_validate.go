// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package config

import (
	"fmt"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateData(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateEnrich(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validRatingsBackends defines the allowed rating log readers
var validRatingsBackends = map[string]bool{
	"csv":    true,
	"duckdb": true,
}

// validateData validates catalog and rating log settings
func (c *Config) validateData() error {
	if c.Data.CatalogPath == "" && len(c.Data.CatalogFallbacks) == 0 {
		return fmt.Errorf("CATALOG_PATH is required")
	}
	if !validRatingsBackends[c.Data.RatingsBackend] {
		return fmt.Errorf("RATINGS_BACKEND must be one of: csv, duckdb")
	}
	if c.Data.MaxRatingRows < 0 {
		return fmt.Errorf("MAX_RATING_ROWS must be non-negative, got %d", c.Data.MaxRatingRows)
	}
	if c.Data.MinUserRatings < 0 {
		return fmt.Errorf("MIN_USER_RATINGS must be non-negative, got %d", c.Data.MinUserRatings)
	}
	return nil
}

// validateRecommend validates engine limits
func (c *Config) validateRecommend() error {
	if c.Recommend.DefaultTopN < 1 {
		return fmt.Errorf("DEFAULT_TOP_N must be positive, got %d", c.Recommend.DefaultTopN)
	}
	if c.Recommend.MaxTopN < c.Recommend.DefaultTopN {
		return fmt.Errorf("MAX_TOP_N (%d) must be >= DEFAULT_TOP_N (%d)", c.Recommend.MaxTopN, c.Recommend.DefaultTopN)
	}
	if c.Recommend.MinCategoryRating < 0 || c.Recommend.MinCategoryRating > 10 {
		return fmt.Errorf("MIN_CATEGORY_RATING must be between 0 and 10")
	}
	if c.Recommend.SuggestionLimit < 0 {
		return fmt.Errorf("SUGGESTION_LIMIT must be non-negative")
	}
	if c.Recommend.KNNWorkers < 0 {
		return fmt.Errorf("KNN_WORKERS must be non-negative")
	}
	return nil
}

// validateEnrich validates artwork lookup settings (only if enabled)
func (c *Config) validateEnrich() error {
	if !c.Enrich.Enabled {
		return nil
	}

	if err := validateHTTPURL(c.Enrich.BaseURL, "JIKAN_BASE_URL"); err != nil {
		return err
	}
	if err := validateImageURL(c.Enrich.PlaceholderURL, "PLACEHOLDER_URL"); err != nil {
		return err
	}
	if c.Enrich.Workers < 1 || c.Enrich.Workers > maxEnrichWorkers {
		return fmt.Errorf("ENRICH_WORKERS must be between 1 and %d", maxEnrichWorkers)
	}
	if c.Enrich.Timeout <= 0 {
		return fmt.Errorf("ENRICH_TIMEOUT must be positive")
	}
	if c.Enrich.RequestsPerSecond <= 0 {
		return fmt.Errorf("JIKAN_REQUESTS_PER_SEC must be positive")
	}
	if c.Enrich.Burst < 1 {
		return fmt.Errorf("JIKAN_BURST must be at least 1")
	}
	if c.Enrich.CacheSize < 1 {
		return fmt.Errorf("ENRICH_CACHE_SIZE must be at least 1")
	}
	if c.Enrich.CacheTTL <= 0 {
		return fmt.Errorf("ENRICH_CACHE_TTL must be positive")
	}
	if c.Enrich.CacheGCInterval < time.Second {
		return fmt.Errorf("ENRICH_CACHE_GC_INTERVAL must be at least 1s")
	}
	return nil
}

// maxEnrichWorkers bounds concurrent upstream lookups.
const maxEnrichWorkers = 32

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin")
	}
	return c.validateRateLimits()
}

// HasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
