// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package dataset

import (
	"fmt"
)

// Rating log backends.
const (
	BackendCSV    = "csv"
	BackendDuckDB = "duckdb"
)

// Config describes where the catalog and rating log live and how the rating
// log is filtered.
type Config struct {
	// CatalogPath is the primary catalog CSV.
	CatalogPath string

	// CatalogFallbacks are tried in order when CatalogPath does not exist.
	CatalogFallbacks []string

	// RatingsPath is the optional rating log. Empty disables collaborative data.
	RatingsPath string

	// RatingsBackend selects the rating log reader (csv or duckdb).
	RatingsBackend string

	// MaxRatingRows caps raw rating rows read from the log. Zero reads all.
	MaxRatingRows int

	// MinUserRatings drops users with this many or fewer retained ratings.
	MinUserRatings int
}

// DefaultConfig returns the loader defaults.
func DefaultConfig() Config {
	return Config{
		CatalogPath:      "data/anime.csv",
		CatalogFallbacks: []string{"anime.csv"},
		RatingsPath:      "rating.csv",
		RatingsBackend:   BackendCSV,
		MaxRatingRows:    500000,
		MinUserRatings:   50,
	}
}

// Validate checks the loader configuration.
func (c Config) Validate() error {
	if c.CatalogPath == "" && len(c.CatalogFallbacks) == 0 {
		return fmt.Errorf("catalog path is required")
	}
	switch c.RatingsBackend {
	case "", BackendCSV, BackendDuckDB:
	default:
		return fmt.Errorf("ratings backend must be %q or %q, got %q", BackendCSV, BackendDuckDB, c.RatingsBackend)
	}
	if c.MaxRatingRows < 0 {
		return fmt.Errorf("max rating rows must be non-negative, got %d", c.MaxRatingRows)
	}
	if c.MinUserRatings < 0 {
		return fmt.Errorf("min user ratings must be non-negative, got %d", c.MinUserRatings)
	}
	return nil
}
