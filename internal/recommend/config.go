// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package recommend

import (
	"fmt"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Limits contains query size limits.
	Limits LimitsConfig `json:"limits"`

	// Category contains by-category view parameters.
	Category CategoryConfig `json:"category"`

	// KNN contains collaborative index parameters.
	KNN KNNConfig `json:"knn"`
}

// LimitsConfig bounds the number of results per query.
type LimitsConfig struct {
	// DefaultTopN is used when a caller passes a non-positive top_n.
	DefaultTopN int `json:"default_top_n"`

	// MaxTopN clamps larger requests.
	MaxTopN int `json:"max_top_n"`
}

// CategoryConfig holds by-category view parameters.
type CategoryConfig struct {
	// MinRating drops items rated below this value from by-category
	// results. Zero disables the filter.
	MinRating float64 `json:"min_rating"`

	// SuggestionLimit caps partial-match category suggestions.
	SuggestionLimit int `json:"suggestion_limit"`
}

// KNNConfig holds collaborative index parameters.
type KNNConfig struct {
	// NumWorkers parallelizes row norm computation. Zero uses NumCPU.
	NumWorkers int `json:"num_workers"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		Limits: LimitsConfig{
			DefaultTopN: 15,
			MaxTopN:     100,
		},
		Category: CategoryConfig{
			MinRating:       0,
			SuggestionLimit: 5,
		},
		KNN: KNNConfig{
			NumWorkers: 0,
		},
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Limits.DefaultTopN < 1 {
		return fmt.Errorf("limits.default_top_n must be positive, got %d", c.Limits.DefaultTopN)
	}
	if c.Limits.MaxTopN < c.Limits.DefaultTopN {
		return fmt.Errorf("limits.max_top_n must be >= limits.default_top_n, got %d < %d",
			c.Limits.MaxTopN, c.Limits.DefaultTopN)
	}
	if c.Category.MinRating < 0 || c.Category.MinRating > 10 {
		return fmt.Errorf("category.min_rating must be in [0, 10], got %f", c.Category.MinRating)
	}
	if c.Category.SuggestionLimit < 0 {
		return fmt.Errorf("category.suggestion_limit must be non-negative, got %d", c.Category.SuggestionLimit)
	}
	if c.KNN.NumWorkers < 0 {
		return fmt.Errorf("knn.num_workers must be non-negative, got %d", c.KNN.NumWorkers)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// clampTopN applies the default and maximum result counts.
func (c *Config) clampTopN(topN int) int {
	if topN <= 0 {
		return c.Limits.DefaultTopN
	}
	if topN > c.Limits.MaxTopN {
		return c.Limits.MaxTopN
	}
	return topN
}
