// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

// Package dataset loads the anime catalog and the optional rating log into a
// validated recommend.Dataset.
//
// The catalog is required: a missing file, a missing id or name column, or
// malformed CSV is a *recommend.LoadError. The rating log is optional: when
// it is absent or unreadable the dataset carries no ratings and the engine
// runs content-only.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/aniora/internal/recommend"
)

// Load reads the catalog and rating log described by cfg.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Load(ctx context.Context, cfg Config, logger zerolog.Logger) (*recommend.Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &recommend.LoadError{Source: "config", Err: err}
	}
	logger = logger.With().Str("component", "dataset").Logger()
	start := time.Now()

	catalogPath, err := resolveCatalogPath(cfg)
	if err != nil {
		return nil, &recommend.LoadError{Source: cfg.CatalogPath, Err: err}
	}

	items, stats, err := loadCatalogFile(catalogPath)
	if err != nil {
		return nil, &recommend.LoadError{Source: catalogPath, Err: err}
	}

	known := make(map[int]struct{}, len(items))
	for i := range items {
		known[items[i].ID] = struct{}{}
	}

	ratings, err := loadRatings(ctx, cfg, &stats)
	switch {
	case err != nil && ctx.Err() != nil:
		return nil, ctx.Err()
	case err != nil:
		logger.Warn().Err(err).Str("path", cfg.RatingsPath).
			Msg("rating log unavailable, collaborative filtering disabled")
		ratings = nil
		stats.RatingRows, stats.MalformedRatings, stats.DroppedUnrated = 0, 0, 0
	case cfg.RatingsPath == "":
		logger.Info().Msg("no rating log configured")
	}

	ratings = FilterRatings(ratings, known, cfg.MinUserRatings, &stats)

	logger.Info().
		Str("catalog", catalogPath).
		Int("items", len(items)).
		Int("skipped_rows", stats.SkippedCatalogRows).
		Int("duplicate_ids", stats.DuplicateIDs).
		Int("rating_rows", stats.RatingRows).
		Int("ratings", len(ratings)).
		Int("users", stats.RetainedUsers).
		Dur("duration", time.Since(start)).
		Msg("dataset loaded")

	return &recommend.Dataset{Items: items, Ratings: ratings, Stats: stats}, nil
}

// resolveCatalogPath returns the first existing catalog candidate.
func resolveCatalogPath(cfg Config) (string, error) {
	candidates := make([]string, 0, 1+len(cfg.CatalogFallbacks))
	if cfg.CatalogPath != "" {
		candidates = append(candidates, cfg.CatalogPath)
	}
	candidates = append(candidates, cfg.CatalogFallbacks...)

	for _, path := range candidates {
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("no catalog found in %v: %w", candidates, fs.ErrNotExist)
}

func loadCatalogFile(path string) ([]recommend.Item, recommend.LoadStats, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, recommend.LoadStats{}, err
	}
	defer f.Close() //nolint:errcheck // read-only file

	return readCatalog(f)
}

// loadRatings returns raw events from the configured backend. A missing
// path or file yields no events and no error.
func loadRatings(ctx context.Context, cfg Config, stats *recommend.LoadStats) ([]recommend.RatingEvent, error) {
	if cfg.RatingsPath == "" {
		return nil, nil
	}
	if _, err := os.Stat(cfg.RatingsPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("rating log %s: %w", cfg.RatingsPath, err)
		}
		return nil, err
	}

	if cfg.RatingsBackend == BackendDuckDB {
		return readRatingsDuckDB(ctx, cfg.RatingsPath, cfg.MaxRatingRows, stats)
	}

	f, err := os.Open(cfg.RatingsPath)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only file

	return readRatingsCSV(ctx, f, cfg.MaxRatingRows, stats)
}
