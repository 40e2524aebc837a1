// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/aniora/internal/config"
	"github.com/tomtom215/aniora/internal/metrics"
	"github.com/tomtom215/aniora/internal/recommend"
	"github.com/tomtom215/aniora/internal/recommend/dataset"
)

// initEngine loads the dataset and builds the engine. The dataset is not
// kept beyond the build.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initEngine(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*recommend.Engine, error) {
	start := time.Now()

	ds, err := dataset.Load(ctx, cfg.DatasetConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	engine, err := recommend.NewEngine(ctx, ds, cfg.EngineConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}

	status := engine.Status()
	metrics.RecordDatasetStats(
		status.Items,
		status.Ratings,
		status.Users,
		status.Categories,
		status.CollaborativeAvailable,
		time.Duration(status.BuildDurationMS)*time.Millisecond,
	)

	logger.Info().
		Int("items", status.Items).
		Int("ratings", status.Ratings).
		Bool("collaborative", status.CollaborativeAvailable).
		Dur("startup", time.Since(start)).
		Msg("Recommendation engine ready")

	return engine, nil
}
