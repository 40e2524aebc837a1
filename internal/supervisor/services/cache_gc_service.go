// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/aniora/internal/metrics"
)

// CacheCollector is an artwork cache that can reclaim space. Both the
// in-memory and Badger caches in the enrich package satisfy it.
type CacheCollector interface {
	// RunGC reports whether anything was reclaimed.
	RunGC() (bool, error)
}

// CacheGCService runs cache garbage collection on a fixed interval.
type CacheGCService struct {
	cache    CacheCollector
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewCacheGCService creates the service. A non-positive interval becomes
// ten minutes.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCacheGCService(cache CacheCollector, interval time.Duration, logger zerolog.Logger) *CacheGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &CacheGCService{
		cache:    cache,
		interval: interval,
		logger:   logger.With().Str("service", "cache-gc").Logger(),
		name:     "cache-gc-service",
	}
}

// Serve implements suture.Service. GC errors are logged and counted but do
// not stop the loop.
func (s *CacheGCService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("cache gc service starting")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("cache gc service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.collect()
		}
	}
}

func (s *CacheGCService) collect() {
	start := time.Now()
	rewritten, err := s.cache.RunGC()
	switch {
	case err != nil:
		metrics.CacheGCRuns.WithLabelValues("error").Inc()
		s.logger.Warn().Err(err).Msg("cache gc failed")
	case rewritten:
		metrics.CacheGCRuns.WithLabelValues("rewritten").Inc()
		s.logger.Debug().Dur("duration", time.Since(start)).Msg("cache gc reclaimed space")
	default:
		metrics.CacheGCRuns.WithLabelValues("noop").Inc()
	}
}

// String returns the service name for logging.
func (s *CacheGCService) String() string {
	return s.name
}
