// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package enrich

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/aniora/internal/metrics"
	"github.com/tomtom215/aniora/internal/recommend"
)

// Lookup outcomes recorded in metrics.
const (
	outcomeCache       = "cache"
	outcomeFetched     = "fetched"
	outcomePlaceholder = "placeholder"
)

// Lookuper fetches artwork for one title.
type Lookuper interface {
	Lookup(ctx context.Context, id int, name string) (Artwork, error)
}

// Enricher resolves artwork for a batch of results.
type Enricher struct {
	client Lookuper
	cache  Cache
	config Config
	logger zerolog.Logger
}

// NewEnricher creates an enricher. A nil cache disables caching.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEnricher(client Lookuper, cache Cache, cfg Config, logger zerolog.Logger) *Enricher {
	cfg.applyDefaults()
	return &Enricher{
		client: client,
		cache:  cache,
		config: cfg,
		logger: logger.With().Str("component", "enrich").Logger(),
	}
}

// Enrich returns one Artwork per result, in the same order. At most
// config.Workers lookups run at once and each is bounded by
// config.Timeout. Failures become placeholders; Enrich never fails.
func (e *Enricher) Enrich(ctx context.Context, results []recommend.Result) []Artwork {
	out := make([]Artwork, len(results))
	if len(results) == 0 {
		return out
	}

	start := time.Now()
	var g errgroup.Group
	g.SetLimit(e.config.Workers)

	for i := range results {
		g.Go(func() error {
			out[i] = e.one(ctx, results[i])
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // workers never return errors

	e.logger.Debug().
		Int("count", len(results)).
		Dur("duration", time.Since(start)).
		Msg("artwork batch resolved")

	return out
}

//nolint:gocritic // hugeParam: Result is read-only here
func (e *Enricher) one(ctx context.Context, r recommend.Result) Artwork {
	key := cacheKey(r)
	if e.cache != nil {
		if art, ok := e.cache.Get(ctx, key); ok {
			metrics.RecordEnrichment(outcomeCache)
			return art
		}
	}

	lookupCtx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	id := 0
	if r.ID != nil {
		id = *r.ID
	}
	art, err := e.client.Lookup(lookupCtx, id, r.Name)
	if err != nil || art.ImageURL == "" {
		e.logger.Debug().Err(err).Str("name", r.Name).Msg("artwork lookup failed, using placeholder")
		metrics.RecordEnrichment(outcomePlaceholder)
		return e.placeholder(r)
	}

	if art.Title == "" {
		art.Title = r.Name
	}
	if e.cache != nil {
		e.cache.Set(ctx, key, art)
	}
	metrics.RecordEnrichment(outcomeFetched)
	return art
}

//nolint:gocritic // hugeParam: Result is read-only here
func (e *Enricher) placeholder(r recommend.Result) Artwork {
	return Artwork{
		ImageURL:    e.config.PlaceholderURL,
		Title:       r.Name,
		Placeholder: true,
	}
}
