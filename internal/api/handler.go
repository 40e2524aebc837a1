// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/aniora/internal/enrich"
	"github.com/tomtom215/aniora/internal/recommend"
)

// Recommender is the engine surface the handlers use. *recommend.Engine
// satisfies it.
type Recommender interface {
	Recommend(ctx context.Context, title string, topN int) recommend.Recommendation
	Categories() []string
	HasCategory(tag string) bool
	ByCategory(tag string, topN int) []recommend.Result
	SuggestCategories(tag string, limit int) []string
	TopByPopularity(topN int) []recommend.Result
	Titles(query string, limit int) []string
	Status() recommend.Status
	Metrics() recommend.Metrics
	Ready() bool
}

// ArtworkEnricher attaches artwork to results. *enrich.Enricher satisfies it.
type ArtworkEnricher interface {
	Enrich(ctx context.Context, results []recommend.Result) []enrich.Artwork
}

// HandlerOptions carries optional collaborators.
type HandlerOptions struct {
	// Enricher is nil when enrichment is disabled.
	Enricher ArtworkEnricher

	// CacheBackend names the artwork cache ("memory" or "badger").
	CacheBackend string

	// BreakerState reports the upstream circuit breaker state.
	BreakerState func() string

	// Version is reported by the health endpoint.
	Version string
}

// Handler contains dependencies for API handlers.
type Handler struct {
	engine    Recommender
	opts      HandlerOptions
	startTime time.Time
}

// NewHandler creates the API handler. engine may be nil until the index
// build finishes; handlers answer 503 meanwhile.
func NewHandler(engine Recommender, opts HandlerOptions) *Handler {
	return &Handler{
		engine:    engine,
		opts:      opts,
		startTime: time.Now(),
	}
}

func (h *Handler) ready() bool {
	return h.engine != nil && h.engine.Ready()
}

// requireEngine answers 503 and returns false when the engine is not ready.
func (h *Handler) requireEngine(w http.ResponseWriter, r *http.Request) bool {
	if h.ready() {
		return true
	}
	respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Recommendation engine is not ready", nil)
	return false
}

// artwork enriches results unless the caller opted out or enrichment is
// disabled. Enrichment defaults to on when configured.
func (h *Handler) artwork(ctx context.Context, results []recommend.Result, want *bool) []enrich.Artwork {
	if h.opts.Enricher == nil || len(results) == 0 {
		return nil
	}
	if want != nil && !*want {
		return nil
	}
	return h.opts.Enricher.Enrich(ctx, results)
}

func (h *Handler) breakerState() string {
	if h.opts.BreakerState == nil {
		return ""
	}
	return h.opts.BreakerState()
}
