// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

// Package enrich attaches cover artwork to recommendation results.
//
// Artwork comes from the Jikan (MyAnimeList) API. Lookups are paced to the
// upstream rate limit, guarded by a circuit breaker, cached, and fanned out
// over a small worker pool. A failed or slow lookup is replaced by a
// placeholder so one bad title never blocks a page of results.
package enrich

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/aniora/internal/recommend"
)

// DefaultPlaceholderURL is shown when no artwork could be fetched.
const DefaultPlaceholderURL = "https://via.placeholder.com/225x320/1a1a1a/cccccc?text=No+Image"

// ErrNoArtwork indicates the upstream API had no entry for the title.
var ErrNoArtwork = errors.New("no artwork found")

// Artwork is the display data for one result.
type Artwork struct {
	ImageURL    string `json:"image_url"`
	Title       string `json:"title"`
	MalID       *int   `json:"mal_id"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

// Config holds enrichment parameters.
type Config struct {
	// BaseURL is the Jikan API root, without trailing slash.
	BaseURL string

	// Workers bounds concurrent upstream lookups per batch.
	Workers int

	// Timeout bounds a single lookup, including both request attempts.
	Timeout time.Duration

	// RequestsPerSecond and Burst pace upstream requests.
	RequestsPerSecond float64
	Burst             int

	// CacheTTL is how long fetched artwork stays cached.
	CacheTTL time.Duration

	// PlaceholderURL replaces artwork that could not be fetched.
	PlaceholderURL string
}

// DefaultConfig returns enrichment defaults matching the public Jikan limits.
func DefaultConfig() Config {
	return Config{
		BaseURL:           "https://api.jikan.moe/v4",
		Workers:           3,
		Timeout:           4 * time.Second,
		RequestsPerSecond: 3,
		Burst:             1,
		CacheTTL:          24 * time.Hour,
		PlaceholderURL:    DefaultPlaceholderURL,
	}
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = def.BaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Workers <= 0 {
		c.Workers = def.Workers
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = def.RequestsPerSecond
	}
	if c.Burst <= 0 {
		c.Burst = def.Burst
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = def.CacheTTL
	}
	if c.PlaceholderURL == "" {
		c.PlaceholderURL = def.PlaceholderURL
	}
}

// Cache stores artwork by key.
type Cache interface {
	Get(ctx context.Context, key string) (Artwork, bool)
	Set(ctx context.Context, key string, art Artwork)
}

// cacheKey identifies a result in the artwork cache.
//
//nolint:gocritic // hugeParam: Result is read-only here
func cacheKey(r recommend.Result) string {
	if r.ID != nil {
		return "id:" + strconv.Itoa(*r.ID)
	}
	return "name:" + strings.ToLower(strings.TrimSpace(r.Name))
}
