// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

// Package models defines the JSON payloads of the Aniora HTTP API.
package models

import (
	"time"

	"github.com/tomtom215/aniora/internal/enrich"
	"github.com/tomtom215/aniora/internal/recommend"
)

// APIResponse is the envelope used by every endpoint.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"provenance": "content", "items": [...]},
//	  "metadata": {"timestamp": "2026-01-28T12:00:00Z", "query_time_ms": 3}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {"code": "VALIDATION_ERROR", "message": "title is required"},
//	  "metadata": {"timestamp": "2026-01-28T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError is a machine-readable error.
//
// Common error codes:
//   - VALIDATION_ERROR: invalid query parameters
//   - NOT_FOUND: unknown category or route
//   - SERVICE_UNAVAILABLE: engine not built yet
//   - RATE_LIMIT_EXCEEDED: too many requests
//   - INTERNAL_ERROR: unexpected failure
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RecommendationResponse is the payload of a title query.
type RecommendationResponse struct {
	Query      string               `json:"query"`
	Seed       *recommend.Result    `json:"seed"`
	Provenance recommend.Provenance `json:"provenance"`
	Items      []recommend.Result   `json:"items"`
	Artwork    []enrich.Artwork     `json:"artwork,omitempty"`
}

// ItemListResponse is the payload of the category and top views.
type ItemListResponse struct {
	Category string             `json:"category,omitempty"`
	Items    []recommend.Result `json:"items"`
	Artwork  []enrich.Artwork   `json:"artwork,omitempty"`
}

// CategoriesResponse lists the known genre tags.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
	Count      int      `json:"count"`
}

// TitlesResponse lists catalog names for title pickers.
type TitlesResponse struct {
	Query  string   `json:"query"`
	Titles []string `json:"titles"`
	Count  int      `json:"count"`
}

// HealthResponse reports liveness and readiness.
type HealthResponse struct {
	Status  string `json:"status"`
	Ready   bool   `json:"ready"`
	Version string `json:"version,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// StatusResponse reports engine state and counters.
type StatusResponse struct {
	Engine     recommend.Status  `json:"engine"`
	Counters   recommend.Metrics `json:"counters"`
	Enrichment EnrichmentStatus  `json:"enrichment"`
}

// EnrichmentStatus describes the artwork layer.
type EnrichmentStatus struct {
	Enabled      bool   `json:"enabled"`
	CacheBackend string `json:"cache_backend,omitempty"`
	Breaker      string `json:"breaker,omitempty"`
}
