// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto and
exposed at /metrics in Prometheus text format:

	curl http://localhost:8501/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
  - api_active_requests: In-flight requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)

Recommendation Metrics:
  - recommendations_total: Title queries by provenance (counter)
  - recommendation_duration_seconds: Query latency by query kind (histogram)
  - recommendation_results: Results per title query (histogram)

Dataset Metrics:
  - dataset_items, dataset_ratings, dataset_users, dataset_categories (gauges)
  - collaborative_index_available: 1 when ratings produced an index (gauge)
  - index_build_duration_seconds: Startup build time (gauge)

Enrichment Metrics:
  - enrichment_lookups_total: Artwork lookups by outcome (counter)
  - enrichment_upstream_duration_seconds: Jikan call latency (histogram)
  - cache_hits_total, cache_misses_total, cache_entries: Artwork cache
  - cache_gc_runs_total: Badger value log GC runs
  - circuit_breaker_*: State, requests and transitions of the Jikan breaker

# Usage

	start := time.Now()
	rec := engine.Recommend(ctx, title, k)
	metrics.RecordRecommendation(string(rec.Provenance), len(rec.Results), time.Since(start))
*/
package metrics
