// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

/*
Package api serves the Aniora HTTP API on a chi router.

# Endpoints

	GET /api/v1/health              engine status summary
	GET /api/v1/health/live         liveness probe
	GET /api/v1/health/ready        readiness probe (503 until the engine is built)
	GET /api/v1/recommendations     ?title=&k=&enrich=   hybrid title query
	GET /api/v1/categories          genre tags
	GET /api/v1/categories/{name}   ?k=&enrich=          by-category view
	GET /api/v1/top                 ?k=&enrich=          most watched
	GET /api/v1/titles              ?q=&limit=           title picker search
	GET /api/v1/status              engine status and counters
	GET /metrics                    Prometheus exposition

Every JSON response uses the models.APIResponse envelope. Query
parameters are parsed into request structs and checked with the
validation package; failures return 400 with code VALIDATION_ERROR.

# Middleware

Global: request ID, real IP, panic recovery, CORS (go-chi/cors), access
logging and response compression. The /api/v1 routes add per-IP rate
limiting (go-chi/httprate), security headers and Prometheus
instrumentation. Health routes use a looser rate limit so probes are never
throttled.
*/
package api
