// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

// Package middleware provides HTTP middleware for the Aniora API.
//
// Every middleware has the func(http.Handler) http.Handler shape so it can
// be installed with chi's Router.Use:
//
//	r.Use(middleware.RequestID)
//	r.Use(middleware.AccessLog(500 * time.Millisecond))
//	r.Use(middleware.PrometheusMetrics)
//
// RequestID must run first; AccessLog reads the IDs it stores.
//
// PrometheusMetrics labels requests with the matched chi route pattern
// (e.g. /api/v1/categories/{category}) rather than the raw path, which keeps
// label cardinality bounded.
package middleware
