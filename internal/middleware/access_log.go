// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package middleware

import (
	"net/http"
	"time"

	"github.com/tomtom215/aniora/internal/logging"
)

// AccessLog logs one line per request at debug level, or at warn level when
// the request took longer than slowThreshold. Server errors log at error.
// A zero threshold disables slow-request promotion.
func AccessLog(slowThreshold time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			logger := logging.Ctx(r.Context())

			event := logger.Debug()
			msg := "request served"
			switch {
			case rec.statusCode >= http.StatusInternalServerError:
				event = logger.Error()
				msg = "request failed"
			case slowThreshold > 0 && duration > slowThreshold:
				event = logger.Warn()
				msg = "Slow request detected"
			}

			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.statusCode).
				Int("bytes", rec.bytes).
				Int64("duration_ms", duration.Milliseconds()).
				Msg(msg)
		})
	}
}
