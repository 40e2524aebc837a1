// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/aniora/internal/models"
)

// Health reports overall status. It is "degraded" while the engine is not
// ready or the artwork breaker is open, and always answers 200.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ready := h.ready()

	status := "healthy"
	if !ready || h.breakerState() == "open" {
		status = "degraded"
	}

	respondSuccess(w, r, models.HealthResponse{
		Status:  status,
		Ready:   ready,
		Version: h.opts.Version,
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
	}, start)
}

// HealthLive is the liveness probe: 200 whenever the process can answer.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, models.HealthResponse{
		Status: "alive",
		Ready:  h.ready(),
		Uptime: time.Since(h.startTime).Round(time.Second).String(),
	}, time.Now())
}

// HealthReady is the readiness probe: 200 once the engine is built, else 503.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !h.ready() {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Recommendation engine is not ready", nil)
		return
	}
	respondSuccess(w, r, models.HealthResponse{Status: "ready", Ready: true}, time.Now())
}

// Status reports engine build state, query counters and the enrichment layer.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	if !h.requireEngine(w, r) {
		return
	}
	start := time.Now()

	respondSuccess(w, r, models.StatusResponse{
		Engine:   h.engine.Status(),
		Counters: h.engine.Metrics(),
		Enrichment: models.EnrichmentStatus{
			Enabled:      h.opts.Enricher != nil,
			CacheBackend: h.opts.CacheBackend,
			Breaker:      h.breakerState(),
		},
	}, start)
}
