// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/aniora/internal/logging"
	"github.com/tomtom215/aniora/internal/metrics"
	"github.com/tomtom215/aniora/internal/models"
)

// Recommendations handles GET /api/v1/recommendations.
//
// An unknown title is not an error: the response carries provenance "none",
// a null seed and no items.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	if !h.requireEngine(w, r) {
		return
	}

	req, verr := parseRecommendationsRequest(r)
	if verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	start := time.Now()
	rec := h.engine.Recommend(r.Context(), req.Title, intOr(req.K, 0))
	metrics.RecordRecommendation(string(rec.Provenance), len(rec.Results), time.Since(start))

	logging.Ctx(r.Context()).Debug().
		Str("title", sanitizeLogValue(req.Title)).
		Str("provenance", string(rec.Provenance)).
		Int("results", len(rec.Results)).
		Msg("recommendation served")

	respondSuccess(w, r, models.RecommendationResponse{
		Query:      req.Title,
		Seed:       rec.Seed,
		Provenance: rec.Provenance,
		Items:      rec.Results,
		Artwork:    h.artwork(r.Context(), rec.Results, req.Enrich),
	}, start)
}
