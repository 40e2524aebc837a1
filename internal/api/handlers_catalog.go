// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/aniora/internal/metrics"
	"github.com/tomtom215/aniora/internal/models"
)

// Categories handles GET /api/v1/categories.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	if !h.requireEngine(w, r) {
		return
	}
	start := time.Now()

	categories := h.engine.Categories()
	respondSuccess(w, r, models.CategoriesResponse{
		Categories: categories,
		Count:      len(categories),
	}, start)
}

// Category handles GET /api/v1/categories/{category}. An unknown category
// answers 404 with close matches in details.suggestions.
func (h *Handler) Category(w http.ResponseWriter, r *http.Request) {
	if !h.requireEngine(w, r) {
		return
	}

	req, verr := parseCategoryRequest(r)
	if verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	if !h.engine.HasCategory(req.Category) {
		respondErrorDetails(w, r, http.StatusNotFound, ErrCodeNotFound,
			"Unknown category: "+req.Category,
			map[string]interface{}{
				"category":    req.Category,
				"suggestions": h.engine.SuggestCategories(req.Category, 0),
			}, nil)
		return
	}

	start := time.Now()
	items := h.engine.ByCategory(req.Category, intOr(req.K, 0))
	metrics.RecordViewQuery("category", time.Since(start))

	respondSuccess(w, r, models.ItemListResponse{
		Category: req.Category,
		Items:    items,
		Artwork:  h.artwork(r.Context(), items, req.Enrich),
	}, start)
}

// Top handles GET /api/v1/top, the most watched titles.
func (h *Handler) Top(w http.ResponseWriter, r *http.Request) {
	if !h.requireEngine(w, r) {
		return
	}

	req, verr := parseTopRequest(r)
	if verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	start := time.Now()
	items := h.engine.TopByPopularity(intOr(req.K, 0))
	metrics.RecordViewQuery("top", time.Since(start))

	respondSuccess(w, r, models.ItemListResponse{
		Items:   items,
		Artwork: h.artwork(r.Context(), items, req.Enrich),
	}, start)
}

// Titles handles GET /api/v1/titles. A blank q lists titles from the start
// of the catalog.
func (h *Handler) Titles(w http.ResponseWriter, r *http.Request) {
	if !h.requireEngine(w, r) {
		return
	}

	req, verr := parseTitlesRequest(r)
	if verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	start := time.Now()
	titles := h.engine.Titles(req.Query, intOr(req.Limit, defaultTitlesLimit))
	metrics.RecordViewQuery("titles", time.Since(start))

	respondSuccess(w, r, models.TitlesResponse{
		Query:  req.Query,
		Titles: titles,
		Count:  len(titles),
	}, start)
}

const defaultTitlesLimit = 20
