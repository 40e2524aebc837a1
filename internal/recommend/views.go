// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package recommend

import (
	"sort"
	"strings"
)

// Categories returns the distinct genre tags, sorted.
func (e *Engine) Categories() []string {
	out := make([]string, len(e.categories))
	copy(out, e.categories)
	return out
}

// HasCategory reports whether tag is a known category (case-insensitive).
func (e *Engine) HasCategory(tag string) bool {
	tag = strings.TrimSpace(tag)
	for _, c := range e.categories {
		if strings.EqualFold(c, tag) {
			return true
		}
	}
	return false
}

// ByCategory returns items tagged with tag, rating desc then members desc.
// Items rated below the configured minimum are skipped when one is set.
func (e *Engine) ByCategory(tag string, topN int) []Result {
	tag = strings.TrimSpace(tag)
	topN = e.config.clampTopN(topN)
	minRating := Rating(e.config.Category.MinRating)

	matches := make([]int, 0)
	for i := range e.items {
		item := &e.items[i]
		if !item.HasGenre(tag) {
			continue
		}
		if minRating > 0 && item.Rating < minRating {
			continue
		}
		matches = append(matches, i)
	}

	sort.SliceStable(matches, func(a, b int) bool {
		ia, ib := &e.items[matches[a]], &e.items[matches[b]]
		if ia.Rating != ib.Rating {
			return ia.Rating > ib.Rating
		}
		return ia.Members > ib.Members
	})

	if len(matches) > topN {
		matches = matches[:topN]
	}
	return e.results(matches)
}

// SuggestCategories returns categories containing tag as a substring,
// case-insensitively. limit <= 0 uses the configured suggestion limit.
func (e *Engine) SuggestCategories(tag string, limit int) []string {
	needle := strings.ToLower(strings.TrimSpace(tag))
	if needle == "" {
		return []string{}
	}
	if limit <= 0 {
		limit = e.config.Category.SuggestionLimit
	}

	suggestions := make([]string, 0, limit)
	for _, c := range e.categories {
		if len(suggestions) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(c), needle) {
			suggestions = append(suggestions, c)
		}
	}
	return suggestions
}

// TopByPopularity returns the most-watched items by member count, ties
// broken by rating.
func (e *Engine) TopByPopularity(topN int) []Result {
	topN = e.config.clampTopN(topN)
	order := e.popularity
	if len(order) > topN {
		order = order[:topN]
	}
	return e.results(order)
}

func (e *Engine) results(positions []int) []Result {
	out := make([]Result, 0, len(positions))
	for _, pos := range positions {
		out = append(out, NewResult(e.items[pos], 0))
	}
	return out
}
