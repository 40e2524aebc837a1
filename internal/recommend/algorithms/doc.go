// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

// Package algorithms implements the similarity indices behind the hybrid engine.
//
// # Indices
//
// Content-Based Filtering:
//   - ContentIndex: TF-IDF over genre text with one-vs-all cosine scoring
//
// Collaborative Filtering:
//   - ItemKNN: sparse item x user rating matrix with exact cosine KNN
//
// # Thread Safety
//
// Both indices are built once and never mutated afterwards, so every query
// method is safe for concurrent use without locking.
//
// # Dependencies
//
// The package does not import recommend. Rows and ids are plain ints and the
// engine maps them back to catalog items.
package algorithms
