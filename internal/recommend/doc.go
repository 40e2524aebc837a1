// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

// Package recommend implements the hybrid anime recommendation engine.
//
// # Architecture
//
// The engine combines two signal sources over one loaded catalog:
//
//   - Collaborative Filtering: item-item cosine over the user rating matrix
//   - Content-Based Filtering: TF-IDF similarity of genre tags
//
// A title query walks a fixed ladder. The title is resolved to the first
// catalog item whose name contains it (case-insensitive). Collaborative
// neighbors are tried first; when the seed has no ratings, or the neighbor
// list is empty, the content index answers instead. When neither produces
// anything, the result is empty and tagged ProvenanceNone.
//
// # Views
//
// Besides title queries the engine serves catalog views that need no
// model: Categories, ByCategory, SuggestCategories and TopByPopularity.
//
// # Usage
//
//	ds, err := dataset.Load(ctx, dataset.Config{CatalogPath: "data/anime.csv"}, logger)
//	engine, err := recommend.NewEngine(ctx, ds, recommend.DefaultConfig(), logger)
//
//	rec := engine.Recommend(ctx, "naruto", 10)
//	fmt.Println(rec.Provenance, len(rec.Results))
//
// # Thread Safety
//
// Everything is built inside NewEngine and never mutated afterwards.
// Query methods are safe for concurrent use without locking; counters are
// atomics.
package recommend
