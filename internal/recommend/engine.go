// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/aniora/internal/recommend/algorithms"
)

// Engine answers title queries from a content index and, when ratings are
// available, a collaborative index. It is immutable after NewEngine returns
// and safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	items      []Item
	lowerNames []string
	rowOfID    map[int]int // item id -> catalog position

	content *algorithms.ContentIndex
	collab  *algorithms.ItemKNN // nil in content-only mode

	categories []string
	popularity []int // catalog positions, members desc then rating desc

	status Status

	requests      atomic.Int64
	collaborative atomic.Int64
	contentHits   atomic.Int64
	none          atomic.Int64
}

// NewEngine builds both indices from ds. A content index failure is fatal;
// a collaborative failure is logged and the engine serves content-only.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(ctx context.Context, ds *Dataset, cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if ds == nil {
		return nil, &BuildError{Index: "content", Err: algorithms.ErrEmptyInput}
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	start := time.Now()
	e := &Engine{
		config:     cfg.Clone(),
		logger:     logger.With().Str("component", "recommend").Logger(),
		items:      append([]Item(nil), ds.Items...),
		lowerNames: make([]string, len(ds.Items)),
		rowOfID:    make(map[int]int, len(ds.Items)),
	}

	docs := make([]algorithms.ContentDocument, len(e.items))
	for i := range e.items {
		item := &e.items[i]
		e.lowerNames[i] = strings.ToLower(item.Name)
		if _, exists := e.rowOfID[item.ID]; !exists {
			e.rowOfID[item.ID] = i
		}
		docs[i] = algorithms.ContentDocument{Name: item.Name, Text: item.Genre}
	}

	ratings := make([]algorithms.Rating, 0, len(ds.Ratings))
	users := make(map[int]struct{})
	for _, ev := range ds.Ratings {
		// -1 means watched without a score
		if ev.Rating < 0 {
			continue
		}
		ratings = append(ratings, algorithms.Rating{UserID: ev.UserID, ItemID: ev.ItemID, Value: float64(ev.Rating)})
		users[ev.UserID] = struct{}{}
	}

	var collabErr error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		idx, err := algorithms.NewContentIndex(gctx, docs)
		if err != nil {
			return &BuildError{Index: "content", Err: err}
		}
		e.content = idx
		return nil
	})
	g.Go(func() error {
		knn, err := algorithms.NewItemKNN(gctx, ratings, algorithms.KNNConfig{NumWorkers: cfg.KNN.NumWorkers})
		if err != nil {
			collabErr = &BuildError{Index: "collaborative", Err: err}
			return nil
		}
		e.collab = knn
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if collabErr != nil {
		e.logger.Warn().Err(collabErr).Msg("collaborative index unavailable, serving content-only recommendations")
	}

	e.categories = collectCategories(e.items)
	e.popularity = popularityOrder(e.items)

	e.status = Status{
		Items:                  len(e.items),
		Ratings:                len(ratings),
		Users:                  len(users),
		Categories:             len(e.categories),
		CollaborativeAvailable: e.collab != nil,
		ContentVocabulary:      e.content.VocabularySize(),
		BuiltAt:                time.Now().UTC(),
		BuildDurationMS:        time.Since(start).Milliseconds(),
		Load:                   ds.Stats,
	}
	if e.collab != nil {
		e.status.CollaborativeItems = e.collab.Items()
	}

	e.logger.Info().
		Int("items", e.status.Items).
		Int("ratings", e.status.Ratings).
		Int("users", e.status.Users).
		Int("categories", e.status.Categories).
		Int("vocabulary", e.status.ContentVocabulary).
		Bool("collaborative", e.status.CollaborativeAvailable).
		Dur("duration", time.Since(start)).
		Msg("recommendation engine built")

	return e, nil
}

// Recommend runs the query ladder for title: resolve the seed, try the
// collaborative index, fall back to content similarity, else return an
// empty result with ProvenanceNone. It never fails, and a query always runs
// to completion; the context is not consulted.
func (e *Engine) Recommend(_ context.Context, title string, topN int) Recommendation {
	e.requests.Add(1)
	topN = e.config.clampTopN(topN)

	pos, err := e.resolve(title)
	if err != nil {
		e.logger.Debug().Str("title", title).Msg("no catalog match")
		return e.miss(nil)
	}
	seed := NewResult(e.items[pos], 0)

	if results, err := e.fromCollaborative(pos, topN); err == nil && len(results) > 0 {
		e.collaborative.Add(1)
		return Recommendation{Seed: &seed, Provenance: ProvenanceCollaborative, Results: results}
	} else if err != nil && !errors.Is(err, ErrNotIndexed) {
		e.logger.Debug().Err(err).Int("item_id", e.items[pos].ID).Msg("collaborative lookup failed")
	}

	if results := e.fromContent(pos, topN); len(results) > 0 {
		e.contentHits.Add(1)
		return Recommendation{Seed: &seed, Provenance: ProvenanceContent, Results: results}
	}

	return e.miss(&seed)
}

func (e *Engine) miss(seed *Result) Recommendation {
	e.none.Add(1)
	return Recommendation{Seed: seed, Provenance: ProvenanceNone, Results: []Result{}}
}

// fromCollaborative maps item neighbors back to catalog results.
func (e *Engine) fromCollaborative(pos, topN int) ([]Result, error) {
	if e.collab == nil {
		return nil, fmt.Errorf("%w: collaborative index not built", ErrNotIndexed)
	}
	itemID := e.items[pos].ID
	neighbors, err := e.collab.Neighbors(itemID, topN)
	if err != nil {
		if errors.Is(err, algorithms.ErrNotIndexed) {
			return nil, fmt.Errorf("%w: item %d", ErrNotIndexed, itemID)
		}
		return nil, err
	}

	results := make([]Result, 0, len(neighbors))
	for _, n := range neighbors {
		row, ok := e.rowOfID[n.ItemID]
		if !ok {
			continue
		}
		results = append(results, NewResult(e.items[row], n.Similarity()))
	}
	return results, nil
}

// fromContent queries the content index with the row owning the seed name.
func (e *Engine) fromContent(pos, topN int) []Result {
	row, ok := e.content.RowForName(e.items[pos].Name)
	if !ok {
		return nil
	}
	matches := e.content.Query(row, topN)
	results := make([]Result, 0, len(matches))
	for _, m := range matches {
		results = append(results, NewResult(e.items[m.Row], m.Score))
	}
	return results
}

// Resolve returns the first catalog item whose name contains title,
// case-insensitively. A blank title never matches.
func (e *Engine) Resolve(title string) (Item, error) {
	pos, err := e.resolve(title)
	if err != nil {
		return Item{}, err
	}
	return e.items[pos], nil
}

func (e *Engine) resolve(title string) (int, error) {
	needle := strings.ToLower(strings.TrimSpace(title))
	if needle == "" {
		return -1, ErrNoMatch
	}
	for i, name := range e.lowerNames {
		if strings.Contains(name, needle) {
			return i, nil
		}
	}
	return -1, ErrNoMatch
}

// Titles returns distinct catalog names in catalog order that contain
// query case-insensitively. A blank query lists every name. limit <= 0
// means no limit.
func (e *Engine) Titles(query string, limit int) []string {
	needle := strings.ToLower(strings.TrimSpace(query))
	seen := make(map[string]struct{})
	titles := make([]string, 0)
	for i := range e.items {
		if needle != "" && !strings.Contains(e.lowerNames[i], needle) {
			continue
		}
		name := e.items[i].Name
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		titles = append(titles, name)
		if limit > 0 && len(titles) >= limit {
			break
		}
	}
	return titles
}

// Status returns the build-time description of the engine.
func (e *Engine) Status() Status {
	return e.status
}

// Ready reports whether the engine can serve queries.
func (e *Engine) Ready() bool {
	return e != nil && e.content != nil
}

// Metrics returns a snapshot of the query counters.
func (e *Engine) Metrics() Metrics {
	return Metrics{
		Requests:      e.requests.Load(),
		Collaborative: e.collaborative.Load(),
		Content:       e.contentHits.Load(),
		None:          e.none.Load(),
	}
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// collectCategories returns the sorted distinct genre tags, excluding
// UnknownType.
func collectCategories(items []Item) []string {
	set := make(map[string]struct{})
	for i := range items {
		for _, g := range items[i].Genres {
			if g == "" || g == UnknownType {
				continue
			}
			set[g] = struct{}{}
		}
	}
	categories := make([]string, 0, len(set))
	for g := range set {
		categories = append(categories, g)
	}
	sort.Strings(categories)
	return categories
}

// popularityOrder sorts catalog positions by members desc, ties by rating desc.
func popularityOrder(items []Item) []int {
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := &items[order[a]], &items[order[b]]
		if ia.Members != ib.Members {
			return ia.Members > ib.Members
		}
		return ia.Rating > ib.Rating
	})
	return order
}
