// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/aniora/internal/enrich"
	"github.com/tomtom215/aniora/internal/recommend"
)

func catalogItem(id int, name, genre string, rating float64, members int) recommend.Item {
	return recommend.Item{
		ID:       id,
		Name:     name,
		Genre:    genre,
		Genres:   recommend.ParseGenres(genre),
		Type:     "TV",
		Episodes: 24,
		Rating:   recommend.Rating(rating),
		Members:  members,
	}
}

// testEngine builds an engine where the Naruto titles and Bleach have
// ratings and the romance titles do not.
func testEngine(t *testing.T) *recommend.Engine {
	t.Helper()

	ds := &recommend.Dataset{
		Items: []recommend.Item{
			catalogItem(1, "Naruto", "Action, Adventure, Shounen", 7.8, 600000),
			catalogItem(2, "Naruto: Shippuden", "Action, Adventure, Shounen", 8.0, 500000),
			catalogItem(3, "Bleach", "Action, Shounen, Supernatural", 7.9, 450000),
			catalogItem(4, "Clannad", "Drama, Romance, Slice of Life", 8.3, 300000),
			catalogItem(5, "Toradora!", "Comedy, Romance, Slice of Life", 8.2, 350000),
		},
		Ratings: []recommend.RatingEvent{
			{UserID: 1, ItemID: 1, Rating: 9},
			{UserID: 1, ItemID: 2, Rating: 8},
			{UserID: 2, ItemID: 1, Rating: 7},
			{UserID: 2, ItemID: 3, Rating: 6},
			{UserID: 3, ItemID: 2, Rating: 9},
			{UserID: 3, ItemID: 3, Rating: 8},
		},
	}

	engine, err := recommend.NewEngine(context.Background(), ds, recommend.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return engine
}

// fakeEnricher returns one artwork per result and counts calls.
type fakeEnricher struct {
	calls atomic.Int64
}

func (f *fakeEnricher) Enrich(_ context.Context, results []recommend.Result) []enrich.Artwork {
	f.calls.Add(1)
	out := make([]enrich.Artwork, len(results))
	for i, r := range results {
		out[i] = enrich.Artwork{ImageURL: "https://img.test/" + r.Name, Title: r.Name, MalID: r.ID}
	}
	return out
}

type envelope struct {
	Status   string          `json:"status"`
	Data     json.RawMessage `json:"data"`
	Metadata struct {
		Timestamp   time.Time `json:"timestamp"`
		QueryTimeMS int64     `json:"query_time_ms"`
		RequestID   string    `json:"request_id"`
	} `json:"metadata"`
	Error *struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

type itemJSON struct {
	Name string `json:"name"`
	ID   *int   `json:"id"`
}

func newTestServer(t *testing.T, engine Recommender, opts HandlerOptions, mw *ChiMiddleware) http.Handler {
	t.Helper()
	if mw == nil {
		mw = NewChiMiddlewareFromSecurity([]string{"*"}, 1000, time.Minute, true)
	}
	return NewRouter(NewHandler(engine, opts), mw).SetupChi()
}

func get(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("GET %s: decode envelope: %v (body %q)", target, err, rec.Body.String())
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data: %v (data %s)", err, env.Data)
	}
}
