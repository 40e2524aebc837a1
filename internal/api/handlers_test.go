// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package api

import (
	"net/http"
	"testing"

	"github.com/tomtom215/aniora/internal/enrich"
	"github.com/tomtom215/aniora/internal/recommend"
)

func TestRecommendations(t *testing.T) {
	engine := testEngine(t)
	enricher := &fakeEnricher{}
	srv := newTestServer(t, engine, HandlerOptions{Enricher: enricher}, nil)

	tests := []struct {
		name           string
		target         string
		wantStatus     int
		wantCode       string
		wantProvenance recommend.Provenance
		wantSeed       string
		wantArtwork    bool
	}{
		{name: "missing title", target: "/api/v1/recommendations", wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "blank title", target: "/api/v1/recommendations?title=%20%20", wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "k zero", target: "/api/v1/recommendations?title=naruto&k=0", wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "k too large", target: "/api/v1/recommendations?title=naruto&k=101", wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "k not a number", target: "/api/v1/recommendations?title=naruto&k=ten", wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "enrich not a bool", target: "/api/v1/recommendations?title=naruto&enrich=maybe", wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{
			name: "rated seed uses collaborative", target: "/api/v1/recommendations?title=naruto&k=2",
			wantStatus: http.StatusOK, wantProvenance: recommend.ProvenanceCollaborative, wantSeed: "Naruto", wantArtwork: true,
		},
		{
			name: "unrated seed falls back to content", target: "/api/v1/recommendations?title=CLANNAD&k=2",
			wantStatus: http.StatusOK, wantProvenance: recommend.ProvenanceContent, wantSeed: "Clannad", wantArtwork: true,
		},
		{
			name: "enrichment opt out", target: "/api/v1/recommendations?title=bleach&enrich=false",
			wantStatus: http.StatusOK, wantProvenance: recommend.ProvenanceCollaborative, wantSeed: "Bleach",
		},
		{
			name: "unknown title", target: "/api/v1/recommendations?title=evangelion",
			wantStatus: http.StatusOK, wantProvenance: recommend.ProvenanceNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := get(t, srv, tt.target)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}

			if tt.wantCode != "" {
				if env.Status != "error" || env.Error == nil {
					t.Fatalf("expected error envelope, got %+v", env)
				}
				if env.Error.Code != tt.wantCode {
					t.Errorf("error code = %q, want %q", env.Error.Code, tt.wantCode)
				}
				return
			}

			var data struct {
				Seed       *itemJSON            `json:"seed"`
				Provenance recommend.Provenance `json:"provenance"`
				Items      []itemJSON           `json:"items"`
				Artwork    []enrich.Artwork     `json:"artwork"`
			}
			decodeData(t, env, &data)

			if data.Provenance != tt.wantProvenance {
				t.Errorf("provenance = %q, want %q", data.Provenance, tt.wantProvenance)
			}
			if tt.wantSeed == "" {
				if data.Seed != nil {
					t.Errorf("seed = %+v, want null", data.Seed)
				}
				if len(data.Items) != 0 {
					t.Errorf("items = %d, want 0", len(data.Items))
				}
				return
			}
			if data.Seed == nil || data.Seed.Name != tt.wantSeed {
				t.Errorf("seed = %+v, want %q", data.Seed, tt.wantSeed)
			}
			if len(data.Items) == 0 {
				t.Fatal("expected items")
			}
			for _, item := range data.Items {
				if item.Name == tt.wantSeed {
					t.Errorf("seed %q returned as its own recommendation", item.Name)
				}
			}
			if tt.wantArtwork && len(data.Artwork) != len(data.Items) {
				t.Errorf("artwork = %d, want %d", len(data.Artwork), len(data.Items))
			}
			if !tt.wantArtwork && len(data.Artwork) != 0 {
				t.Errorf("artwork = %d, want none", len(data.Artwork))
			}
		})
	}
}

func TestCategories(t *testing.T) {
	srv := newTestServer(t, testEngine(t), HandlerOptions{}, nil)

	rec, env := get(t, srv, "/api/v1/categories")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var data struct {
		Categories []string `json:"categories"`
		Count      int      `json:"count"`
	}
	decodeData(t, env, &data)

	want := []string{"Action", "Adventure", "Comedy", "Drama", "Romance", "Shounen", "Slice of Life", "Supernatural"}
	if data.Count != len(want) || len(data.Categories) != len(want) {
		t.Fatalf("categories = %v, want %v", data.Categories, want)
	}
	for i := range want {
		if data.Categories[i] != want[i] {
			t.Errorf("categories[%d] = %q, want %q", i, data.Categories[i], want[i])
		}
	}
}

func TestCategory(t *testing.T) {
	srv := newTestServer(t, testEngine(t), HandlerOptions{Enricher: &fakeEnricher{}}, nil)

	t.Run("known category sorted by rating", func(t *testing.T) {
		rec, env := get(t, srv, "/api/v1/categories/romance?k=5")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var data struct {
			Category string           `json:"category"`
			Items    []itemJSON       `json:"items"`
			Artwork  []enrich.Artwork `json:"artwork"`
		}
		decodeData(t, env, &data)

		if len(data.Items) != 2 || data.Items[0].Name != "Clannad" || data.Items[1].Name != "Toradora!" {
			t.Errorf("items = %+v, want [Clannad Toradora!]", data.Items)
		}
		if len(data.Artwork) != 2 {
			t.Errorf("artwork = %d, want 2", len(data.Artwork))
		}
	})

	t.Run("unknown category suggests matches", func(t *testing.T) {
		rec, env := get(t, srv, "/api/v1/categories/Rom")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
		if env.Error == nil || env.Error.Code != ErrCodeNotFound {
			t.Fatalf("error = %+v, want NOT_FOUND", env.Error)
		}
		suggestions, ok := env.Error.Details["suggestions"].([]interface{})
		if !ok || len(suggestions) != 1 || suggestions[0] != "Romance" {
			t.Errorf("suggestions = %v, want [Romance]", env.Error.Details["suggestions"])
		}
	})

	t.Run("unknown category without matches", func(t *testing.T) {
		rec, env := get(t, srv, "/api/v1/categories/Mecha")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
		suggestions, ok := env.Error.Details["suggestions"].([]interface{})
		if !ok || len(suggestions) != 0 {
			t.Errorf("suggestions = %v, want empty list", env.Error.Details["suggestions"])
		}
	})
}

func TestTop(t *testing.T) {
	srv := newTestServer(t, testEngine(t), HandlerOptions{}, nil)

	rec, env := get(t, srv, "/api/v1/top?k=3")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var data struct {
		Items   []itemJSON       `json:"items"`
		Artwork []enrich.Artwork `json:"artwork"`
	}
	decodeData(t, env, &data)

	want := []string{"Naruto", "Naruto: Shippuden", "Bleach"}
	if len(data.Items) != len(want) {
		t.Fatalf("items = %+v, want %v", data.Items, want)
	}
	for i := range want {
		if data.Items[i].Name != want[i] {
			t.Errorf("items[%d] = %q, want %q", i, data.Items[i].Name, want[i])
		}
	}
	if data.Artwork != nil {
		t.Errorf("artwork = %v, want omitted without an enricher", data.Artwork)
	}
}

func TestTitles(t *testing.T) {
	srv := newTestServer(t, testEngine(t), HandlerOptions{}, nil)

	tests := []struct {
		name   string
		target string
		want   int
		status int
	}{
		{"substring match", "/api/v1/titles?q=naruto", 2, http.StatusOK},
		{"blank query lists catalog", "/api/v1/titles", 5, http.StatusOK},
		{"limit", "/api/v1/titles?limit=1", 1, http.StatusOK},
		{"limit out of range", "/api/v1/titles?limit=500", 0, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := get(t, srv, tt.target)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status != http.StatusOK {
				return
			}
			var data struct {
				Titles []string `json:"titles"`
				Count  int      `json:"count"`
			}
			decodeData(t, env, &data)
			if data.Count != tt.want || len(data.Titles) != tt.want {
				t.Errorf("titles = %v (count %d), want %d", data.Titles, data.Count, tt.want)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	t.Run("ready engine", func(t *testing.T) {
		srv := newTestServer(t, testEngine(t), HandlerOptions{Version: "test", BreakerState: func() string { return "closed" }}, nil)

		for _, target := range []string{"/api/v1/health", "/api/v1/health/live", "/api/v1/health/ready"} {
			rec, env := get(t, srv, target)
			if rec.Code != http.StatusOK {
				t.Errorf("GET %s status = %d, want 200", target, rec.Code)
			}
			var data struct {
				Status string `json:"status"`
				Ready  bool   `json:"ready"`
			}
			decodeData(t, env, &data)
			if !data.Ready {
				t.Errorf("GET %s ready = false", target)
			}
		}

		_, env := get(t, srv, "/api/v1/health")
		var data struct {
			Status  string `json:"status"`
			Version string `json:"version"`
		}
		decodeData(t, env, &data)
		if data.Status != "healthy" || data.Version != "test" {
			t.Errorf("health = %+v, want healthy/test", data)
		}
	})

	t.Run("engine not built", func(t *testing.T) {
		srv := newTestServer(t, nil, HandlerOptions{}, nil)

		if rec, _ := get(t, srv, "/api/v1/health/live"); rec.Code != http.StatusOK {
			t.Errorf("live status = %d, want 200", rec.Code)
		}
		rec, env := get(t, srv, "/api/v1/health/ready")
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("ready status = %d, want 503", rec.Code)
		}
		if env.Error == nil || env.Error.Code != ErrCodeServiceUnavailable {
			t.Errorf("error = %+v, want SERVICE_UNAVAILABLE", env.Error)
		}
		if rec, _ := get(t, srv, "/api/v1/recommendations?title=naruto"); rec.Code != http.StatusServiceUnavailable {
			t.Errorf("recommendations status = %d, want 503", rec.Code)
		}

		_, env = get(t, srv, "/api/v1/health")
		var data struct {
			Status string `json:"status"`
		}
		decodeData(t, env, &data)
		if data.Status != "degraded" {
			t.Errorf("health status = %q, want degraded", data.Status)
		}
	})

	t.Run("open breaker degrades health", func(t *testing.T) {
		srv := newTestServer(t, testEngine(t), HandlerOptions{BreakerState: func() string { return "open" }}, nil)
		_, env := get(t, srv, "/api/v1/health")
		var data struct {
			Status string `json:"status"`
		}
		decodeData(t, env, &data)
		if data.Status != "degraded" {
			t.Errorf("health status = %q, want degraded", data.Status)
		}
	})
}

func TestStatus(t *testing.T) {
	engine := testEngine(t)
	srv := newTestServer(t, engine, HandlerOptions{
		Enricher:     &fakeEnricher{},
		CacheBackend: "memory",
		BreakerState: func() string { return "closed" },
	}, nil)

	get(t, srv, "/api/v1/recommendations?title=naruto&enrich=false")

	rec, env := get(t, srv, "/api/v1/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var data struct {
		Engine   recommend.Status  `json:"engine"`
		Counters recommend.Metrics `json:"counters"`
		Enrichment struct {
			Enabled      bool   `json:"enabled"`
			CacheBackend string `json:"cache_backend"`
			Breaker      string `json:"breaker"`
		} `json:"enrichment"`
	}
	decodeData(t, env, &data)

	if data.Engine.Items != 5 || !data.Engine.CollaborativeAvailable {
		t.Errorf("engine = %+v, want 5 items with collaborative index", data.Engine)
	}
	if data.Counters.Requests != 1 || data.Counters.Collaborative != 1 {
		t.Errorf("counters = %+v, want one collaborative request", data.Counters)
	}
	if !data.Enrichment.Enabled || data.Enrichment.CacheBackend != "memory" || data.Enrichment.Breaker != "closed" {
		t.Errorf("enrichment = %+v", data.Enrichment)
	}
}
