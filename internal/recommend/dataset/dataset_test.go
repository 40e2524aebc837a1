// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/aniora/internal/recommend"
)

const testCatalog = `anime_id,name,genre,type,episodes,rating,members
32281,Kimi no Na wa.,"Drama, Romance, School, Supernatural",Movie,1,9.37,200630
5114,Fullmetal Alchemist: Brotherhood,"Action, Adventure, Drama, Fantasy, Magic, Military, Shounen",TV,64,9.26,793665
20,Naruto,"Action, Comedy, Martial Arts, Shounen, Super Power",TV,220,7.81,683297
not-a-number,Broken Row,Action,TV,1,5.0,10
20,Naruto (duplicate id),Action,TV,1,5.0,10
30484,Steins;Gate 0,"Sci-Fi, Thriller",,Unknown,,
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadCatalog(t *testing.T) {
	items, stats, err := readCatalog(strings.NewReader(testCatalog))
	if err != nil {
		t.Fatalf("readCatalog() error = %v", err)
	}

	if len(items) != 4 {
		t.Fatalf("len(items) = %d, want 4", len(items))
	}
	if stats.CatalogRows != 6 {
		t.Errorf("CatalogRows = %d, want 6", stats.CatalogRows)
	}
	if stats.SkippedCatalogRows != 1 {
		t.Errorf("SkippedCatalogRows = %d, want 1", stats.SkippedCatalogRows)
	}
	if stats.DuplicateIDs != 1 {
		t.Errorf("DuplicateIDs = %d, want 1", stats.DuplicateIDs)
	}

	naruto := items[2]
	if naruto.Name != "Naruto" || naruto.Episodes != 220 || naruto.Members != 683297 {
		t.Errorf("naruto = %+v", naruto)
	}
	if !reflect.DeepEqual(naruto.Genres, []string{"Action", "Comedy", "Martial Arts", "Shounen", "Super Power"}) {
		t.Errorf("naruto genres = %v", naruto.Genres)
	}

	sparse := items[3]
	if sparse.Type != recommend.UnknownType {
		t.Errorf("Type = %q, want %q", sparse.Type, recommend.UnknownType)
	}
	if sparse.Episodes != recommend.UnknownEpisodes {
		t.Errorf("Episodes = %d, want unknown", sparse.Episodes)
	}
	if sparse.Rating != recommend.UnknownRating {
		t.Errorf("Rating = %v, want unknown", sparse.Rating)
	}
	if sparse.Members != 0 {
		t.Errorf("Members = %d, want 0", sparse.Members)
	}
}

func TestLoadCatalog_Columns(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantErr error
		check   func(t *testing.T, items []recommend.Item)
	}{
		{
			name:    "missing id column",
			csv:     "name,genre\nNaruto,Action\n",
			wantErr: errMissingID,
		},
		{
			name:    "missing name column",
			csv:     "anime_id,genre\n1,Action\n",
			wantErr: errMissingName,
		},
		{
			name: "id alias and case-insensitive header",
			csv:  "\ufeffMAL_ID,Name\n7,Monster\n",
			check: func(t *testing.T, items []recommend.Item) {
				if len(items) != 1 || items[0].ID != 7 || items[0].Name != "Monster" {
					t.Errorf("items = %+v", items)
				}
			},
		},
		{
			name: "genre absent defaults to empty",
			csv:  "anime_id,name\n1,Mushishi\n",
			check: func(t *testing.T, items []recommend.Item) {
				if items[0].Genre != "" || items[0].Genres != nil {
					t.Errorf("genre = %q %v, want empty", items[0].Genre, items[0].Genres)
				}
				if items[0].Rating != recommend.UnknownRating {
					t.Errorf("rating = %v, want unknown", items[0].Rating)
				}
			},
		},
		{
			name: "short rows",
			csv:  "anime_id,name,genre,rating\n1,Short\n",
			check: func(t *testing.T, items []recommend.Item) {
				if len(items) != 1 || items[0].Genre != "" {
					t.Errorf("items = %+v", items)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := LoadCatalog(strings.NewReader(tt.csv))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadCatalog() error = %v", err)
			}
			tt.check(t, items)
		})
	}

	t.Run("malformed csv", func(t *testing.T) {
		_, err := LoadCatalog(strings.NewReader("anime_id,name\n1,\"unterminated\n"))
		if err == nil {
			t.Error("expected error for malformed CSV")
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if _, err := LoadCatalog(strings.NewReader("")); err == nil {
			t.Error("expected error for empty catalog")
		}
	})
}

func TestParseNumbers(t *testing.T) {
	if got := parseRating("8.5"); got != 8.5 {
		t.Errorf("parseRating(8.5) = %v", got)
	}
	for _, in := range []string{"", "N/A", "NaN", "-3"} {
		if got := parseRating(in); got != recommend.UnknownRating {
			t.Errorf("parseRating(%q) = %v, want unknown", in, got)
		}
	}
	if got := parseEpisodes("Unknown"); got != recommend.UnknownEpisodes {
		t.Errorf("parseEpisodes(Unknown) = %v", got)
	}
	if got := parseMembers("1500.0"); got != 1500 {
		t.Errorf("parseMembers(1500.0) = %d, want 1500", got)
	}
	if got := parseMembers("lots"); got != 0 {
		t.Errorf("parseMembers(lots) = %d, want 0", got)
	}
}

// activityEvents builds valid ratings for user against items 1..n.
func activityEvents(user, n int) []recommend.RatingEvent {
	events := make([]recommend.RatingEvent, 0, n)
	for i := 1; i <= n; i++ {
		events = append(events, recommend.RatingEvent{UserID: user, ItemID: i, Rating: 8})
	}
	return events
}

func TestFilterRatings(t *testing.T) {
	t.Run("unrated events are dropped before the activity count", func(t *testing.T) {
		events := activityEvents(1, 51)
		events = append(events,
			recommend.RatingEvent{UserID: 1, ItemID: 1, Rating: -1},
			recommend.RatingEvent{UserID: 1, ItemID: 2, Rating: 3},
			recommend.RatingEvent{UserID: 1, ItemID: 3, Rating: 7},
		)
		// 50 valid plus one unrated stays at 50 and is excluded.
		events = append(events, activityEvents(2, 50)...)
		events = append(events, recommend.RatingEvent{UserID: 2, ItemID: 9, Rating: -1})

		var stats recommend.LoadStats
		got := FilterRatings(events, nil, 50, &stats)

		if len(got) != 53 {
			t.Errorf("retained = %d, want 53", len(got))
		}
		for _, ev := range got {
			if ev.Rating < 0 {
				t.Error("unrated event retained")
			}
			if ev.UserID != 1 {
				t.Errorf("user %d retained, want only user 1", ev.UserID)
			}
		}
		if stats.DroppedUnrated != 2 {
			t.Errorf("DroppedUnrated = %d, want 2", stats.DroppedUnrated)
		}
		if stats.DroppedInactive != 50 {
			t.Errorf("DroppedInactive = %d, want 50", stats.DroppedInactive)
		}
		if stats.RetainedUsers != 1 {
			t.Errorf("RetainedUsers = %d, want 1", stats.RetainedUsers)
		}
	})

	t.Run("threshold is strict", func(t *testing.T) {
		got := FilterRatings(activityEvents(7, 50), nil, 50, nil)
		if len(got) != 0 {
			t.Errorf("user with exactly 50 ratings retained %d events", len(got))
		}
		got = FilterRatings(activityEvents(7, 51), nil, 50, nil)
		if len(got) != 51 {
			t.Errorf("user with 51 ratings retained %d events, want 51", len(got))
		}
	})

	t.Run("unknown items are dropped", func(t *testing.T) {
		known := map[int]struct{}{1: {}, 2: {}}
		var stats recommend.LoadStats
		got := FilterRatings(activityEvents(3, 4), known, 0, &stats)
		if len(got) != 2 {
			t.Errorf("retained = %d, want 2", len(got))
		}
		if stats.DroppedUnknownItem != 2 {
			t.Errorf("DroppedUnknownItem = %d, want 2", stats.DroppedUnknownItem)
		}
	})

	t.Run("input is not mutated", func(t *testing.T) {
		events := []recommend.RatingEvent{
			{UserID: 1, ItemID: 1, Rating: -1},
			{UserID: 1, ItemID: 2, Rating: 5},
		}
		FilterRatings(events, nil, 0, nil)
		if events[0].Rating != -1 || events[1].ItemID != 2 {
			t.Errorf("input mutated: %+v", events)
		}
	})
}

func TestReadRatingsCSV_NegativeFractions(t *testing.T) {
	log := "user_id,anime_id,rating\n" +
		"1,1,-0.5\n" +
		"1,2,-1\n" +
		"1,3,0\n" +
		"1,4,7.9\n"

	var stats recommend.LoadStats
	events, err := readRatingsCSV(context.Background(), strings.NewReader(log), 0, &stats)
	if err != nil {
		t.Fatalf("readRatingsCSV() error = %v", err)
	}
	want := []recommend.RatingEvent{
		{UserID: 1, ItemID: 1, Rating: -1},
		{UserID: 1, ItemID: 2, Rating: -1},
		{UserID: 1, ItemID: 3, Rating: 0},
		{UserID: 1, ItemID: 4, Rating: 7},
	}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("events = %+v, want %+v", events, want)
	}

	kept := FilterRatings(events, nil, 0, &stats)
	if len(kept) != 2 {
		t.Errorf("len(kept) = %d, want 2 (zero and 7)", len(kept))
	}
	if stats.DroppedUnrated != 2 {
		t.Errorf("DroppedUnrated = %d, want 2", stats.DroppedUnrated)
	}
}

func ratingLog(rows []recommend.RatingEvent) string {
	var b strings.Builder
	b.WriteString("user_id,anime_id,rating\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%d,%d,%d\n", r.UserID, r.ItemID, r.Rating)
	}
	return b.String()
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	t.Run("catalog fallback and missing ratings", func(t *testing.T) {
		dir := t.TempDir()
		fallback := writeFile(t, dir, "anime.csv", testCatalog)

		cfg := DefaultConfig()
		cfg.CatalogPath = filepath.Join(dir, "data", "anime.csv")
		cfg.CatalogFallbacks = []string{fallback}
		cfg.RatingsPath = filepath.Join(dir, "rating.csv")

		ds, err := Load(ctx, cfg, logger)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(ds.Items) != 4 {
			t.Errorf("len(Items) = %d, want 4", len(ds.Items))
		}
		if len(ds.Ratings) != 0 {
			t.Errorf("len(Ratings) = %d, want 0", len(ds.Ratings))
		}
	})

	t.Run("missing catalog is a load error", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.CatalogPath = filepath.Join(t.TempDir(), "nope.csv")
		cfg.CatalogFallbacks = nil

		_, err := Load(ctx, cfg, logger)
		var loadErr *recommend.LoadError
		if !errors.As(err, &loadErr) {
			t.Fatalf("error = %v, want *recommend.LoadError", err)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("error should wrap fs.ErrNotExist, got %v", err)
		}
	})

	t.Run("catalog without name column is a load error", func(t *testing.T) {
		dir := t.TempDir()
		cfg := DefaultConfig()
		cfg.CatalogPath = writeFile(t, dir, "anime.csv", "anime_id,genre\n1,Action\n")
		cfg.RatingsPath = ""

		_, err := Load(ctx, cfg, logger)
		var loadErr *recommend.LoadError
		if !errors.As(err, &loadErr) || !errors.Is(err, errMissingName) {
			t.Errorf("error = %v, want LoadError wrapping errMissingName", err)
		}
	})

	t.Run("ratings filtered against catalog and capped", func(t *testing.T) {
		dir := t.TempDir()
		cfg := DefaultConfig()
		cfg.CatalogPath = writeFile(t, dir, "anime.csv", testCatalog)
		cfg.MinUserRatings = 1

		events := []recommend.RatingEvent{
			{UserID: 1, ItemID: 20, Rating: 8},
			{UserID: 1, ItemID: 5114, Rating: 10},
			{UserID: 1, ItemID: 999999, Rating: 9},
			{UserID: 2, ItemID: 20, Rating: -1},
			{UserID: 2, ItemID: 32281, Rating: 7},
			{UserID: 3, ItemID: 20, Rating: 6},
			{UserID: 3, ItemID: 5114, Rating: 6},
		}
		cfg.RatingsPath = writeFile(t, dir, "rating.csv", ratingLog(events)+"x,y,z\n")
		cfg.MaxRatingRows = 5

		ds, err := Load(ctx, cfg, logger)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if ds.Stats.RatingRows != 5 {
			t.Errorf("RatingRows = %d, want 5", ds.Stats.RatingRows)
		}
		if ds.Stats.DroppedUnknownItem != 1 {
			t.Errorf("DroppedUnknownItem = %d, want 1", ds.Stats.DroppedUnknownItem)
		}
		// User 1 keeps two events, user 2 is left with one and is inactive.
		if len(ds.Ratings) != 2 {
			t.Errorf("len(Ratings) = %d, want 2: %+v", len(ds.Ratings), ds.Ratings)
		}
	})

	t.Run("unreadable rating log degrades to no ratings", func(t *testing.T) {
		dir := t.TempDir()
		cfg := DefaultConfig()
		cfg.CatalogPath = writeFile(t, dir, "anime.csv", testCatalog)
		cfg.RatingsPath = writeFile(t, dir, "rating.csv", "who,what\n1,2\n")

		ds, err := Load(ctx, cfg, logger)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if len(ds.Ratings) != 0 {
			t.Errorf("len(Ratings) = %d, want 0", len(ds.Ratings))
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.RatingsBackend = "parquet"
		if _, err := Load(ctx, cfg, logger); err == nil {
			t.Error("expected error for invalid backend")
		}
	})
}

func TestLoad_DuckDBMatchesCSV(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping DuckDB backend test in short mode")
	}

	events := activityEvents(1, 3)
	events = append(events, activityEvents(2, 2)...)
	events = append(events,
		recommend.RatingEvent{UserID: 1, ItemID: 20, Rating: -1},
		recommend.RatingEvent{UserID: 3, ItemID: 20, Rating: 4},
	)
	items := "anime_id,name\n1,One\n2,Two\n3,Three\n20,Twenty\n"

	tests := []struct {
		name           string
		log            string
		maxRows        int
		minUserRatings int
		wantRatings    int
	}{
		{
			name:           "canonical header with row cap",
			log:            ratingLog(events),
			maxRows:        7,
			minUserRatings: 1,
			wantRatings:    5,
		},
		{
			name: "aliased header and fractional ratings",
			log: "user,item_id,score\n" +
				"1,1,8.7\n" +
				"1,2,-0.5\n" +
				"1,3,x\n" +
				"2,1,7\n" +
				"2,20,10.0\n" +
				"3,2,-1\n",
			wantRatings: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			base := DefaultConfig()
			base.CatalogPath = writeFile(t, dir, "anime.csv", items)
			base.RatingsPath = writeFile(t, dir, "rating.csv", tt.log)
			base.MinUserRatings = tt.minUserRatings
			base.MaxRatingRows = tt.maxRows

			csvCfg := base
			csvCfg.RatingsBackend = BackendCSV
			duckCfg := base
			duckCfg.RatingsBackend = BackendDuckDB

			fromCSV, err := Load(context.Background(), csvCfg, zerolog.Nop())
			if err != nil {
				t.Fatalf("csv Load() error = %v", err)
			}
			fromDuck, err := Load(context.Background(), duckCfg, zerolog.Nop())
			if err != nil {
				t.Fatalf("duckdb Load() error = %v", err)
			}

			if len(fromCSV.Ratings) != tt.wantRatings {
				t.Errorf("csv len(Ratings) = %d, want %d: %+v", len(fromCSV.Ratings), tt.wantRatings, fromCSV.Ratings)
			}
			sortEvents(fromCSV.Ratings)
			sortEvents(fromDuck.Ratings)
			if !reflect.DeepEqual(fromCSV.Ratings, fromDuck.Ratings) {
				t.Errorf("ratings differ:\ncsv:    %+v\nduckdb: %+v", fromCSV.Ratings, fromDuck.Ratings)
			}
			if fromCSV.Stats != fromDuck.Stats {
				t.Errorf("stats differ:\ncsv:    %+v\nduckdb: %+v", fromCSV.Stats, fromDuck.Stats)
			}
		})
	}
}

func sortEvents(events []recommend.RatingEvent) {
	sort.Slice(events, func(a, b int) bool {
		if events[a].UserID != events[b].UserID {
			return events[a].UserID < events[b].UserID
		}
		return events[a].ItemID < events[b].ItemID
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "defaults", modify: func(*Config) {}},
		{name: "duckdb backend", modify: func(c *Config) { c.RatingsBackend = BackendDuckDB }},
		{name: "no catalog", modify: func(c *Config) { c.CatalogPath = ""; c.CatalogFallbacks = nil }, wantErr: true},
		{name: "negative cap", modify: func(c *Config) { c.MaxRatingRows = -1 }, wantErr: true},
		{name: "negative threshold", modify: func(c *Config) { c.MinUserRatings = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestQuoteLiteral(t *testing.T) {
	if got := quoteLiteral("it's.csv"); got != "'it''s.csv'" {
		t.Errorf("quoteLiteral() = %s", got)
	}
	if got := quoteIdent(`user "id"`); got != `"user ""id"""` {
		t.Errorf("quoteIdent() = %s", got)
	}
}
