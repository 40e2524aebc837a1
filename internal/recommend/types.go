// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package recommend

import (
	"strconv"
	"strings"
	"time"
)

// Sentinels for catalog fields that were absent or could not be parsed.
const (
	// UnknownRating marks an item with no usable mean rating.
	UnknownRating Rating = -1

	// UnknownEpisodes marks an item whose episode count is not known.
	UnknownEpisodes Episodes = -1

	// UnknownType is used when the catalog row carries no type.
	UnknownType = "Unknown"

	// GenreDelimiter separates tags in the catalog genre field.
	GenreDelimiter = ","
)

// Rating is a mean catalog rating in [0, 10] or UnknownRating.
type Rating float64

// Known reports whether the rating carries a real value.
func (r Rating) Known() bool {
	return r >= 0
}

// MarshalJSON encodes unknown ratings as "N/A".
func (r Rating) MarshalJSON() ([]byte, error) {
	if !r.Known() {
		return []byte(`"N/A"`), nil
	}
	return strconv.AppendFloat(nil, float64(r), 'f', -1, 64), nil
}

// String formats the rating with two decimals, or "N/A".
func (r Rating) String() string {
	if !r.Known() {
		return "N/A"
	}
	return strconv.FormatFloat(float64(r), 'f', 2, 64)
}

// Episodes is an episode count or UnknownEpisodes.
type Episodes int

// Known reports whether the episode count is known.
func (e Episodes) Known() bool {
	return e >= 0
}

// MarshalJSON encodes unknown counts as "?".
func (e Episodes) MarshalJSON() ([]byte, error) {
	if !e.Known() {
		return []byte(`"?"`), nil
	}
	return strconv.AppendInt(nil, int64(e), 10), nil
}

// String formats the episode count, or "?".
func (e Episodes) String() string {
	if !e.Known() {
		return "?"
	}
	return strconv.Itoa(int(e))
}

// Item is one catalog entry.
type Item struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Genre    string   `json:"genre"`
	Genres   []string `json:"genres"`
	Type     string   `json:"type"`
	Episodes Episodes `json:"episodes"`
	Rating   Rating   `json:"rating"`
	Members  int      `json:"members"`
}

// HasGenre reports whether the item carries tag (case-insensitive).
//
//nolint:gocritic // hugeParam: Item is read-only here
func (i Item) HasGenre(tag string) bool {
	for _, g := range i.Genres {
		if strings.EqualFold(g, tag) {
			return true
		}
	}
	return false
}

// ParseGenres splits a raw genre field into trimmed, non-empty tags.
func ParseGenres(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, GenreDelimiter)
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// RatingEvent is one user-item rating from the rating log.
// A Rating of -1 means watched but not rated.
type RatingEvent struct {
	UserID int
	ItemID int
	Rating int
}

// LoadStats describes what the loader kept and dropped.
type LoadStats struct {
	CatalogRows        int `json:"catalog_rows"`
	SkippedCatalogRows int `json:"skipped_catalog_rows"`
	DuplicateIDs       int `json:"duplicate_ids"`
	RatingRows         int `json:"rating_rows"`
	MalformedRatings   int `json:"malformed_ratings"`
	DroppedUnrated     int `json:"dropped_unrated"`
	DroppedUnknownItem int `json:"dropped_unknown_item"`
	DroppedInactive    int `json:"dropped_inactive"`
	RetainedUsers      int `json:"retained_users"`
}

// Dataset is the validated output of the loader.
type Dataset struct {
	Items   []Item
	Ratings []RatingEvent
	Stats   LoadStats
}

// Provenance tags which strategy produced a recommendation list.
type Provenance string

// Provenance values.
const (
	ProvenanceCollaborative Provenance = "collaborative"
	ProvenanceContent       Provenance = "content"
	ProvenanceNone          Provenance = "none"
)

// Result is the packaged view of an Item returned to callers.
type Result struct {
	Name     string   `json:"name"`
	Genre    string   `json:"genre"`
	Rating   Rating   `json:"rating"`
	Type     string   `json:"type"`
	Episodes Episodes `json:"episodes"`
	ID       *int     `json:"id"`
	Members  int      `json:"members"`
	Score    float64  `json:"score,omitempty"`
}

// NewResult packages an item.
//
//nolint:gocritic // hugeParam: Item is copied into the result anyway
func NewResult(item Item, score float64) Result {
	id := item.ID
	return Result{
		Name:     item.Name,
		Genre:    item.Genre,
		Rating:   item.Rating,
		Type:     item.Type,
		Episodes: item.Episodes,
		ID:       &id,
		Members:  item.Members,
		Score:    score,
	}
}

// Recommendation is the outcome of a hybrid title query.
type Recommendation struct {
	Seed       *Result    `json:"seed,omitempty"`
	Provenance Provenance `json:"provenance"`
	Results    []Result   `json:"items"`
}

// Status is a point-in-time description of a built engine.
type Status struct {
	Items                  int       `json:"items"`
	Ratings                int       `json:"ratings"`
	Users                  int       `json:"users"`
	Categories             int       `json:"categories"`
	CollaborativeAvailable bool      `json:"collaborative_available"`
	CollaborativeItems     int       `json:"collaborative_items"`
	ContentVocabulary      int       `json:"content_vocabulary"`
	BuiltAt                time.Time `json:"built_at"`
	BuildDurationMS        int64     `json:"build_duration_ms"`
	Load                   LoadStats `json:"load"`
}

// Metrics holds engine-level counters.
type Metrics struct {
	Requests      int64 `json:"requests"`
	Collaborative int64 `json:"collaborative"`
	Content       int64 `json:"content"`
	None          int64 `json:"none"`
}
