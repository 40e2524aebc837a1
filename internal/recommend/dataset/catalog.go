// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/tomtom215/aniora/internal/recommend"
)

// byteOrderMark is stripped from the first header cell.
const byteOrderMark = "\ufeff"

// Catalog column names. The id column accepts several aliases.
var (
	idColumns = []string{"anime_id", "id", "mal_id"}

	errMissingID   = errors.New("catalog has no id column (anime_id, id or mal_id)")
	errMissingName = errors.New("catalog has no name column")
)

// catalogColumns maps the columns the loader understands to their index.
// Optional columns are -1 when absent.
type catalogColumns struct {
	id, name, genre, kind, episodes, rating, members int
}

func parseHeader(header []string) (catalogColumns, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, byteOrderMark)))
		if _, exists := index[h]; !exists {
			index[h] = i
		}
	}
	lookup := func(names ...string) int {
		for _, n := range names {
			if i, ok := index[n]; ok {
				return i
			}
		}
		return -1
	}

	cols := catalogColumns{
		id:       lookup(idColumns...),
		name:     lookup("name"),
		genre:    lookup("genre", "genres"),
		kind:     lookup("type"),
		episodes: lookup("episodes"),
		rating:   lookup("rating", "score"),
		members:  lookup("members"),
	}
	if cols.id < 0 {
		return cols, errMissingID
	}
	if cols.name < 0 {
		return cols, errMissingName
	}
	return cols, nil
}

// LoadCatalog parses a catalog CSV. Missing required columns and malformed
// CSV are errors; rows with an unparsable id are skipped and duplicate ids
// keep their first occurrence.
func LoadCatalog(r io.Reader) ([]recommend.Item, error) {
	items, _, err := readCatalog(r)
	return items, err
}

func readCatalog(r io.Reader) ([]recommend.Item, recommend.LoadStats, error) {
	var stats recommend.LoadStats

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, stats, fmt.Errorf("catalog is empty")
		}
		return nil, stats, fmt.Errorf("read catalog header: %w", err)
	}
	cols, err := parseHeader(header)
	if err != nil {
		return nil, stats, err
	}

	items := make([]recommend.Item, 0, 1024)
	seen := make(map[int]struct{})
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read catalog row %d: %w", stats.CatalogRows+2, err)
		}
		stats.CatalogRows++

		id, err := strconv.Atoi(field(record, cols.id))
		if err != nil {
			stats.SkippedCatalogRows++
			continue
		}
		if _, dup := seen[id]; dup {
			stats.DuplicateIDs++
			continue
		}
		seen[id] = struct{}{}

		genre := field(record, cols.genre)
		kind := field(record, cols.kind)
		if kind == "" {
			kind = recommend.UnknownType
		}

		items = append(items, recommend.Item{
			ID:       id,
			Name:     field(record, cols.name),
			Genre:    genre,
			Genres:   recommend.ParseGenres(genre),
			Type:     kind,
			Episodes: parseEpisodes(field(record, cols.episodes)),
			Rating:   parseRating(field(record, cols.rating)),
			Members:  parseMembers(field(record, cols.members)),
		})
	}

	return items, stats, nil
}

// field returns the trimmed value at index i, or "" when absent.
func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseRating(s string) recommend.Rating {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return recommend.UnknownRating
	}
	return recommend.Rating(v)
}

func parseEpisodes(s string) recommend.Episodes {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return recommend.UnknownEpisodes
	}
	return recommend.Episodes(v)
}

func parseMembers(s string) int {
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil && v >= 0 && v < math.MaxInt32 {
		return int(v)
	}
	return 0
}
