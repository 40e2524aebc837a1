// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/tomtom215/aniora/internal/recommend"
)

// ratingColumns holds the rating log column indices.
type ratingColumns struct {
	user, item, rating int
}

func parseRatingHeader(header []string) (ratingColumns, error) {
	cols := ratingColumns{user: -1, item: -1, rating: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, byteOrderMark))) {
		case "user_id", "user":
			cols.user = i
		case "anime_id", "item_id", "id":
			cols.item = i
		case "rating", "score":
			cols.rating = i
		}
	}
	if cols.user < 0 || cols.item < 0 || cols.rating < 0 {
		return cols, fmt.Errorf("rating log needs user_id, anime_id and rating columns, got %v", header)
	}
	return cols, nil
}

// readRatingsCSV streams at most maxRows raw rows from r. Rows that do not
// parse are counted in stats and skipped.
func readRatingsCSV(ctx context.Context, r io.Reader, maxRows int, stats *recommend.LoadStats) ([]recommend.RatingEvent, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read rating header: %w", err)
	}
	cols, err := parseRatingHeader(header)
	if err != nil {
		return nil, err
	}

	events := make([]recommend.RatingEvent, 0, 4096)
	for maxRows <= 0 || stats.RatingRows < maxRows {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read rating row %d: %w", stats.RatingRows+2, err)
		}
		stats.RatingRows++

		if stats.RatingRows%65536 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}

		ev, ok := parseRatingRecord(record, cols)
		if !ok {
			stats.MalformedRatings++
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func parseRatingRecord(record []string, cols ratingColumns) (recommend.RatingEvent, bool) {
	user, err := strconv.Atoi(field(record, cols.user))
	if err != nil {
		return recommend.RatingEvent{}, false
	}
	item, err := strconv.Atoi(field(record, cols.item))
	if err != nil {
		return recommend.RatingEvent{}, false
	}
	rating, err := strconv.ParseFloat(field(record, cols.rating), 64)
	if err != nil || math.IsNaN(rating) || math.IsInf(rating, 0) {
		return recommend.RatingEvent{}, false
	}
	if rating < 0 {
		// Truncation would turn -0.5 into a real zero rating.
		return recommend.RatingEvent{UserID: user, ItemID: item, Rating: -1}, true
	}
	return recommend.RatingEvent{UserID: user, ItemID: item, Rating: int(rating)}, true
}

// FilterRatings applies the retention rules in order: drop unrated events
// (rating < 0), drop events for items not in known (nil keeps all), then
// drop every event of users with minUserRatings or fewer remaining events.
// The activity count only sees events that survived the first two steps.
func FilterRatings(events []recommend.RatingEvent, known map[int]struct{}, minUserRatings int, stats *recommend.LoadStats) []recommend.RatingEvent {
	if stats == nil {
		stats = &recommend.LoadStats{}
	}

	kept := events[:0:0]
	perUser := make(map[int]int)
	for _, ev := range events {
		if ev.Rating < 0 {
			stats.DroppedUnrated++
			continue
		}
		if known != nil {
			if _, ok := known[ev.ItemID]; !ok {
				stats.DroppedUnknownItem++
				continue
			}
		}
		kept = append(kept, ev)
		perUser[ev.UserID]++
	}

	retained := make([]recommend.RatingEvent, 0, len(kept))
	users := make(map[int]struct{})
	for _, ev := range kept {
		if perUser[ev.UserID] <= minUserRatings {
			stats.DroppedInactive++
			continue
		}
		retained = append(retained, ev)
		users[ev.UserID] = struct{}{}
	}
	stats.RetainedUsers = len(users)

	return retained
}
