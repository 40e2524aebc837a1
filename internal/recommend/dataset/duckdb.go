// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	// DuckDB driver - reads the rating log through read_csv
	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/aniora/internal/recommend"
)

// readRatingsDuckDB reads the rating log with DuckDB. The header is
// resolved with the same aliases the CSV reader accepts. The row cap and
// the rating >= 0 predicate run inside the query; unrated rows are still
// counted so stats match the CSV reader.
func readRatingsDuckDB(ctx context.Context, path string, maxRows int, stats *recommend.LoadStats) ([]recommend.RatingEvent, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	defer db.Close() //nolint:errcheck // in-memory database, nothing to flush

	cols, err := resolveRatingColumns(ctx, db, path)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, ratingsQuery(path, cols, maxRows))
	if err != nil {
		return nil, fmt.Errorf("query rating log: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	events := make([]recommend.RatingEvent, 0, 4096)
	var rawRows, unrated, malformed int
	for rows.Next() {
		var ev recommend.RatingEvent
		if err := rows.Scan(&rawRows, &unrated, &malformed, &ev.UserID, &ev.ItemID, &ev.Rating); err != nil {
			return nil, fmt.Errorf("scan rating row: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rating rows: %w", err)
	}

	if len(events) == 0 {
		// Every row was filtered out; the counters still need one query.
		if err := db.QueryRowContext(ctx, countsQuery(path, cols, maxRows)).Scan(&rawRows, &unrated, &malformed); err != nil {
			return nil, fmt.Errorf("count rating rows: %w", err)
		}
	}

	stats.RatingRows += rawRows
	stats.DroppedUnrated += unrated
	stats.MalformedRatings += malformed
	return events, nil
}

// ratingColumnNames are the header names DuckDB assigned to the user, item
// and rating columns.
type ratingColumnNames struct {
	user, item, rating string
}

// resolveRatingColumns reads the header through an empty scan and maps it
// with parseRatingHeader, so both backends accept the same aliases.
func resolveRatingColumns(ctx context.Context, db *sql.DB, path string) (ratingColumnNames, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(
		"SELECT * FROM read_csv(%s, header = true, all_varchar = true) LIMIT 0", quoteLiteral(path)))
	if err != nil {
		return ratingColumnNames{}, fmt.Errorf("read rating header: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	names, err := rows.Columns()
	if err != nil {
		return ratingColumnNames{}, fmt.Errorf("read rating header: %w", err)
	}
	cols, err := parseRatingHeader(names)
	if err != nil {
		return ratingColumnNames{}, err
	}
	return ratingColumnNames{
		user:   names[cols.user],
		item:   names[cols.item],
		rating: names[cols.rating],
	}, nil
}

// cappedSource selects the first maxRows raw rows with typed columns.
// Values that do not cast become NULL and are counted as malformed. Any
// negative rating means unrated and maps to -1 before truncation.
func cappedSource(path string, cols ratingColumnNames, maxRows int) string {
	limit := ""
	if maxRows > 0 {
		limit = fmt.Sprintf(" LIMIT %d", maxRows)
	}
	return fmt.Sprintf(`parsed AS (
		SELECT
			TRY_CAST(%s AS INTEGER) AS user_id,
			TRY_CAST(%s AS INTEGER) AS anime_id,
			TRY_CAST(%s AS DOUBLE) AS score
		FROM read_csv(%s, header = true, all_varchar = true)%s
	), capped AS (
		SELECT
			user_id,
			anime_id,
			CASE
				WHEN score IS NULL OR isnan(score) OR isinf(score) THEN NULL
				WHEN score < 0 THEN -1
				ELSE TRY_CAST(TRUNC(score) AS INTEGER)
			END AS rating
		FROM parsed
	), counts AS (
		SELECT
			COUNT(*) AS raw_rows,
			COUNT(*) FILTER (WHERE rating < 0 AND user_id IS NOT NULL AND anime_id IS NOT NULL) AS unrated,
			COUNT(*) FILTER (WHERE user_id IS NULL OR anime_id IS NULL OR rating IS NULL) AS malformed
		FROM capped
	)`, quoteIdent(cols.user), quoteIdent(cols.item), quoteIdent(cols.rating), quoteLiteral(path), limit)
}

func ratingsQuery(path string, cols ratingColumnNames, maxRows int) string {
	return "WITH " + cappedSource(path, cols, maxRows) + `
	SELECT
		(SELECT raw_rows FROM counts),
		(SELECT unrated FROM counts),
		(SELECT malformed FROM counts),
		user_id, anime_id, rating
	FROM capped
	WHERE user_id IS NOT NULL
		AND anime_id IS NOT NULL
		AND rating >= 0`
}

func countsQuery(path string, cols ratingColumnNames, maxRows int) string {
	return "WITH " + cappedSource(path, cols, maxRows) + `
	SELECT raw_rows, unrated, malformed FROM counts`
}

// quoteLiteral renders s as a SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// quoteIdent renders s as a SQL identifier.
func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
