// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package algorithms

import (
	"context"
	"sort"
)

// Rating is one retained user-item rating fed into the collaborative index.
type Rating struct {
	UserID int
	ItemID int
	Value  float64
}

// KNNConfig contains configuration for the collaborative index.
type KNNConfig struct {
	// NumWorkers parallelizes the row norm precompute.
	// Zero uses runtime.NumCPU().
	NumWorkers int
}

// DefaultKNNConfig returns default KNN configuration.
func DefaultKNNConfig() KNNConfig {
	return KNNConfig{NumWorkers: 0}
}

// ItemKNN is an exact cosine nearest-neighbor index over item rows of a
// sparse item x user rating matrix.
//
// Rows are stored CSR-style (ascending item id, ascending user column) and
// mirrored column-wise so that one query touches only the users who rated
// the seed. Only items with at least one rating get a row.
type ItemKNN struct {
	config KNNConfig

	itemIDs []int       // row -> item id
	rowOf   map[int]int // item id -> row
	userIDs []int       // column -> user id
	colOf   map[int]int // user id -> column

	rowPtr  []int
	rowCols []int
	rowVals []float64

	colPtr  []int
	colRows []int
	colVals []float64

	norms []float64
}

// NewItemKNN builds the index. Duplicate (user, item) pairs are averaged.
func NewItemKNN(ctx context.Context, ratings []Rating, cfg KNNConfig) (*ItemKNN, error) {
	if len(ratings) == 0 {
		return nil, ErrEmptyInput
	}

	type cell struct {
		row, col int
	}
	sums := make(map[cell]float64, len(ratings))
	counts := make(map[cell]int, len(ratings))

	itemSet := make(map[int]struct{})
	userSet := make(map[int]struct{})
	for _, r := range ratings {
		itemSet[r.ItemID] = struct{}{}
		userSet[r.UserID] = struct{}{}
	}

	k := &ItemKNN{
		config:  cfg,
		itemIDs: sortedKeys(itemSet),
		userIDs: sortedKeys(userSet),
	}
	k.rowOf = indexOf(k.itemIDs)
	k.colOf = indexOf(k.userIDs)

	for _, r := range ratings {
		c := cell{row: k.rowOf[r.ItemID], col: k.colOf[r.UserID]}
		sums[c] += r.Value
		counts[c]++
	}

	if ContextCancelled(ctx) {
		return nil, ctx.Err()
	}

	cells := make([]cell, 0, len(sums))
	for c := range sums {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(a, b int) bool {
		if cells[a].row != cells[b].row {
			return cells[a].row < cells[b].row
		}
		return cells[a].col < cells[b].col
	})

	nRows, nCols := len(k.itemIDs), len(k.userIDs)
	k.rowPtr = make([]int, nRows+1)
	k.rowCols = make([]int, len(cells))
	k.rowVals = make([]float64, len(cells))
	colCounts := make([]int, nCols)

	for i, c := range cells {
		k.rowPtr[c.row+1]++
		k.rowCols[i] = c.col
		k.rowVals[i] = sums[c] / float64(counts[c])
		colCounts[c.col]++
	}
	for r := 0; r < nRows; r++ {
		k.rowPtr[r+1] += k.rowPtr[r]
	}

	// Transpose into column-major storage; rows stay ascending per column.
	k.colPtr = make([]int, nCols+1)
	for col, n := range colCounts {
		k.colPtr[col+1] = k.colPtr[col] + n
	}
	next := make([]int, nCols)
	copy(next, k.colPtr[:nCols])
	k.colRows = make([]int, len(cells))
	k.colVals = make([]float64, len(cells))
	for row := 0; row < nRows; row++ {
		for i := k.rowPtr[row]; i < k.rowPtr[row+1]; i++ {
			col := k.rowCols[i]
			k.colRows[next[col]] = row
			k.colVals[next[col]] = k.rowVals[i]
			next[col]++
		}
	}

	k.norms = make([]float64, nRows)
	parallelChunks(nRows, cfg.NumWorkers, func(start, end int) {
		for row := start; row < end; row++ {
			k.norms[row] = l2Norm(k.row(row))
		}
	})

	if ContextCancelled(ctx) {
		return nil, ctx.Err()
	}

	return k, nil
}

// row returns the sparse row as entries over user columns.
func (k *ItemKNN) row(r int) []entry {
	start, end := k.rowPtr[r], k.rowPtr[r+1]
	out := make([]entry, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, entry{index: k.rowCols[i], value: k.rowVals[i]})
	}
	return out
}

// Items returns the number of indexed items.
func (k *ItemKNN) Items() int {
	return len(k.itemIDs)
}

// Users returns the number of user columns.
func (k *ItemKNN) Users() int {
	return len(k.userIDs)
}

// Contains reports whether itemID has a row.
func (k *ItemKNN) Contains(itemID int) bool {
	_, ok := k.rowOf[itemID]
	return ok
}

// Neighbors returns the topN items closest to itemID by cosine distance.
// The search asks for topN+1 candidates and drops the seed's own match.
// Equal distances keep ascending item id order.
func (k *ItemKNN) Neighbors(itemID, topN int) ([]Neighbor, error) {
	seed, ok := k.rowOf[itemID]
	if !ok {
		return nil, ErrNotIndexed
	}
	if topN <= 0 {
		return nil, nil
	}

	dots := make([]float64, len(k.itemIDs))
	for i := k.rowPtr[seed]; i < k.rowPtr[seed+1]; i++ {
		col, v := k.rowCols[i], k.rowVals[i]
		for j := k.colPtr[col]; j < k.colPtr[col+1]; j++ {
			dots[k.colRows[j]] += v * k.colVals[j]
		}
	}

	candidates := make([]Neighbor, len(k.itemIDs))
	rows := make([]int, len(k.itemIDs))
	for row := range candidates {
		rows[row] = row
		candidates[row] = Neighbor{
			ItemID:   k.itemIDs[row],
			Distance: 1 - cosineFromDot(dots[row], k.norms[seed], k.norms[row]),
		}
	}
	// The seed is its own exact match even when its norm is zero.
	candidates[seed].Distance = 0

	sort.SliceStable(rows, func(a, b int) bool {
		return candidates[rows[a]].Distance < candidates[rows[b]].Distance
	})

	want := topN + 1
	if want > len(rows) {
		want = len(rows)
	}

	neighbors := make([]Neighbor, 0, topN)
	for _, row := range rows[:want] {
		if row == seed {
			continue
		}
		neighbors = append(neighbors, candidates[row])
	}
	if len(neighbors) > topN {
		neighbors = neighbors[:topN]
	}
	return neighbors, nil
}

func sortedKeys(set map[int]struct{}) []int {
	keys := make([]int, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Ints(keys)
	return keys
}

func indexOf(ids []int) map[int]int {
	index := make(map[int]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	return index
}
