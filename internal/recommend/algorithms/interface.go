// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package algorithms

import (
	"context"
	"errors"
	"math"
	"runtime"
	"sync"
)

var (
	// ErrNotIndexed indicates the requested item has no row in the index.
	ErrNotIndexed = errors.New("item not indexed")

	// ErrEmptyInput indicates an index was built from no data.
	ErrEmptyInput = errors.New("no input data")
)

// Match is a content-index row with its cosine similarity to the seed.
type Match struct {
	Row   int
	Score float64
}

// Neighbor is a collaborative-index item with its cosine distance to the seed.
type Neighbor struct {
	ItemID   int
	Distance float64
}

// Similarity converts the cosine distance back to a similarity.
func (n Neighbor) Similarity() float64 {
	return 1 - n.Distance
}

// entry is one non-zero cell of a sparse row.
type entry struct {
	index int
	value float64
}

// l2Norm computes the Euclidean norm of a sparse row.
func l2Norm(row []entry) float64 {
	var sum float64
	for _, e := range row {
		sum += e.value * e.value
	}
	return math.Sqrt(sum)
}

// cosineFromDot converts a dot product into a cosine, treating zero vectors as orthogonal.
func cosineFromDot(dot, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	cos := dot / (normA * normB)
	// Clamp floating-point drift.
	if cos > 1 {
		return 1
	}
	if cos < -1 {
		return -1
	}
	return cos
}

// parallelChunks runs fn over [0, n) split into contiguous chunks.
func parallelChunks(n, workers int, fn func(start, end int)) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(start, end)
	}
	wg.Wait()
}

// ContextCancelled checks if the context has been canceled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
