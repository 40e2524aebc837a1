// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package algorithms

import (
	"context"
	"math"
	"sort"
	"strings"
	"unicode"
)

// ContentDocument is one catalog row as seen by the content index.
type ContentDocument struct {
	// Name is the display name used for the name -> row lookup.
	Name string

	// Text is the genre text the vocabulary is built from.
	Text string
}

// ContentIndex scores catalog rows by TF-IDF cosine similarity.
//
// Every document gets a row so that duplicate-named items remain valid
// recommendation targets; only the name lookup is de-duplicated, and the
// first occurrence of a name owns it.
//
// Weights follow the smoothed formulation
//
//	idf(t) = ln((1 + n) / (1 + df(t))) + 1
//
// with raw term counts and L2-normalized rows, so cosine is a plain dot
// product. Scoring is one row against all rows through an inverted index;
// the full similarity matrix is never materialized.
type ContentIndex struct {
	vocabulary map[string]int
	rows       [][]entry
	postings   [][]entry // term -> (row, weight)
	nameToRow  map[string]int
}

// NewContentIndex builds the index from documents in catalog order.
func NewContentIndex(ctx context.Context, docs []ContentDocument) (*ContentIndex, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyInput
	}

	idx := &ContentIndex{
		vocabulary: make(map[string]int),
		rows:       make([][]entry, len(docs)),
		nameToRow:  make(map[string]int, len(docs)),
	}

	counts := make([]map[int]int, len(docs))
	var docFreq []int

	for row, doc := range docs {
		if _, exists := idx.nameToRow[doc.Name]; !exists {
			idx.nameToRow[doc.Name] = row
		}

		tf := make(map[int]int)
		for _, token := range tokenize(doc.Text) {
			term, ok := idx.vocabulary[token]
			if !ok {
				term = len(idx.vocabulary)
				idx.vocabulary[token] = term
				docFreq = append(docFreq, 0)
			}
			if tf[term] == 0 {
				docFreq[term]++
			}
			tf[term]++
		}
		counts[row] = tf

		if row%1024 == 0 && ContextCancelled(ctx) {
			return nil, ctx.Err()
		}
	}

	n := float64(len(docs))
	idf := make([]float64, len(docFreq))
	for term, df := range docFreq {
		idf[term] = math.Log((1+n)/(1+float64(df))) + 1
	}

	idx.postings = make([][]entry, len(docFreq))
	for row, tf := range counts {
		vec := make([]entry, 0, len(tf))
		for term, count := range tf {
			vec = append(vec, entry{index: term, value: float64(count) * idf[term]})
		}
		sort.Slice(vec, func(a, b int) bool { return vec[a].index < vec[b].index })

		if norm := l2Norm(vec); norm > 0 {
			for i := range vec {
				vec[i].value /= norm
			}
		}
		idx.rows[row] = vec

		for _, e := range vec {
			idx.postings[e.index] = append(idx.postings[e.index], entry{index: row, value: e.value})
		}
	}

	return idx, nil
}

// Len returns the number of rows.
func (c *ContentIndex) Len() int {
	return len(c.rows)
}

// VocabularySize returns the number of distinct terms.
func (c *ContentIndex) VocabularySize() int {
	return len(c.vocabulary)
}

// RowForName returns the row owning name (exact, case-sensitive match).
func (c *ContentIndex) RowForName(name string) (int, bool) {
	row, ok := c.nameToRow[name]
	return row, ok
}

// Query returns up to topN rows most similar to seed, excluding seed.
// Rows are ordered by descending score; equal scores keep catalog order.
func (c *ContentIndex) Query(seed, topN int) []Match {
	if seed < 0 || seed >= len(c.rows) || topN <= 0 {
		return nil
	}

	scores := make([]float64, len(c.rows))
	for _, e := range c.rows[seed] {
		for _, p := range c.postings[e.index] {
			scores[p.index] += e.value * p.value
		}
	}

	matches := make([]Match, 0, len(c.rows)-1)
	for row, score := range scores {
		if row == seed {
			continue
		}
		matches = append(matches, Match{Row: row, Score: score})
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Score > matches[b].Score
	})

	if len(matches) > topN {
		matches = matches[:topN]
	}
	return matches
}

// tokenize lowercases text and returns tokens of two or more word
// characters, with English stop words removed.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})

	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) < 2 {
			continue
		}
		if _, stop := englishStopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
