// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrNotIndexed indicates the item has no row in the collaborative index.
	ErrNotIndexed = errors.New("item not indexed")

	// ErrNoMatch indicates a title query resolved to no catalog item.
	ErrNoMatch = errors.New("no matching title")
)

// LoadError reports a fatal problem reading a dataset source.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// BuildError reports that an index could not be constructed.
type BuildError struct {
	Index string
	Err   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build %s index: %v", e.Index, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
