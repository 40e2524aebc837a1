// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package enrich

import (
	"context"
	"time"

	"github.com/tomtom215/aniora/internal/cache"
	"github.com/tomtom215/aniora/internal/metrics"
)

// MemoryCache keeps artwork in a bounded in-process LRU.
type MemoryCache struct {
	lru *cache.LRUCache[Artwork]
}

// NewMemoryCache creates an LRU-backed artwork cache.
func NewMemoryCache(capacity int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{lru: cache.NewLRUCache[Artwork](capacity, ttl)}
}

// Get implements Cache.
func (m *MemoryCache) Get(_ context.Context, key string) (Artwork, bool) {
	art, ok := m.lru.Get(key)
	metrics.RecordCacheAccess("memory", ok)
	return art, ok
}

// Set implements Cache.
//
//nolint:gocritic // hugeParam: matches the Cache interface
func (m *MemoryCache) Set(_ context.Context, key string, art Artwork) {
	m.lru.Add(key, art)
	metrics.CacheSize.WithLabelValues("memory").Set(float64(m.lru.Len()))
}

// Cleanup drops expired entries and returns how many were removed.
func (m *MemoryCache) Cleanup() int {
	removed := m.lru.CleanupExpired()
	metrics.CacheSize.WithLabelValues("memory").Set(float64(m.lru.Len()))
	return removed
}

// RunGC sweeps expired entries and reports whether any were removed.
func (m *MemoryCache) RunGC() (bool, error) {
	return m.Cleanup() > 0, nil
}

var _ Cache = (*MemoryCache)(nil)
