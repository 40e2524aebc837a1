// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package cache

import (
	"strconv"
	"sync"
	"testing"
	"time"
)

func TestLRUCache_BasicOperations(t *testing.T) {
	c := NewLRUCache[string](3, time.Minute)

	c.Add("a", "alpha")
	c.Add("b", "bravo")

	if v, found := c.Get("a"); !found || v != "alpha" {
		t.Errorf("Get(a) = (%q, %v), want (alpha, true)", v, found)
	}
	if _, found := c.Get("z"); found {
		t.Error("Get(z) found a missing key")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestLRUCache_Eviction(t *testing.T) {
	c := NewLRUCache[int](3, time.Minute)

	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)

	// Touch 'a' so 'b' becomes least recently used.
	c.Get("a")
	c.Add("d", 4)

	if _, found := c.Get("b"); found {
		t.Error("expected 'b' to be evicted")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, found := c.Get(key); !found {
			t.Errorf("expected %q to be present", key)
		}
	}
	if got := c.Stats().Evictions; got != 1 {
		t.Errorf("Evictions = %d, want 1", got)
	}
}

func TestLRUCache_TTLExpiration(t *testing.T) {
	c := NewLRUCache[int](10, 50*time.Millisecond)
	c.Add("a", 1)

	if _, found := c.Get("a"); !found {
		t.Error("expected to find 'a' immediately")
	}

	time.Sleep(60 * time.Millisecond)

	if _, found := c.Get("a"); found {
		t.Error("expected 'a' to have expired")
	}
}

func TestLRUCache_AddWithTTL(t *testing.T) {
	c := NewLRUCache[int](10, time.Hour)
	c.AddWithTTL("short", 1, 20*time.Millisecond)
	c.Add("long", 2)

	time.Sleep(30 * time.Millisecond)

	if removed := c.CleanupExpired(); removed != 1 {
		t.Errorf("CleanupExpired() = %d, want 1", removed)
	}
	if _, found := c.Get("long"); !found {
		t.Error("expected 'long' to survive cleanup")
	}
}

func TestLRUCache_RemoveAndClear(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)
	c.Add("a", 1)
	c.Add("b", 2)

	if !c.Remove("a") {
		t.Error("Remove(a) = false, want true")
	}
	if c.Remove("a") {
		t.Error("Remove(a) twice = true, want false")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
	c.Add("c", 3)
	if _, found := c.Get("c"); !found {
		t.Error("cache unusable after Clear")
	}
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := NewLRUCache[string](2, time.Minute)
	c.Add("a", "old")
	c.Add("a", "new")

	if v, _ := c.Get("a"); v != "new" {
		t.Errorf("Get(a) = %q, want new", v)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestLRUCache_Stats(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)
	c.Add("a", 1)
	c.Get("a")
	c.Get("a")
	c.Get("missing")

	stats := c.Stats()
	if stats.Hits != 2 || stats.Misses != 1 || stats.Size != 1 {
		t.Errorf("Stats() = %+v, want 2 hits, 1 miss, size 1", stats)
	}
}

func TestLRUCache_Defaults(t *testing.T) {
	c := NewLRUCache[int](0, 0)
	if c.capacity != 2048 {
		t.Errorf("capacity = %d, want 2048", c.capacity)
	}
	if c.ttl != 24*time.Hour {
		t.Errorf("ttl = %v, want 24h", c.ttl)
	}
}

func TestLRUCache_Concurrent(t *testing.T) {
	c := NewLRUCache[int](100, time.Minute)
	var wg sync.WaitGroup

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := strconv.Itoa((g*500 + i) % 150)
				c.Add(key, i)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 100 {
		t.Errorf("Len() = %d, exceeds capacity 100", c.Len())
	}
}

func BenchmarkLRUCache_Add(b *testing.B) {
	c := NewLRUCache[int](10000, time.Minute)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Add(strconv.Itoa(i%20000), i)
	}
}
