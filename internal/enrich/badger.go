// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package enrich

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/aniora/internal/metrics"
)

// Key prefix for artwork entries in BadgerDB.
const badgerArtworkKeyPrefix = "artwork:"

// BadgerCache persists artwork across restarts. Entries carry a Badger TTL
// so expiry needs no sweep; value log space is reclaimed by RunGC.
type BadgerCache struct {
	db     *badger.DB
	ttl    time.Duration
	logger zerolog.Logger
}

// OpenBadgerCache opens (or creates) a cache directory at path.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func OpenBadgerCache(path string, ttl time.Duration, logger zerolog.Logger) (*BadgerCache, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Suppress BadgerDB internal logs
	// Artwork records are tiny
	opts.ValueLogFileSize = 16 << 20

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for artwork cache: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultConfig().CacheTTL
	}
	return &BadgerCache{
		db:     db,
		ttl:    ttl,
		logger: logger.With().Str("component", "artwork-cache").Logger(),
	}, nil
}

// Get implements Cache.
func (b *BadgerCache) Get(_ context.Context, key string) (Artwork, bool) {
	var art Artwork
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerArtworkKeyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &art)
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			b.logger.Warn().Err(err).Str("key", key).Msg("artwork cache read failed")
		}
		metrics.RecordCacheAccess("badger", false)
		return Artwork{}, false
	}
	metrics.RecordCacheAccess("badger", true)
	return art, true
}

// Set implements Cache. Write failures are logged, never returned.
//
//nolint:gocritic // hugeParam: matches the Cache interface
func (b *BadgerCache) Set(_ context.Context, key string, art Artwork) {
	data, err := json.Marshal(art)
	if err != nil {
		b.logger.Warn().Err(err).Str("key", key).Msg("marshal artwork")
		return
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(badgerArtworkKeyPrefix+key), data).WithTTL(b.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		b.logger.Warn().Err(err).Str("key", key).Msg("artwork cache write failed")
	}
}

// Len counts live entries.
func (b *BadgerCache) Len() int {
	count := 0
	//nolint:errcheck // iteration cannot fail without a callback error
	b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(badgerArtworkKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count
}

// RunGC reclaims value log space. It keeps collecting while Badger finds
// files worth rewriting and reports whether anything was rewritten.
func (b *BadgerCache) RunGC() (bool, error) {
	rewritten := false
	for {
		err := b.db.RunValueLogGC(0.5)
		if errors.Is(err, badger.ErrNoRewrite) {
			return rewritten, nil
		}
		if err != nil {
			return rewritten, err
		}
		rewritten = true
	}
}

// Close flushes and closes the database.
func (b *BadgerCache) Close() error {
	return b.db.Close()
}

var _ Cache = (*BadgerCache)(nil)
