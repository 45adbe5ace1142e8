// Copyright 2026 The Strata Authors
// SPDX-License-Identifier: Apache-2.0

package fingerprint

import (
	"fmt"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheKey identifies one observed state of a file on disk. Size and
// mtime changes both invalidate the entry, so a stale hash is only
// served when a file is rewritten with identical length inside the
// mtime granularity of the filesystem, the same tradeoff build tools
// that stat instead of re-reading all make.
type cacheKey struct {
	path    string
	size    int64
	modTime int64
}

// Cache memoizes file fingerprints keyed by path, size, and mtime so
// that repeated passes over an unchanged project skip re-reading and
// re-hashing every file. Entries are evicted LRU once capacity is
// reached.
//
// The underlying LRU is safe for concurrent use, but the hit/miss
// counters are not; strata's pass runner drives the cache from a
// single goroutine.
type Cache struct {
	entries *lru.Cache[cacheKey, Hash]
	hits    int64
	misses  int64
}

// DefaultCacheCapacity bounds the fingerprint cache when the caller
// does not choose a size. Projects rarely exceed a few thousand
// source files.
const DefaultCacheCapacity = 4096

// NewCache returns a fingerprint cache holding at most capacity
// entries. A capacity of 0 or less selects DefaultCacheCapacity.
func NewCache(capacity int) (*Cache, error) {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	entries, err := lru.New[cacheKey, Hash](capacity)
	if err != nil {
		return nil, fmt.Errorf("creating fingerprint cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// FileHash returns the file-domain fingerprint of the file at path,
// reading and hashing it only when the cache has no entry for the
// file's current size and mtime.
func (c *Cache) FileHash(path string) (Hash, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Hash{}, fmt.Errorf("stating %s: %w", path, err)
	}

	key := cacheKey{
		path:    path,
		size:    info.Size(),
		modTime: info.ModTime().UnixNano(),
	}
	if hash, ok := c.entries.Get(key); ok {
		c.hits++
		return hash, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Hash{}, fmt.Errorf("reading %s: %w", path, err)
	}
	hash := HashFile(data)
	c.entries.Add(key, hash)
	c.misses++
	return hash, nil
}

// CacheStats reports cache effectiveness for pass summaries.
type CacheStats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
}

// Stats returns a snapshot of the hit/miss counters and current size.
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Hits:    c.hits,
		Misses:  c.misses,
		Entries: c.entries.Len(),
	}
}

// Purge drops every cached entry and resets the counters.
func (c *Cache) Purge() {
	c.entries.Purge()
	c.hits = 0
	c.misses = 0
}
