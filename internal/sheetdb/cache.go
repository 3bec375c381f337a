// ABOUTME: Per-table TTL cache over ReadAll snapshots
// ABOUTME: Never fetches on its own; callers fetch on miss and Put
package sheetdb

import (
	"sync"
	"time"
)

type cacheEntry struct {
	rows      [][]string
	fetchedAt time.Time
}

// SnapshotCache holds one time-boxed snapshot per table, keyed by table name.
// Safe for concurrent readers. Process-wide: one instance per backing store.
type SnapshotCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewSnapshotCache creates a cache with the given TTL.
func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached snapshot for a table if it is younger than the TTL.
func (c *SnapshotCache) Get(table string) ([][]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[table]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.fetchedAt) >= c.ttl {
		return nil, false
	}
	return entry.rows, true
}

// Put stores a fresh snapshot for a table.
func (c *SnapshotCache) Put(table string, rows [][]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[table] = cacheEntry{rows: rows, fetchedAt: c.now()}
}

// Invalidate drops the snapshot for a table. Called by the write queue after
// every successful mutation, before the write's completion is reported, so a
// read issued after the write always refetches.
func (c *SnapshotCache) Invalidate(table string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, table)
}
