package cache

import (
	"context"
	"sync"
	"time"
)

// memoryEntry holds a value snapshot with its expiration
type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryResultCache implements ResultCache with an in-process map.
// Suitable for single-instance deployments and tests. Values are copied
// on Set and Get so stored snapshots stay immutable.
type MemoryResultCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryResultCache creates an empty in-memory result cache
func NewMemoryResultCache() *MemoryResultCache {
	return &MemoryResultCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// NewMemoryResultCacheWithClock creates a cache with an injected clock,
// used by tests to control TTL expiry
func NewMemoryResultCacheWithClock(now func() time.Time) *MemoryResultCache {
	return &MemoryResultCache{
		entries: make(map[string]memoryEntry),
		now:     now,
	}
}

// Get returns the stored snapshot if present and unexpired.
// Expired entries are lazily removed.
func (c *MemoryResultCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; another caller may have replaced it.
		if cur, ok := c.entries[key]; ok && c.now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}

	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, true, nil
}

// Set stores a snapshot with the given TTL, last write wins
func (c *MemoryResultCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	snapshot := make([]byte, len(value))
	copy(snapshot, value)

	c.mu.Lock()
	c.entries[key] = memoryEntry{
		value:     snapshot,
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
	return nil
}

// Len returns the number of live entries, counting unexpired only
func (c *MemoryResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	now := c.now()
	for _, e := range c.entries {
		if now.Before(e.expiresAt) {
			n++
		}
	}
	return n
}

var _ ResultCache = (*MemoryResultCache)(nil)
