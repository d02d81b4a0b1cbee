// Package cache provides an in-memory key/value store with per-entry
// time-to-live. Entries past their expiration are evicted lazily on lookup;
// there is no background sweep and no size bound. The distinct-question
// corpus is assumed small relative to memory for a process lifetime.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL is applied by SetDefault. Matches one hour, the retention the
// original deployment used for reading results.
const DefaultTTL = time.Hour

type entry struct {
	value     any
	expiresAt time.Time // zero => never expires
}

// Cache is safe for concurrent use. Lookups are expected to be pre-normalized
// by the caller (trimmed, lower-cased); the cache performs no normalization.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the value stored under key, or ok=false if the key is absent
// or expired. An expired entry is removed as a side effect of the lookup.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key, unconditionally overwriting any existing entry.
// A ttl <= 0 means the entry never expires.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.entries[key] = e
}

// SetDefault stores value with DefaultTTL.
func (c *Cache) SetDefault(key string, value any) {
	c.Set(key, value, DefaultTTL)
}

// Len reports the number of entries currently held, including any that have
// expired but not yet been looked up.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
