package core

import (
	"sort"
	"sync"
	"time"
)

// Cache stores parsed sheets by name. Entries are stored before
// materialization, so one entry serves every recursion depth.
type Cache interface {
	// Get returns the entry for name. Expired entries are evicted and reported missing.
	Get(name string) (*SheetData, bool)
	// Put stores data under name, replacing any previous entry.
	Put(name string, data *SheetData)
	// Delete removes name. It reports whether an entry existed.
	Delete(name string) bool
	// EvictExpired removes every expired entry and returns how many were removed.
	EvictExpired() int
	// Clear removes all entries.
	Clear()
	// Stats returns a snapshot of the cache.
	Stats() CacheStats
}

// CacheStats is a point-in-time view of a cache.
type CacheStats struct {
	Entries int           `json:"entries"`
	Hits    int64         `json:"hits"`
	Misses  int64         `json:"misses"`
	TTL     time.Duration `json:"ttl"`
	Sheets  []string      `json:"sheets"`
}

type cacheEntry struct {
	data      *SheetData
	expiresAt time.Time // zero means never
}

// MemoryCache is an in-process Cache with a fixed time-to-live.
// A TTL of zero disables expiry.
type MemoryCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
	hits    int64
	misses  int64
}

// NewMemoryCache returns an empty cache whose entries live for ttl.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl < 0 {
		ttl = 0
	}
	return &MemoryCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// WithClock replaces the time source. Intended for tests.
func (c *MemoryCache) WithClock(now func() time.Time) *MemoryCache {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
	return c
}

// TTL returns the configured time-to-live.
func (c *MemoryCache) TTL() time.Duration { return c.ttl }

func (c *MemoryCache) Get(name string) (*SheetData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[name]
	if ok && c.expired(e) {
		delete(c.entries, name)
		ok = false
	}
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	return e.data, true
}

func (c *MemoryCache) Put(name string, data *SheetData) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := cacheEntry{data: data}
	if c.ttl > 0 {
		e.expiresAt = c.now().Add(c.ttl)
	}
	c.entries[name] = e
}

func (c *MemoryCache) Delete(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[name]
	delete(c.entries, name)
	return ok
}

func (c *MemoryCache) EvictExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ttl == 0 {
		return 0
	}
	n := 0
	for name, e := range c.entries {
		if c.expired(e) {
			delete(c.entries, name)
			n++
		}
	}
	return n
}

func (c *MemoryCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

func (c *MemoryCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	sheets := make([]string, 0, len(c.entries))
	for name := range c.entries {
		sheets = append(sheets, name)
	}
	sort.Strings(sheets)

	return CacheStats{
		Entries: len(c.entries),
		Hits:    c.hits,
		Misses:  c.misses,
		TTL:     c.ttl,
		Sheets:  sheets,
	}
}

// expired must be called with c.mu held.
func (c *MemoryCache) expired(e cacheEntry) bool {
	return !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt)
}
