// Package web3cache provides a small in-memory TTL cache used to avoid
// redundant re-fetches of blockchain read data (balances, gas estimates,
// receipts) within a short window.
//
// Expiry is lazy: entries are checked on read, there is no background
// sweeper. Eviction is FIFO on insertion order once the capacity bound is
// reached. ClearExpired is exposed for callers that want to run their own
// sweep schedule.
package web3cache

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	// DefaultTTL is applied when Set is called with a non-positive TTL.
	DefaultTTL = time.Minute

	// DefaultMaxSize bounds the number of entries held at once.
	DefaultMaxSize = 1000
)

// ErrInvalidKey is returned by Set when the key is empty.
var ErrInvalidKey = errors.New("web3cache: key must be a non-empty string")

type entry struct {
	data      any
	timestamp time.Time
	ttl       time.Duration
}

func (e *entry) expired(now time.Time) bool {
	return now.Sub(e.timestamp) > e.ttl
}

// Stats is a point-in-time snapshot of cache effectiveness.
type Stats struct {
	Size    int     `json:"size"`
	MaxSize int     `json:"maxSize"`
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	HitRate float64 `json:"hitRate"`
}

// Health reports how much of the cache is stale but not yet collected.
type Health struct {
	Healthy bool `json:"healthy"`
	Expired int  `json:"expired"`
	Total   int  `json:"total"`
}

// Cache is a capacity-bounded key/value store with per-entry TTL.
// The zero value is not usable; construct with New.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]*entry
	order      []string            // insertion order, oldest first
	queued     map[string]struct{} // keys currently tracked in order
	defaultTTL time.Duration
	maxSize    int
	hits       uint64
	misses     uint64

	// sf collapses concurrent GetOrSet misses for the same key into a
	// single producer invocation.
	sf singleflight.Group
}

// New returns an empty cache with DefaultTTL and DefaultMaxSize.
func New() *Cache {
	return NewWithSize(DefaultMaxSize)
}

// NewWithSize returns an empty cache holding at most maxSize entries.
func NewWithSize(maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Cache{
		entries:    make(map[string]*entry),
		queued:     make(map[string]struct{}),
		defaultTTL: DefaultTTL,
		maxSize:    maxSize,
	}
}

// Set stores data under key for ttl. A non-positive ttl falls back to the
// cache's default. When the cache is full the oldest-inserted entry is
// evicted first. Re-setting a live key refreshes its data and timestamp but
// keeps its original position in the eviction queue.
func (c *Cache) Set(key string, data any, ttl time.Duration) error {
	if key == "" {
		return ErrInvalidKey
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldestLocked()
	}

	c.entries[key] = &entry{data: data, timestamp: time.Now(), ttl: ttl}
	if _, ok := c.queued[key]; !ok {
		c.order = append(c.order, key)
		c.queued[key] = struct{}{}
	}
	return nil
}

// Get returns the value stored under key, or (nil, false) on a miss.
// An expired entry is deleted on the spot and reported as a miss.
func (c *Cache) Get(key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if e.expired(time.Now()) {
		c.removeLocked(key)
		c.misses++
		return nil, false
	}
	c.hits++
	return e.data, true
}

// Has reports whether Get would return a hit. Like Get, it deletes an
// expired entry as a side effect.
func (c *Cache) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// GetOrSet returns the cached value for key, or invokes producer, stores the
// result, and returns it. Concurrent callers missing on the same key share a
// single producer invocation; a producer error is returned to all of them
// and nothing is cached.
func (c *Cache) GetOrSet(ctx context.Context, key string, producer func(context.Context) (any, error), ttl time.Duration) (any, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err, _ := c.sf.Do(key, func() (any, error) {
		// A winner may have populated the entry between our miss and
		// acquiring the flight.
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := producer(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.Set(key, v, ttl); err != nil {
			return nil, err
		}
		return v, nil
	})
	return v, err
}

// Clear removes a single key. Removing an absent key is a no-op.
func (c *Cache) Clear(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(key)
}

// ClearAll drops every entry.
func (c *Cache) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
	c.order = c.order[:0]
	c.queued = make(map[string]struct{})
}

// ClearExpired sweeps out every stale entry and returns how many were
// removed. Never invoked internally; callers own the sweep schedule.
func (c *Cache) ClearExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, e := range c.entries {
		if e.expired(now) {
			c.removeLocked(key)
			removed++
		}
	}
	return removed
}

// InvalidatePattern removes every key matching pattern and returns the count.
func (c *Cache) InvalidatePattern(pattern *regexp.Regexp) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.entries {
		if pattern.MatchString(key) {
			c.removeLocked(key)
			removed++
		}
	}
	return removed
}

// Keys returns the cached keys in insertion order, including entries that
// have expired but not yet been collected.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	return keys
}

// Size returns the number of entries currently held, stale or not.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// SetDefaultTTL changes the TTL applied when Set receives a non-positive
// value. Non-positive arguments are ignored.
func (c *Cache) SetDefaultTTL(ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaultTTL = ttl
}

// GetStats returns hit/miss counters accumulated since construction.
func (c *Cache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Size:    len(c.entries),
		MaxSize: c.maxSize,
		Hits:    c.hits,
		Misses:  c.misses,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

// HealthCheck reports the cache unhealthy when more than 30% of its entries
// are stale, a sign that nothing is sweeping or that TTLs are mistuned.
func (c *Cache) HealthCheck() Health {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	expired := 0
	for _, e := range c.entries {
		if e.expired(now) {
			expired++
		}
	}
	return Health{
		Healthy: len(c.entries) == 0 || float64(expired) < float64(len(c.entries))*0.3,
		Expired: expired,
		Total:   len(c.entries),
	}
}

// evictOldestLocked drops the oldest-inserted entry. Caller holds c.mu.
func (c *Cache) evictOldestLocked() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.queued, oldest)
	delete(c.entries, oldest)
}

// removeLocked deletes key from the map and the eviction queue. Caller
// holds c.mu.
func (c *Cache) removeLocked(key string) {
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	if _, ok := c.queued[key]; !ok {
		return
	}
	delete(c.queued, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
