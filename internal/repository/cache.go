package repository

import (
	"fmt"
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/grid-picks/internal/metrics"
)

// Cache holds reference data that changes rarely during a race weekend:
// schedules, limits and rosters. Bets are never cached.
type Cache struct {
	cache     *cache.Cache
	ttl       time.Duration
	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

// NewCache creates a cache with the given TTL. A non-positive TTL disables caching.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		cache: cache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

func scheduleKey(raceID int64) string {
	return fmt.Sprintf("schedule:%d", raceID)
}

func limitsKey(championshipID int64) string {
	return fmt.Sprintf("limits:%d", championshipID)
}

func rosterKey(championshipID int64) string {
	return fmt.Sprintf("roster:%d", championshipID)
}

func (c *Cache) get(kind, key string) (interface{}, bool) {
	if c == nil || c.ttl <= 0 {
		return nil, false
	}
	v, found := c.cache.Get(key)
	if found {
		c.hitCount.Add(1)
	} else {
		c.missCount.Add(1)
	}
	metrics.RecordCacheLookup(kind, found)
	return v, found
}

func (c *Cache) set(key string, v interface{}) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.cache.Set(key, v, c.ttl)
}

// Invalidate drops a single key.
func (c *Cache) Invalidate(key string) {
	if c == nil {
		return
	}
	c.cache.Delete(key)
}

// Clear flushes the entire cache
func (c *Cache) Clear() {
	if c == nil {
		return
	}
	c.cache.Flush()
	c.hitCount.Store(0)
	c.missCount.Store(0)
}

// Enabled reports whether lookups can hit.
func (c *Cache) Enabled() bool {
	return c != nil && c.ttl > 0
}

// Stats returns cache statistics
func (c *Cache) Stats() (hits, misses uint64, ratio float64) {
	if c == nil {
		return 0, 0, 0
	}
	hits = c.hitCount.Load()
	misses = c.missCount.Load()
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (c *Cache) ItemCount() int {
	if c == nil {
		return 0
	}
	return c.cache.ItemCount()
}
