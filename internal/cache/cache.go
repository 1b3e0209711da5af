package cache

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/Jansenc08/CryptoApp-sub004/internal/metrics"
)

// pressureClearThreshold is the fraction of the memory budget above which a
// memory-pressure signal clears the whole cache instead of evicting entry by
// entry. Deliberately conservative and not exposed as configuration.
const pressureClearThreshold = 0.5

// Options configures a Cache.
type Options struct {
	MaxItems  int   // maximum number of entries
	MaxMemory int64 // maximum aggregate approximate cost in bytes
}

// Stats is a read-only snapshot of cache occupancy. Advisory only.
type Stats struct {
	ItemCount   int   `json:"item_count"`
	MemoryUsage int64 `json:"memory_usage"`
	MaxMemory   int64 `json:"max_memory"`
	MaxItems    int   `json:"max_items"`
}

// entry is a single cached value. The cache owns entries exclusively;
// callers only ever receive the stored value, never the entry itself.
type entry struct {
	value      any
	createdAt  time.Time
	ttl        time.Duration
	cost       int64
	lastAccess int64 // unix nanos, mutated atomically under read lock
}

func (e *entry) expired(now time.Time) bool {
	return now.Sub(e.createdAt) > e.ttl
}

// Cache is a bounded in-memory store with per-entry TTLs.
//
// Reads take a shared lock and do not block each other; all mutations are
// serialized behind an exclusive lock. Expired entries are removed lazily on
// read and proactively by Sweep.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	used    int64

	opts   Options
	clock  clock.Clock
	logger *zap.Logger
}

// New creates a Cache with the given bounds.
func New(opts Options, clk clock.Clock, logger *zap.Logger) *Cache {
	c := &Cache{
		entries: make(map[string]*entry),
		opts:    opts,
		clock:   clk,
		logger:  logger,
	}
	metrics.UpdateCacheUsage(0, 0, opts.MaxMemory)
	return c
}

// Get returns the value stored under key if it is present, unexpired and of
// type T. A stored value of a different type is treated as a miss, never as
// an error. An expired entry encountered here is removed as a side effect.
func Get[T any](c *Cache, key string) (T, bool) {
	var zero T

	c.mu.RLock()
	e, ok := c.entries[key]
	if !ok {
		c.mu.RUnlock()
		return zero, false
	}

	now := c.clock.Now()
	if e.expired(now) {
		c.mu.RUnlock()
		c.removeExpired(key, e)
		return zero, false
	}

	v, ok := e.value.(T)
	if !ok {
		c.mu.RUnlock()
		c.logger.Debug("cache type mismatch treated as miss", zap.String("key", key))
		return zero, false
	}

	// Recency bookkeeping for the eviction score. Safe under the read lock
	// because the field is only ever touched atomically.
	storeAccessTime(e, now)
	c.mu.RUnlock()

	return v, true
}

// Set inserts or overwrites the value under key with the given TTL. The
// approximate memory cost is computed from the value; an entry whose cost
// alone exceeds the memory budget is rejected.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	cost := EstimateCost(value)

	if c.opts.MaxMemory > 0 && cost > c.opts.MaxMemory {
		c.logger.Warn("refusing to cache oversized value",
			zap.String("key", key),
			zap.Int64("cost", cost),
			zap.Int64("max_memory", c.opts.MaxMemory))
		return
	}

	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[key]; ok {
		c.used -= old.cost
	}

	e := &entry{
		value:     value,
		createdAt: now,
		ttl:       ttl,
		cost:      cost,
	}
	storeAccessTime(e, now)

	c.entries[key] = e
	c.used += cost

	c.evictOverflowLocked(key, now)
	c.publishUsageLocked()
}

// Remove deletes the entry under key, if any.
func (c *Cache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.used -= e.cost
		delete(c.entries, key)
		c.publishUsageLocked()
	}
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
}

// Stats returns a snapshot of the cache occupancy.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Stats{
		ItemCount:   len(c.entries),
		MemoryUsage: c.used,
		MaxMemory:   c.opts.MaxMemory,
		MaxItems:    c.opts.MaxItems,
	}
}

// HandleMemoryPressure reacts to a platform low-memory signal. If current
// usage exceeds half of the memory budget the whole cache is cleared; item
// by item eviction is too slow to be a useful answer to real pressure.
func (c *Cache) HandleMemoryPressure() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.opts.MaxMemory <= 0 {
		return
	}

	if float64(c.used) > float64(c.opts.MaxMemory)*pressureClearThreshold {
		count := len(c.entries)
		c.logger.Info("memory pressure: clearing cache",
			zap.Int64("used", c.used),
			zap.Int64("max_memory", c.opts.MaxMemory),
			zap.Int("items", count))
		c.clearLocked()
		metrics.RecordEviction("pressure", count)
	}
}

// Sweep removes every expired entry. Intended to run on a periodic schedule.
func (c *Cache) Sweep() {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if e.expired(now) {
			c.used -= e.cost
			delete(c.entries, key)
			removed++
		}
	}

	if removed > 0 {
		c.logger.Debug("sweep removed expired entries", zap.Int("removed", removed))
		metrics.RecordEviction("expired", removed)
		c.publishUsageLocked()
	}
}

// removeExpired deletes key only if it still holds the same expired entry.
// Called without the lock held.
func (c *Cache) removeExpired(key string, expired *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok && e == expired {
		c.used -= e.cost
		delete(c.entries, key)
		metrics.RecordEviction("expired", 1)
		c.publishUsageLocked()
	}
}

// evictOverflowLocked brings the cache back within its bounds after an
// insert. Expired entries go first; beyond that the victim is the entry with
// the worst staleness-weighted cost, so a large value that has not been read
// for a while loses to a small recently-used one. Not strict LRU.
func (c *Cache) evictOverflowLocked(justInserted string, now time.Time) {
	overflow := func() bool {
		if c.opts.MaxItems > 0 && len(c.entries) > c.opts.MaxItems {
			return true
		}
		if c.opts.MaxMemory > 0 && c.used > c.opts.MaxMemory {
			return true
		}
		return false
	}

	for overflow() {
		victim := ""
		var victimScore float64 = -1

		for key, e := range c.entries {
			if key == justInserted && len(c.entries) > 1 {
				continue
			}
			if e.expired(now) {
				victim = key
				break
			}
			score := evictionScore(e, now)
			if score > victimScore {
				victim, victimScore = key, score
			}
		}

		if victim == "" {
			return
		}

		e := c.entries[victim]
		c.used -= e.cost
		delete(c.entries, victim)
		metrics.RecordEviction("capacity", 1)
		c.logger.Debug("evicted cache entry", zap.String("key", victim), zap.Int64("cost", e.cost))
	}
}

// evictionScore ranks entries for eviction: higher is worse. Idle time is
// weighted by cost so that heavy stale entries are reclaimed first.
func evictionScore(e *entry, now time.Time) float64 {
	idle := now.Sub(loadAccessTime(e)).Seconds()
	if idle < 0 {
		idle = 0
	}
	return (idle + 1) * float64(e.cost+1)
}

func (c *Cache) clearLocked() {
	c.entries = make(map[string]*entry)
	c.used = 0
	c.publishUsageLocked()
}

func (c *Cache) publishUsageLocked() {
	metrics.UpdateCacheUsage(len(c.entries), c.used, c.opts.MaxMemory)
}
