// Package cache provides the in-memory LRU+TTL cache used to memoize zone
// resolutions and rate calculations.
//
// Each logical domain (zones, rates, carrier configs) owns its own Cache
// instance with its own capacity and TTL, constructed explicitly and
// injected into the calculation layer. Instances are process-local: under
// horizontal scale-out every service instance carries an independent cache
// population and independent statistics. Values must therefore be
// idempotent and derivable, since two instances (or two concurrent
// requests) may each recompute and store the same key.
package cache

import (
	"container/list"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// entryOverheadBytes is the rough per-entry bookkeeping cost used for the
// memory footprint estimate.
const entryOverheadBytes = 160

type entry struct {
	key      string
	value    interface{}
	storedAt time.Time
}

// Cache is an LRU key/value cache with per-entry TTL
type Cache struct {
	mu      sync.Mutex
	name    string
	maxSize int
	ttl     time.Duration

	ll    *list.List // front is most recently used
	items map[string]*list.Element

	hits      int64
	misses    int64
	evictions int64
	sets      int64
}

// Stats is a point-in-time snapshot of cache counters
type Stats struct {
	// Name is the cache domain name
	Name string `json:"name"`

	// Hits, Misses, Evictions, Sets are lifetime counters
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Sets      int64 `json:"sets"`

	// HitRatePct is hits over lookups, as a percentage
	HitRatePct float64 `json:"hit_rate_pct"`

	// Size is the current entry count
	Size int `json:"size"`

	// MaxSize is the configured capacity
	MaxSize int `json:"max_size"`

	// EstimatedMemoryBytes is a rough footprint estimate
	EstimatedMemoryBytes int64 `json:"estimated_memory_bytes"`
}

// New creates a cache domain with the given capacity and TTL
func New(name string, maxSize int, ttl time.Duration) *Cache {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &Cache{
		name:    name,
		maxSize: maxSize,
		ttl:     ttl,
		ll:      list.New(),
		items:   make(map[string]*list.Element),
	}
}

// GenerateKey builds a composite lane key. The ship date is truncated to
// month granularity; extra parameters are appended in sorted order.
func GenerateKey(carrierID, serviceID, originRegion, destRegion string, shipDate time.Time, extra map[string]string) string {
	key := fmt.Sprintf("%s|%s|%s|%s|%s",
		carrierID, serviceID, originRegion, destRegion, shipDate.Format("2006-01"))
	if len(extra) == 0 {
		return key
	}
	parts := make([]string, 0, len(extra))
	for k, v := range extra {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	return key + "|" + strings.Join(parts, ",")
}

// Get returns the cached value for key. Expired entries are evicted lazily
// and count as misses; live entries get a recency bump.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}
	ent := el.Value.(*entry)
	if c.ttl > 0 && time.Since(ent.storedAt) > c.ttl {
		c.removeElement(el)
		c.misses++
		return nil, false
	}
	c.ll.MoveToFront(el)
	c.hits++
	return ent.value, true
}

// Set stores a value, evicting the least recently used entry at capacity.
// Last write wins for concurrent setters of the same key.
func (c *Cache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		ent := el.Value.(*entry)
		ent.value = value
		ent.storedAt = time.Now()
		c.ll.MoveToFront(el)
		c.sets++
		return
	}

	if c.ll.Len() >= c.maxSize {
		if oldest := c.ll.Back(); oldest != nil {
			c.removeElement(oldest)
			c.evictions++
		}
	}

	el := c.ll.PushFront(&entry{key: key, value: value, storedAt: time.Now()})
	c.items[key] = el
	c.sets++
}

// Cleanup eagerly sweeps expired entries and returns the count removed
func (c *Cache) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ttl <= 0 {
		return 0
	}
	removed := 0
	for el := c.ll.Back(); el != nil; {
		prev := el.Prev()
		if time.Since(el.Value.(*entry).storedAt) > c.ttl {
			c.removeElement(el)
			removed++
		}
		el = prev
	}
	return removed
}

// Prewarm computes and inserts values for lane keys that are absent.
// The compute function is injected; the cache holds no rating logic.
// Returns the number of keys warmed; compute failures skip the key.
func (c *Cache) Prewarm(keys []string, compute func(key string) (interface{}, error)) (int, []error) {
	warmed := 0
	var errs []error
	for _, key := range keys {
		if c.contains(key) {
			continue
		}
		value, err := compute(key)
		if err != nil {
			errs = append(errs, fmt.Errorf("prewarm %s: %w", key, err))
			continue
		}
		c.Set(key, value)
		warmed++
	}
	return warmed, errs
}

// Stats returns a snapshot of the cache counters
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	lookups := c.hits + c.misses
	rate := 0.0
	if lookups > 0 {
		rate = float64(c.hits) / float64(lookups) * 100
	}

	var mem int64
	for el := c.ll.Front(); el != nil; el = el.Next() {
		mem += entryOverheadBytes + int64(len(el.Value.(*entry).key))
	}

	return Stats{
		Name:                 c.name,
		Hits:                 c.hits,
		Misses:               c.misses,
		Evictions:            c.evictions,
		Sets:                 c.sets,
		HitRatePct:           rate,
		Size:                 c.ll.Len(),
		MaxSize:              c.maxSize,
		EstimatedMemoryBytes: mem,
	}
}

// Len returns the current entry count
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// contains checks presence without touching recency or counters
func (c *Cache) contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		return false
	}
	if c.ttl > 0 && time.Since(el.Value.(*entry).storedAt) > c.ttl {
		return false
	}
	return true
}

func (c *Cache) removeElement(el *list.Element) {
	c.ll.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}
