package cache

import "sync"

// Cache is a generic thread-safe cache with insertion-order eviction.
// When the cache exceeds capacity, the evictCount oldest inserted entries
// are removed.
//
// Cache must not be copied after creation (has mutex).
type Cache[K comparable, V any] struct {
	mu         sync.Mutex
	entries    map[K]V
	order      orderList[K]
	capacity   int
	evictCount int

	hits      uint64
	misses    uint64
	evictions uint64
}

// New creates a cache holding up to capacity entries. When full, the
// evictCount oldest entries are evicted in one batch.
// A capacity of 0 means unlimited. evictCount is at least 1.
func New[K comparable, V any](capacity, evictCount int) *Cache[K, V] {
	if evictCount < 1 {
		evictCount = 1
	}
	return &Cache[K, V]{
		entries:    make(map[K]V),
		capacity:   capacity,
		evictCount: evictCount,
	}
}

// GetOrCreate returns the cached value or creates it.
// create is called under lock to prevent duplicate creation.
func (c *Cache[K, V]) GetOrCreate(key K, create func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	if value, ok := c.entries[key]; ok {
		c.hits++
		return value
	}
	c.misses++

	value := create()
	c.entries[key] = value
	c.order.PushBack(key)
	if c.capacity > 0 && len(c.entries) > c.capacity {
		c.evictOldest()
	}
	return value
}

// Clear removes all entries and resets statistics.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]V)
	c.order.Clear()
	c.hits, c.misses, c.evictions = 0, 0, 0
}

// Len returns the number of entries in the cache.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Stats returns cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Len:       len(c.entries),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
	return s
}

// evictOldest removes the evictCount oldest inserted entries.
// Caller must hold c.mu.
func (c *Cache[K, V]) evictOldest() {
	for i := 0; i < c.evictCount; i++ {
		key, ok := c.order.PopFront()
		if !ok {
			return
		}
		delete(c.entries, key)
		c.evictions++
	}
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Capacity is the maximum number of entries before eviction.
	Capacity int
	// Hits is the number of lookups that found an entry.
	Hits uint64
	// Misses is the number of lookups that did not.
	Misses uint64
	// HitRate is Hits / (Hits + Misses), 0 when nothing was looked up.
	HitRate float64
	// Evictions is the number of entries removed to stay within capacity.
	Evictions uint64
}
