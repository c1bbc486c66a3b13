// Package cache provides a generic, thread-safe memoization cache with
// insertion-order eviction.
//
// When the cache grows past its capacity, the oldest inserted entries are
// evicted in one batch. Reads never reorder entries, so eviction order is
// exactly insertion order.
//
//	c := cache.New[key, composite.Bounds](1000, 100)
//	v := c.GetOrCreate(k, func() composite.Bounds { return compute(k) })
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
