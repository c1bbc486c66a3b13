// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package clip

import (
	"github.com/gogpu/composite"
	"github.com/gogpu/composite/internal/cache"
)

// Default Optimizer configuration.
const (
	// DefaultCapacity is the number of cached intersections kept before
	// eviction starts.
	DefaultCapacity = 1000

	// DefaultEvictCount is the number of oldest entries dropped at once.
	DefaultEvictCount = 100
)

// Stats reports Optimizer cache statistics.
type Stats = cache.Stats

// intersectKey is the eight integer components of a widget and clip rect.
type intersectKey struct {
	wx, wy, ww, wh int
	cx, cy, cw, ch int
}

// Optimizer memoizes widget/clip rectangle intersections. It is purely a
// cache: Intersect always returns the same result as Bounds.Intersect.
//
// Optimizer is safe for concurrent use.
type Optimizer struct {
	cache *cache.Cache[intersectKey, composite.Bounds]
}

// OptimizerOption configures an Optimizer.
type OptimizerOption func(*optimizerOptions)

type optimizerOptions struct {
	capacity   int
	evictCount int
}

// WithCapacity sets the number of entries kept before eviction.
func WithCapacity(n int) OptimizerOption {
	return func(o *optimizerOptions) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithEvictCount sets how many of the oldest entries are evicted at once.
func WithEvictCount(n int) OptimizerOption {
	return func(o *optimizerOptions) {
		if n > 0 {
			o.evictCount = n
		}
	}
}

// NewOptimizer creates an intersection cache.
func NewOptimizer(opts ...OptimizerOption) *Optimizer {
	o := optimizerOptions{capacity: DefaultCapacity, evictCount: DefaultEvictCount}
	for _, opt := range opts {
		opt(&o)
	}
	return &Optimizer{cache: cache.New[intersectKey, composite.Bounds](o.capacity, o.evictCount)}
}

// Intersect returns widget.Intersect(clip), served from the cache when
// the same pair was seen before.
func (o *Optimizer) Intersect(widget, clip composite.Bounds) composite.Bounds {
	key := intersectKey{
		widget.X, widget.Y, widget.Width, widget.Height,
		clip.X, clip.Y, clip.Width, clip.Height,
	}
	return o.cache.GetOrCreate(key, func() composite.Bounds {
		return widget.Intersect(clip)
	})
}

// Stats returns cache statistics.
func (o *Optimizer) Stats() Stats {
	return o.cache.Stats()
}

// Len returns the number of cached intersections.
func (o *Optimizer) Len() int {
	return o.cache.Len()
}

// Clear drops every cached intersection.
func (o *Optimizer) Clear() {
	o.cache.Clear()
}
