// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package viewport

import (
	"math"
	"slices"
	"sync"

	"github.com/gogpu/composite"
)

// Item is one materialized row of a virtualized list.
type Item[T any] struct {
	Index int
	Value T

	// Y is the row's top edge in content coordinates.
	Y int
}

// VirtualizerOption configures a Virtualizer.
type VirtualizerOption func(*virtualizerOptions)

type virtualizerOptions struct {
	overscan int
}

// WithOverscan materializes n extra rows above and below the visible range.
func WithOverscan(n int) VirtualizerOption {
	return func(o *virtualizerOptions) {
		o.overscan = max(n, 0)
	}
}

// Virtualizer exposes only the rows of a uniform-height list that intersect
// a Viewport, so rendering cost depends on the viewport height rather than
// the list length.
//
// The Virtualizer does not own the Viewport; it resizes the viewport's
// content height when the item list changes.
type Virtualizer[T any] struct {
	mu         sync.RWMutex
	viewport   *Viewport
	items      []T
	itemHeight int
	overscan   int
}

// NewVirtualizer creates a virtualizer over vp with rows of itemHeight
// pixels.
func NewVirtualizer[T any](vp *Viewport, itemHeight int, opts ...VirtualizerOption) *Virtualizer[T] {
	var o virtualizerOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Virtualizer[T]{
		viewport:   vp,
		itemHeight: max(itemHeight, 0),
		overscan:   o.overscan,
	}
}

// SetItems replaces the item list and updates the viewport content height.
func (vz *Virtualizer[T]) SetItems(items []T) {
	vz.mu.Lock()
	vz.items = slices.Clone(items)
	height := len(vz.items) * vz.itemHeight
	vz.mu.Unlock()

	width, _ := vz.viewport.ContentSize()
	vz.viewport.SetContentSize(width, height)
}

// Len returns the number of items.
func (vz *Virtualizer[T]) Len() int {
	vz.mu.RLock()
	defer vz.mu.RUnlock()

	return len(vz.items)
}

// ItemHeight returns the fixed row height.
func (vz *Virtualizer[T]) ItemHeight() int {
	return vz.itemHeight
}

// TotalHeight returns the height of the whole list.
func (vz *Virtualizer[T]) TotalHeight() int {
	vz.mu.RLock()
	defer vz.mu.RUnlock()

	return len(vz.items) * vz.itemHeight
}

// VisibleRange returns the half-open index range [start, end) of rows that
// intersect the viewport, widened by the overscan.
func (vz *Virtualizer[T]) VisibleRange() (start, end int) {
	visible := vz.viewport.VisibleBounds()

	vz.mu.RLock()
	defer vz.mu.RUnlock()

	return vz.rangeFor(visible)
}

// VisibleItems returns the rows that intersect the viewport together with
// their content y-position.
func (vz *Virtualizer[T]) VisibleItems() []Item[T] {
	visible := vz.viewport.VisibleBounds()

	vz.mu.RLock()
	defer vz.mu.RUnlock()

	start, end := vz.rangeFor(visible)
	if end <= start {
		return nil
	}
	out := make([]Item[T], 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, Item[T]{Index: i, Value: vz.items[i], Y: i * vz.itemHeight})
	}
	return out
}

// ItemAt returns the index of the row at content y-coordinate y.
func (vz *Virtualizer[T]) ItemAt(y int) (int, bool) {
	vz.mu.RLock()
	defer vz.mu.RUnlock()

	if vz.itemHeight == 0 || y < 0 {
		return 0, false
	}
	i := y / vz.itemHeight
	if i >= len(vz.items) {
		return 0, false
	}
	return i, true
}

// ItemBounds returns the row's rectangle in content coordinates.
func (vz *Virtualizer[T]) ItemBounds(index int) (composite.Bounds, bool) {
	vz.mu.RLock()
	defer vz.mu.RUnlock()

	if index < 0 || index >= len(vz.items) {
		return composite.Bounds{}, false
	}
	width, _ := vz.viewport.Size()
	return composite.NewBounds(0, index*vz.itemHeight, width, vz.itemHeight), true
}

// ScrollToItem scrolls the minimum amount needed to show the row.
// Returns false if the index is out of range.
func (vz *Virtualizer[T]) ScrollToItem(index int, b Behavior) bool {
	vz.mu.RLock()
	if index < 0 || index >= len(vz.items) {
		vz.mu.RUnlock()
		return false
	}
	row := composite.Bounds{Y: index * vz.itemHeight, Height: vz.itemHeight}
	vz.mu.RUnlock()

	// Keep the horizontal position: a zero-width target at the current x
	// never requires horizontal scrolling.
	row.X = vz.viewport.VisibleBounds().X
	vz.viewport.ScrollIntoView(row, b)
	return true
}

// rangeFor computes the row range for a visible rectangle.
// Caller must hold vz.mu.
func (vz *Virtualizer[T]) rangeFor(visible composite.Bounds) (start, end int) {
	n := len(vz.items)
	if vz.itemHeight == 0 || n == 0 || visible.Height == 0 {
		return 0, 0
	}
	h := float64(vz.itemHeight)
	start = int(math.Floor(float64(visible.Y)/h)) - vz.overscan
	end = int(math.Ceil(float64(visible.Bottom())/h)) + vz.overscan
	return min(max(start, 0), n), min(max(end, 0), n)
}
