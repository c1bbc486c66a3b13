// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package clip

import (
	"cmp"
	"slices"
	"sync"

	"github.com/gogpu/composite"
)

// Manager is a LIFO stack of clipping regions with a cached active bounds.
//
// The active bounds is the intersection of every enabled region whose mode
// narrows (Strict, OverflowHidden), applied in descending priority order.
// When no such region exists the manager is unbounded and every widget is
// visible.
//
// Manager is safe for concurrent use.
type Manager struct {
	mu      sync.Mutex
	entries []entry
	nextID  RegionID

	active  composite.Bounds
	bounded bool

	// generation increments on every change to the active bounds inputs.
	generation uint64

	optimizer *Optimizer
}

type entry struct {
	id     RegionID
	region Region
}

// Option configures a Manager during creation.
type Option func(*Manager)

// WithOptimizer shares an intersection cache between managers.
// By default every Manager creates its own.
func WithOptimizer(o *Optimizer) Option {
	return func(m *Manager) {
		if o != nil {
			m.optimizer = o
		}
	}
}

// NewManager creates an empty, unbounded clip manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		entries: make([]entry, 0, 8), // Pre-allocate for common case
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.optimizer == nil {
		m.optimizer = NewOptimizer()
	}
	return m
}

// Push adds a region on top of the stack and returns its id.
func (m *Manager) Push(r Region) RegionID {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	m.entries = append(m.entries, entry{id: m.nextID, region: r})
	m.recompute()
	return m.nextID
}

// Pop removes and returns the most recent region.
// Popping an empty stack returns false and changes nothing.
func (m *Manager) Pop() (Region, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) == 0 {
		return Region{}, false
	}
	last := len(m.entries) - 1
	r := m.entries[last].region
	m.entries = m.entries[:last]
	m.recompute()
	return r, true
}

// Remove takes the region with the given id off the stack wherever it
// sits, leaving the regions above it in place.
// Returns false if the region is not on the stack.
func (m *Manager) Remove(id RegionID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := slices.IndexFunc(m.entries, func(e entry) bool { return e.id == id })
	if i < 0 {
		return false
	}
	m.entries = slices.Delete(m.entries, i, i+1)
	m.recompute()
	return true
}

// Peek returns the most recent region without removing it.
func (m *Manager) Peek() (Region, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) == 0 {
		return Region{}, false
	}
	return m.entries[len(m.entries)-1].region, true
}

// Region returns the region with the given id.
func (m *Manager) Region(id RegionID) (Region, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e := m.find(id); e != nil {
		return e.region, true
	}
	return Region{}, false
}

// Regions returns a snapshot of the stack, bottom first.
func (m *Manager) Regions() []Region {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Region, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.region
	}
	return out
}

// Depth returns the number of regions on the stack.
func (m *Manager) Depth() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.entries)
}

// Reset clears the stack, leaving the manager unbounded.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = m.entries[:0]
	m.recompute()
}

// SetRegionEnabled enables or disables a region in place.
// Returns false if the region is not on the stack.
func (m *Manager) SetRegionEnabled(id RegionID, enabled bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.find(id)
	if e == nil {
		return false
	}
	e.region.Enabled = enabled
	m.recompute()
	return true
}

// SetRegionPriority changes a region's priority in place.
// Returns false if the region is not on the stack.
func (m *Manager) SetRegionPriority(id RegionID, priority int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.find(id)
	if e == nil {
		return false
	}
	e.region.Priority = priority
	m.recompute()
	return true
}

// ActiveBounds returns the current clip rectangle. The second result is
// false when the manager is unbounded.
func (m *Manager) ActiveBounds() (composite.Bounds, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.active, m.bounded
}

// Generation returns a counter that changes whenever the active bounds
// may have changed.
func (m *Manager) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.generation
}

// IsWidgetVisible reports whether any part of b lies inside the active clip.
func (m *Manager) IsWidgetVisible(b composite.Bounds) bool {
	active, bounded := m.ActiveBounds()
	if !bounded {
		return true
	}
	return active.Intersects(b)
}

// IsWidgetFullyVisible reports whether b lies entirely inside the active clip.
func (m *Manager) IsWidgetFullyVisible(b composite.Bounds) bool {
	active, bounded := m.ActiveBounds()
	if !bounded {
		return true
	}
	return active.ContainsBounds(b)
}

// ClipWidgetBounds returns the part of b inside the active clip, or b
// itself when unbounded.
func (m *Manager) ClipWidgetBounds(b composite.Bounds) composite.Bounds {
	active, bounded := m.ActiveBounds()
	if !bounded {
		return b
	}
	return m.optimizer.Intersect(b, active)
}

// CalculateVisibleArea returns the fraction of b's area that survives
// clipping, in [0, 1].
func (m *Manager) CalculateVisibleArea(b composite.Bounds) float64 {
	clipped := m.ClipWidgetBounds(b)
	if clipped.Width <= 0 || clipped.Height <= 0 {
		return 0
	}
	area := b.Area()
	if area == 0 {
		return 0
	}
	return float64(clipped.Area()) / float64(area)
}

// Optimizer returns the intersection cache used by the manager.
func (m *Manager) Optimizer() *Optimizer {
	return m.optimizer
}

// find returns the entry with the given id. Caller must hold m.mu.
func (m *Manager) find(id RegionID) *entry {
	for i := range m.entries {
		if m.entries[i].id == id {
			return &m.entries[i]
		}
	}
	return nil
}

// recompute rebuilds the active bounds from the stack.
// Caller must hold m.mu.
func (m *Manager) recompute() {
	m.generation++

	narrowing := make([]Region, 0, len(m.entries))
	for _, e := range m.entries {
		if e.region.Enabled && e.region.Mode.Narrows() {
			narrowing = append(narrowing, e.region)
		}
	}
	slices.SortStableFunc(narrowing, func(a, b Region) int {
		return cmp.Compare(b.Priority, a.Priority)
	})

	if len(narrowing) == 0 {
		m.active = composite.Bounds{}
		m.bounded = false
		return
	}

	active := narrowing[0].Bounds
	for _, r := range narrowing[1:] {
		active = active.Intersect(r.Bounds)
	}
	m.active = active
	m.bounded = true

	composite.Logger().Debug("clip: active bounds recomputed",
		"bounds", active, "regions", len(m.entries), "narrowing", len(narrowing))
}
