// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package layer

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/gogpu/composite"
)

// DefaultHistoryCapacity is the number of changes kept by default.
const DefaultHistoryCapacity = 1000

// CacheStats reports render-order cache behavior.
type CacheStats struct {
	Hits   uint64
	Misses uint64
}

// Manager owns a set of layers and the widget-to-layer assignment.
//
// A widget belongs to at most one layer. Every mutator reports "not found"
// through its boolean result and leaves state unchanged on failure.
//
// Manager is safe for concurrent use. Change listeners run after the
// manager's lock is released and may call back into the manager.
type Manager struct {
	mu          sync.Mutex
	layers      map[string]*state
	widgetLayer map[string]string

	// generation increments on every change that can alter the render order.
	generation uint64

	order      []string
	orderGen   uint64
	orderValid bool
	stats      CacheStats

	history         []Change
	historyCapacity int

	listeners    []listener
	nextListener uint64

	now func() time.Time
}

type listener struct {
	id uint64
	fn func(Change)
}

// Option configures a Manager during creation.
type Option func(*Manager)

// WithHistoryCapacity sets how many changes are retained. When the history
// overflows, the oldest half is dropped.
func WithHistoryCapacity(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.historyCapacity = n
		}
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates an empty layer manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		layers:          make(map[string]*state),
		widgetLayer:     make(map[string]string),
		historyCapacity: DefaultHistoryCapacity,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// LayerOption configures a layer during CreateLayer.
type LayerOption func(*state)

// Hidden creates the layer invisible.
func Hidden() LayerOption {
	return func(s *state) { s.visible = false }
}

// WithAlpha sets the initial layer opacity, clamped to [0, 1].
func WithAlpha(alpha float64) LayerOption {
	return func(s *state) { s.alpha = clampAlpha(alpha) }
}

// CreateLayer adds a visible, opaque layer.
// Returns false if a layer with the same id already exists.
func (m *Manager) CreateLayer(id string, zOrder int, typ Type, opts ...LayerOption) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.layers[id]; exists {
		return false
	}
	s := &state{
		id:           id,
		zOrder:       zOrder,
		typ:          typ,
		visible:      true,
		alpha:        1,
		widgets:      make(map[string]struct{}),
		lastModified: m.now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	m.layers[id] = s
	m.invalidate()
	return true
}

// RemoveLayer removes a layer and every widget assigned to it.
// Returns false if the layer does not exist.
func (m *Manager) RemoveLayer(id string) bool {
	m.mu.Lock()
	s, ok := m.layers[id]
	if !ok {
		m.mu.Unlock()
		return false
	}

	var changes []Change
	for _, w := range s.sortedWidgets() {
		delete(m.widgetLayer, w)
		changes = append(changes, m.record(w, s.zOrder, true, 0, false))
	}
	delete(m.layers, id)
	m.invalidate()
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	m.notify(listeners, changes)
	return true
}

// AddWidgetToLayer assigns a widget to a layer, detaching it from any
// previous layer. Returns false if the layer does not exist.
func (m *Manager) AddWidgetToLayer(widgetID, layerID string) bool {
	m.mu.Lock()
	target, ok := m.layers[layerID]
	if !ok {
		m.mu.Unlock()
		return false
	}

	prevID, hadPrev := m.widgetLayer[widgetID]
	if hadPrev && prevID == layerID {
		m.mu.Unlock()
		return true
	}

	var oldZ int
	if hadPrev {
		prev := m.layers[prevID]
		oldZ = prev.zOrder
		delete(prev.widgets, widgetID)
		prev.lastModified = m.now()
	}
	target.widgets[widgetID] = struct{}{}
	target.lastModified = m.now()
	m.widgetLayer[widgetID] = layerID
	m.invalidate()

	change := m.record(widgetID, oldZ, hadPrev, target.zOrder, true)
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	m.notify(listeners, []Change{change})
	return true
}

// RemoveWidget detaches a widget from its layer.
// Returns false if the widget is not assigned to any layer.
func (m *Manager) RemoveWidget(widgetID string) bool {
	m.mu.Lock()
	layerID, ok := m.widgetLayer[widgetID]
	if !ok {
		m.mu.Unlock()
		return false
	}

	s := m.layers[layerID]
	delete(s.widgets, widgetID)
	s.lastModified = m.now()
	delete(m.widgetLayer, widgetID)
	m.invalidate()

	change := m.record(widgetID, s.zOrder, true, 0, false)
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	m.notify(listeners, []Change{change})
	return true
}

// SetLayerZOrder moves a layer to a new z-order. One change is recorded
// for every widget in the layer. Returns false if the layer does not exist.
func (m *Manager) SetLayerZOrder(id string, zOrder int) bool {
	m.mu.Lock()
	s, ok := m.layers[id]
	if !ok {
		m.mu.Unlock()
		return false
	}
	changes := m.setZOrder(s, zOrder)
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	m.notify(listeners, changes)
	return true
}

// BringLayerToFront sets the layer's z-order to one above the highest
// z-order in the manager. Returns false if the layer does not exist.
func (m *Manager) BringLayerToFront(id string) bool {
	m.mu.Lock()
	s, ok := m.layers[id]
	if !ok {
		m.mu.Unlock()
		return false
	}
	top := 0
	first := true
	for _, l := range m.layers {
		if first || l.zOrder > top {
			top = l.zOrder
			first = false
		}
	}
	changes := m.setZOrder(s, top+1)
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	m.notify(listeners, changes)
	return true
}

// SendLayerToBack sets the layer's z-order to one below the lowest
// z-order in the manager. Returns false if the layer does not exist.
func (m *Manager) SendLayerToBack(id string) bool {
	m.mu.Lock()
	s, ok := m.layers[id]
	if !ok {
		m.mu.Unlock()
		return false
	}
	bottom := 0
	first := true
	for _, l := range m.layers {
		if first || l.zOrder < bottom {
			bottom = l.zOrder
			first = false
		}
	}
	changes := m.setZOrder(s, bottom-1)
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	m.notify(listeners, changes)
	return true
}

// SetLayerVisibility shows or hides a layer.
// Returns false if the layer does not exist.
func (m *Manager) SetLayerVisibility(id string, visible bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.layers[id]
	if !ok {
		return false
	}
	if s.visible != visible {
		s.visible = visible
		s.lastModified = m.now()
		m.invalidate()
	}
	return true
}

// SetLayerAlpha sets the layer opacity, clamped to [0, 1].
// The render order is only invalidated when the change crosses zero,
// since any positive alpha renders the same widgets.
// Returns false if the layer does not exist.
func (m *Manager) SetLayerAlpha(id string, alpha float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.layers[id]
	if !ok {
		return false
	}
	alpha = clampAlpha(alpha)
	wasRenderable := s.renderable()
	s.alpha = alpha
	s.lastModified = m.now()
	if s.renderable() != wasRenderable {
		m.invalidate()
	}
	return true
}

// RenderOrder returns widget ids back to front.
//
// Layers are ordered by ascending z-order, ties broken by layer id; widgets
// within a layer are ordered by id. Hidden layers and layers with alpha <= 0
// are skipped. The result is cached until the next structural change.
func (m *Manager) RenderOrder() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.orderValid && m.orderGen == m.generation {
		m.stats.Hits++
		return slices.Clone(m.order)
	}
	m.stats.Misses++

	layers := make([]*state, 0, len(m.layers))
	for _, s := range m.layers {
		if s.renderable() {
			layers = append(layers, s)
		}
	}
	slices.SortFunc(layers, compareLayers)

	order := make([]string, 0, len(m.widgetLayer))
	for _, s := range layers {
		order = append(order, s.sortedWidgets()...)
	}

	m.order = order
	m.orderGen = m.generation
	m.orderValid = true

	composite.Logger().Debug("layer: render order rebuilt",
		"layers", len(layers), "widgets", len(order), "generation", m.generation)

	return slices.Clone(order)
}

// CacheStats returns render-order cache hit and miss counts.
func (m *Manager) CacheStats() CacheStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.stats
}

// Generation returns a counter that changes with every structural mutation.
func (m *Manager) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.generation
}

// WidgetLayer returns the id of the layer a widget belongs to.
func (m *Manager) WidgetLayer(widgetID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.widgetLayer[widgetID]
	return id, ok
}

// WidgetZOrder returns the z-order of the layer a widget belongs to.
func (m *Manager) WidgetZOrder(widgetID string) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.widgetLayer[widgetID]
	if !ok {
		return 0, false
	}
	return m.layers[id].zOrder, true
}

// Layer returns a snapshot of a layer.
func (m *Manager) Layer(id string) (Info, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.layers[id]
	if !ok {
		return Info{}, false
	}
	return s.info(), true
}

// Layers returns snapshots of every layer ordered by z-order, then id.
func (m *Manager) Layers() []Info {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.collect(func(*state) bool { return true })
}

// LayersByType returns snapshots of the layers of one type, ordered by
// z-order, then id.
func (m *Manager) LayersByType(typ Type) []Info {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.collect(func(s *state) bool { return s.typ == typ })
}

// LayerCount returns the number of layers.
func (m *Manager) LayerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.layers)
}

// WidgetCount returns the number of assigned widgets.
func (m *Manager) WidgetCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.widgetLayer)
}

// History returns the retained changes, oldest first.
func (m *Manager) History() []Change {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.history)
}

// ClearHistory drops every retained change.
func (m *Manager) ClearHistory() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.history = nil
}

// OnChange registers fn to receive every change. The returned function
// unregisters it. A panicking listener is logged and skipped.
func (m *Manager) OnChange(fn func(Change)) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextListener++
	id := m.nextListener
	m.listeners = append(m.listeners, listener{id: id, fn: fn})

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		m.listeners = slices.DeleteFunc(m.listeners, func(l listener) bool { return l.id == id })
	}
}

// setZOrder moves s and records a change per member widget.
// Caller must hold m.mu.
func (m *Manager) setZOrder(s *state, zOrder int) []Change {
	if s.zOrder == zOrder {
		return nil
	}
	old := s.zOrder
	s.zOrder = zOrder
	s.lastModified = m.now()
	m.invalidate()

	changes := make([]Change, 0, len(s.widgets))
	for _, w := range s.sortedWidgets() {
		changes = append(changes, m.record(w, old, true, zOrder, true))
	}
	return changes
}

// record appends a change to the history ring. Caller must hold m.mu.
func (m *Manager) record(widgetID string, oldZ int, hadOld bool, newZ int, hasNew bool) Change {
	c := Change{
		WidgetID:  widgetID,
		OldZOrder: oldZ,
		HadOld:    hadOld,
		NewZOrder: newZ,
		HasNew:    hasNew,
		Timestamp: m.now(),
	}
	m.history = append(m.history, c)
	if len(m.history) > m.historyCapacity {
		m.history = slices.Clone(m.history[len(m.history)/2:])
	}
	return c
}

// invalidate marks the render order stale. Caller must hold m.mu.
func (m *Manager) invalidate() {
	m.generation++
}

// collect returns sorted snapshots of matching layers. Caller must hold m.mu.
func (m *Manager) collect(match func(*state) bool) []Info {
	matched := make([]*state, 0, len(m.layers))
	for _, s := range m.layers {
		if match(s) {
			matched = append(matched, s)
		}
	}
	slices.SortFunc(matched, compareLayers)

	out := make([]Info, len(matched))
	for i, s := range matched {
		out[i] = s.info()
	}
	return out
}

// snapshotListeners copies the listener list. Caller must hold m.mu.
func (m *Manager) snapshotListeners() []listener {
	if len(m.listeners) == 0 {
		return nil
	}
	return slices.Clone(m.listeners)
}

// notify delivers changes to listeners without holding the lock.
func (m *Manager) notify(listeners []listener, changes []Change) {
	for _, c := range changes {
		for _, l := range listeners {
			composite.SafeCall("layer", func() { l.fn(c) })
		}
	}
}

func compareLayers(a, b *state) int {
	if c := cmp.Compare(a.zOrder, b.zOrder); c != 0 {
		return c
	}
	return cmp.Compare(a.id, b.id)
}
