// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package canvas

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/composite"
	"github.com/gogpu/composite/clip"
	"github.com/gogpu/composite/layer"
	"github.com/gogpu/composite/viewport"
)

// DefaultLayer is the content layer every canvas starts with.
// AddWidget uses it when no layer id is given.
const DefaultLayer = "content"

// State is the lifecycle state of a canvas.
type State uint8

// Canvas states.
const (
	StateCreated State = iota
	StateActive
	StatePaused
	StateDestroyed
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "Created"
	case StateActive:
		return "Active"
	case StatePaused:
		return "Paused"
	case StateDestroyed:
		return "Destroyed"
	default:
		return "Unknown"
	}
}

// Canvas is a rectangular surface that hosts widgets and child canvases.
//
// Canvas is safe for concurrent use. Widgets are called without any canvas
// lock held.
type Canvas struct {
	tree      *Tree
	id        string
	layers    *layer.Manager
	clips     *clip.Manager
	vp        *viewport.Viewport
	format    gputypes.TextureFormat
	hasFormat bool

	mu           sync.Mutex
	state        State
	zOrder       int
	visible      bool
	clipChildren bool
	widgets      map[string]*entry
	damage       composite.Bounds
	damaged      bool
}

type entry struct {
	widget Widget
	bounds composite.Bounds // as of the last sync
}

func newCanvas(t *Tree, id string, o options) *Canvas {
	c := &Canvas{
		tree:         t,
		id:           id,
		layers:       layer.NewManager(),
		clips:        clip.NewManager(),
		vp:           o.viewport,
		format:       o.format,
		hasFormat:    o.hasFormat,
		zOrder:       o.zOrder,
		visible:      o.visible,
		clipChildren: o.clipChildren,
		widgets:      make(map[string]*entry),
	}
	c.layers.CreateLayer(DefaultLayer, 0, layer.TypeContent)
	return c
}

// ID returns the canvas id.
func (c *Canvas) ID() string {
	return c.id
}

// Layers returns the canvas's layer manager.
func (c *Canvas) Layers() *layer.Manager {
	return c.layers
}

// Clips returns the canvas's clip stack. Regions pushed here are in content
// space and apply to every Render until popped.
func (c *Canvas) Clips() *clip.Manager {
	return c.clips
}

// Viewport returns the attached viewport, or nil.
func (c *Canvas) Viewport() *viewport.Viewport {
	return c.vp
}

// State returns the lifecycle state.
func (c *Canvas) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// ZOrder returns the order among siblings.
func (c *Canvas) ZOrder() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.zOrder
}

// SetZOrder changes the order among siblings.
func (c *Canvas) SetZOrder(z int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.zOrder = z
}

// Visible reports whether the canvas is drawn.
func (c *Canvas) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.visible
}

// SetVisible shows or hides the canvas and its subtree.
func (c *Canvas) SetVisible(visible bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.visible = visible
}

// Bounds returns the canvas rectangle in its parent's space.
func (c *Canvas) Bounds() composite.Bounds {
	b, _ := c.tree.hier.Bounds(c.id)
	return b
}

// SetBounds moves or resizes the canvas. An attached viewport is resized to
// match. Returns false once the canvas is destroyed.
func (c *Canvas) SetBounds(b composite.Bounds) bool {
	if !c.tree.hier.SetBounds(c.id, b) {
		return false
	}
	if c.vp != nil {
		c.vp.Resize(b.Width, b.Height)
	}
	c.markDamaged(composite.Bounds{Width: b.Width, Height: b.Height})
	return true
}

// WorldBounds returns the canvas rectangle in world space.
func (c *Canvas) WorldBounds() composite.Bounds {
	b, _ := c.tree.hier.WorldBounds(c.id)
	return b
}

// Surface describes the render target for this canvas. The format comes
// from WithSurfaceFormat, then the tree's device, then RGBA8.
func (c *Canvas) Surface() Surface {
	format := gputypes.TextureFormatRGBA8Unorm
	switch {
	case c.hasFormat:
		format = c.format
	case c.tree.device != nil:
		format = c.tree.device.SurfaceFormat()
	}
	return Surface{Format: format, Size: c.Bounds().Extent()}
}

// AddWidget places w on the given layer, or on DefaultLayer when layerID is
// empty. Adding a widget that is already present moves it.
// Returns false if the layer does not exist or the canvas is destroyed.
func (c *Canvas) AddWidget(w Widget, layerID string) bool {
	if layerID == "" {
		layerID = DefaultLayer
	}
	id, b := w.ID(), w.Bounds()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateDestroyed || !c.layers.AddWidgetToLayer(id, layerID) {
		return false
	}
	if old, ok := c.widgets[id]; ok {
		c.damageLocked(old.bounds)
	}
	c.widgets[id] = &entry{widget: w, bounds: b}
	c.damageLocked(b)
	return true
}

// RemoveWidget removes a widget from the canvas and its layer.
func (c *Canvas) RemoveWidget(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.widgets[id]
	if !ok {
		return false
	}
	delete(c.widgets, id)
	c.layers.RemoveWidget(id)
	c.damageLocked(e.bounds)
	return true
}

// Widget returns the widget with the given id.
func (c *Canvas) Widget(id string) (Widget, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.widgets[id]
	if !ok {
		return nil, false
	}
	return e.widget, true
}

// Widgets returns the ids of all widgets, sorted.
func (c *Canvas) Widgets() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Sorted(maps.Keys(c.widgets))
}

// SyncWidget is the change hook a widget calls after mutating itself.
// It damages the old and new rectangles and, for widgets implementing
// LayerHinter, moves the widget to its hinted layer.
// Returns false if the widget is unknown.
func (c *Canvas) SyncWidget(id string) bool {
	c.mu.Lock()
	e, ok := c.widgets[id]
	c.mu.Unlock()
	if !ok {
		return false
	}

	b := e.widget.Bounds()
	var hint string
	if h, ok := e.widget.(LayerHinter); ok {
		hint = h.Layer()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.widgets[id] != e {
		return false
	}
	if hint != "" {
		if cur, _ := c.layers.WidgetLayer(id); cur != hint && !c.layers.AddWidgetToLayer(id, hint) {
			composite.Logger().Warn("canvas: unknown layer hint", "canvas", c.id, "widget", id, "layer", hint)
		}
	}
	c.damageLocked(e.bounds)
	c.damageLocked(b)
	e.bounds = b
	return true
}

// Damage returns the union of content-space rectangles changed since the
// last Render. The second result is false when nothing changed.
func (c *Canvas) Damage() (composite.Bounds, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.damage, c.damaged
}

// Parent returns the parent canvas.
func (c *Canvas) Parent() (*Canvas, bool) {
	id, ok := c.tree.hier.Parent(c.id)
	if !ok {
		return nil, false
	}
	return c.tree.Canvas(id)
}

// Children returns the child canvases in render order.
func (c *Canvas) Children() []*Canvas {
	return c.tree.lookup(c.tree.hier.Children(c.id))
}

// AddChild nests child inside c, detaching it from any previous parent.
// The child's bounds are then interpreted in c's local space.
func (c *Canvas) AddChild(child *Canvas) error {
	if child == nil || child.tree != c.tree {
		return ErrForeignCanvas
	}
	if c.State() == StateDestroyed || child.State() == StateDestroyed {
		return fmt.Errorf("%w: %q -> %q", ErrDestroyed, c.id, child.id)
	}
	return c.tree.hier.AddChild(c.id, child.id)
}

// RemoveChild detaches child, making it a root of the tree.
func (c *Canvas) RemoveChild(child *Canvas) bool {
	if child == nil || child.tree != c.tree {
		return false
	}
	return c.tree.hier.RemoveChild(c.id, child.id)
}

// Activate makes the canvas and its subtree renderable.
func (c *Canvas) Activate() error {
	return c.transition(StateActive)
}

// Pause stops rendering the canvas and its subtree.
func (c *Canvas) Pause() error {
	return c.transition(StatePaused)
}

// Destroy releases the canvas. Children are destroyed first, then the
// canvas detaches from its parent and leaves the tree.
// Returns false if it was already destroyed.
func (c *Canvas) Destroy() bool {
	c.mu.Lock()
	if c.state == StateDestroyed {
		c.mu.Unlock()
		return false
	}
	c.state = StateDestroyed
	ids := slices.Collect(maps.Keys(c.widgets))
	clear(c.widgets)
	c.mu.Unlock()

	for _, child := range c.Children() {
		child.Destroy()
	}
	for _, id := range ids {
		c.layers.RemoveWidget(id)
	}
	c.clips.Reset()
	c.tree.forget(c.id)

	composite.Logger().Debug("canvas: destroyed", "id", c.id)
	return true
}

// Render draws this canvas and its subtree through r.
func (c *Canvas) Render(r Renderer) error {
	n, err := c.render(r, composite.Bounds{}, false)
	composite.Logger().Debug("canvas: rendered", "id", c.id, "commands", n)
	return err
}

// HitTest returns the topmost widget or canvas in this subtree at the
// world-space point.
func (c *Canvas) HitTest(x, y int) (Hit, bool) {
	return c.hitTest(x, y, composite.Bounds{}, false)
}

func (c *Canvas) transition(s State) error {
	c.mu.Lock()
	if c.state == StateDestroyed {
		c.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrDestroyed, c.id)
	}
	c.state = s
	c.mu.Unlock()

	for _, child := range c.Children() {
		if err := child.transition(s); err != nil {
			return err
		}
	}
	return nil
}

// markDamaged adds b to the damage region.
func (c *Canvas) markDamaged(b composite.Bounds) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.damageLocked(b)
}

// damageLocked adds b to the damage region. Caller must hold c.mu.
func (c *Canvas) damageLocked(b composite.Bounds) {
	if b.IsEmpty() {
		return
	}
	if !c.damaged {
		c.damage, c.damaged = b, true
		return
	}
	c.damage = c.damage.Union(b)
}

// snapshot returns what a render or hit test needs, or ok=false if the
// canvas is not active and visible.
func (c *Canvas) snapshot() (widgets map[string]Widget, clipChildren, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateActive || !c.visible {
		return nil, false, false
	}
	widgets = make(map[string]Widget, len(c.widgets))
	for id, e := range c.widgets {
		widgets[id] = e.widget
	}
	return widgets, c.clipChildren, true
}

// frame returns the window this canvas may draw into and the limit passed
// to its children. Enabled narrowing regions on the clip stack that have
// ClipChildren set further restrict the children.
func (c *Canvas) frame(limit composite.Bounds, bounded, clipChildren bool) (world, window, childLimit composite.Bounds, childBounded bool) {
	world, _ = c.tree.hier.WorldBounds(c.id)
	window = world
	if bounded {
		window = window.Intersect(limit)
	}
	childLimit, childBounded = limit, bounded
	if clipChildren {
		childLimit, childBounded = window, true
	}

	sx, sy := c.scroll()
	for _, r := range c.clips.Regions() {
		if !r.Enabled || !r.ClipChildren || !r.Mode.Narrows() {
			continue
		}
		rb := r.Bounds.Translate(world.X-sx, world.Y-sy)
		if childBounded {
			childLimit = childLimit.Intersect(rb)
		} else {
			childLimit, childBounded = rb, true
		}
	}
	return world, window, childLimit, childBounded
}

// scroll returns the viewport scroll offset, or zero without a viewport.
func (c *Canvas) scroll() (int, int) {
	if c.vp == nil {
		return 0, 0
	}
	return c.vp.Scroll()
}
