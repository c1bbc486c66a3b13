// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package canvas

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/composite"
	"github.com/gogpu/composite/hierarchy"
)

// Common errors returned by Tree and Canvas operations.
var (
	// ErrDuplicateCanvas is returned when a canvas id is already in use.
	ErrDuplicateCanvas = errors.New("canvas: duplicate canvas id")

	// ErrDestroyed is returned when operating on a destroyed canvas.
	ErrDestroyed = errors.New("canvas: canvas is destroyed")

	// ErrForeignCanvas is returned when linking canvases from different trees.
	ErrForeignCanvas = errors.New("canvas: canvas belongs to another tree")
)

// Hit is the result of a hit test. Widget is empty when the point falls on
// the canvas background.
type Hit struct {
	Canvas string
	Widget string
}

// Tree is a registry of canvases and the hierarchy that links them.
// Create one per window or scene and pass it to whatever builds the UI.
//
// Tree is safe for concurrent use.
type Tree struct {
	hier   *hierarchy.Manager
	device gpucontext.DeviceProvider

	mu       sync.Mutex
	canvases map[string]*Canvas
}

// NewTree creates an empty tree.
func NewTree(opts ...TreeOption) *Tree {
	var o treeOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Tree{
		hier:     hierarchy.NewManager(),
		device:   o.device,
		canvases: make(map[string]*Canvas),
	}
}

// NewCanvas creates a root canvas. A root's local space is world space, so
// only the size of its bounds matters until Canvas.AddChild nests it; bounds
// are then interpreted in the parent's local space.
func (t *Tree) NewCanvas(id string, bounds composite.Bounds, opts ...Option) (*Canvas, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.canvases[id]; exists || !t.hier.Register(id, bounds) {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateCanvas, id)
	}
	c := newCanvas(t, id, o)
	t.canvases[id] = c

	composite.Logger().Debug("canvas: created", "id", id, "bounds", bounds)
	return c, nil
}

// Canvas returns the canvas with the given id.
func (t *Tree) Canvas(id string) (*Canvas, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, ok := t.canvases[id]
	return c, ok
}

// Len returns the number of live canvases.
func (t *Tree) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.canvases)
}

// Roots returns the canvases without a parent in render order.
func (t *Tree) Roots() []*Canvas {
	return t.lookup(t.hier.Roots())
}

// Hierarchy returns the manager holding the canvas tree structure.
func (t *Tree) Hierarchy() *hierarchy.Manager {
	return t.hier
}

// Device returns the device provider attached with WithDevice, or nil.
func (t *Tree) Device() gpucontext.DeviceProvider {
	return t.device
}

// Render draws every root canvas and its subtree, back to front.
func (t *Tree) Render(r Renderer) error {
	total := 0
	for _, root := range t.Roots() {
		n, err := root.render(r, composite.Bounds{}, false)
		total += n
		if err != nil {
			return err
		}
	}
	composite.Logger().Debug("canvas: rendered tree", "commands", total)
	return nil
}

// HitTest returns the topmost widget or canvas at the world-space point.
func (t *Tree) HitTest(x, y int) (Hit, bool) {
	roots := t.Roots()
	for i := len(roots) - 1; i >= 0; i-- {
		if h, ok := roots[i].hitTest(x, y, composite.Bounds{}, false); ok {
			return h, true
		}
	}
	return Hit{}, false
}

// lookup resolves ids to canvases sorted by (z-order, id), skipping ids
// that are no longer registered.
func (t *Tree) lookup(ids []string) []*Canvas {
	t.mu.Lock()
	out := make([]*Canvas, 0, len(ids))
	for _, id := range ids {
		if c, ok := t.canvases[id]; ok {
			out = append(out, c)
		}
	}
	t.mu.Unlock()

	slices.SortStableFunc(out, func(a, b *Canvas) int {
		if c := cmp.Compare(a.ZOrder(), b.ZOrder()); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})
	return out
}

// forget removes a destroyed canvas from the registry and the hierarchy.
func (t *Tree) forget(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.canvases, id)
	t.hier.Unregister(id)
}
