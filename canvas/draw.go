// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package canvas

import (
	"fmt"

	"github.com/gogpu/composite"
	"github.com/gogpu/composite/clip"
)

// render emits draw commands for c and its subtree. limit, when bounded, is
// the world-space rectangle inherited from clipping ancestors. It returns
// the number of commands drawn.
func (c *Canvas) render(r Renderer, limit composite.Bounds, bounded bool) (int, error) {
	widgets, clipChildren, ok := c.snapshot()
	if !ok {
		return 0, nil
	}
	world, window, childLimit, childBounded := c.frame(limit, bounded, clipChildren)

	n, err := c.drawWidgets(r, widgets, world, window)
	if err != nil {
		return n, err
	}

	c.mu.Lock()
	c.damage, c.damaged = composite.Bounds{}, false
	c.mu.Unlock()

	for _, child := range c.Children() {
		m, err := child.render(r, childLimit, childBounded)
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func (c *Canvas) drawWidgets(r Renderer, widgets map[string]Widget, world, window composite.Bounds) (int, error) {
	if window.IsEmpty() || len(widgets) == 0 {
		return 0, nil
	}

	region, mode := composite.Bounds{Width: world.Width, Height: world.Height}, clip.Strict
	if c.vp != nil {
		region, mode = c.vp.VisibleBounds(), clip.OverflowScroll
	}
	// Remove by id: other goroutines may push onto the same stack while the
	// frame region is in place.
	frameID := c.clips.Push(clip.NewRegion(region, mode))
	defer c.clips.Remove(frameID)

	depth, _ := c.tree.hier.Depth(c.id)
	f := Frame{Canvas: c.id, Depth: depth, Device: c.tree.device, Surface: c.Surface()}
	if c.vp != nil {
		f.Scroll = c.vp.ScrollFixed()
	}
	// region's origin is the scroll offset; zero without a viewport.
	dx, dy := world.X-region.X, world.Y-region.Y
	layerAlpha := make(map[string]float64)

	n := 0
	for _, id := range c.layers.RenderOrder() {
		w, ok := widgets[id]
		if !ok || !w.Visible() || w.Alpha() <= 0 {
			continue
		}
		b := w.Bounds()
		if !c.clips.IsWidgetVisible(b) {
			continue
		}
		visible := c.clips.ClipWidgetBounds(b)
		if c.vp != nil {
			visible = visible.Intersect(region)
		}
		clipped := visible.Translate(dx, dy).Intersect(window)
		if clipped.IsEmpty() {
			continue
		}

		layerID, _ := c.layers.WidgetLayer(id)
		alpha, seen := layerAlpha[layerID]
		if !seen {
			alpha = 1
			if info, ok := c.layers.Layer(layerID); ok {
				alpha = info.Alpha
			}
			layerAlpha[layerID] = alpha
		}

		cmd := DrawCommand{
			WidgetID: id,
			Layer:    layerID,
			Bounds:   b.Translate(dx, dy),
			Clip:     clipped,
			Alpha:    w.Alpha() * alpha,
		}
		if err := r.Draw(f, cmd); err != nil {
			return n, fmt.Errorf("canvas %q: draw %q: %w", c.id, id, err)
		}
		n++
	}
	return n, nil
}

// hitTest searches children top-down before the canvas's own widgets.
// Widgets only count where they survive the clip stack, as in drawWidgets.
func (c *Canvas) hitTest(x, y int, limit composite.Bounds, bounded bool) (Hit, bool) {
	widgets, clipChildren, ok := c.snapshot()
	if !ok {
		return Hit{}, false
	}
	world, window, childLimit, childBounded := c.frame(limit, bounded, clipChildren)

	children := c.Children()
	for i := len(children) - 1; i >= 0; i-- {
		if h, ok := children[i].hitTest(x, y, childLimit, childBounded); ok {
			return h, true
		}
	}

	if !window.ContainsPoint(x, y) {
		return Hit{}, false
	}
	sx, sy := c.scroll()
	cx, cy := x-world.X+sx, y-world.Y+sy

	order := c.layers.RenderOrder()
	for i := len(order) - 1; i >= 0; i-- {
		w, ok := widgets[order[i]]
		if !ok || !w.Visible() || w.Alpha() <= 0 {
			continue
		}
		b := w.Bounds()
		if !c.clips.IsWidgetVisible(b) || !c.clips.ClipWidgetBounds(b).ContainsPoint(cx, cy) {
			continue
		}
		return Hit{Canvas: c.id, Widget: order[i]}, true
	}
	return Hit{Canvas: c.id}, true
}
