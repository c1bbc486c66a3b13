// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package canvas

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/composite"
)

// Widget is the view of a widget the canvas needs for layering, clipping
// and hit testing.
type Widget interface {
	// ID returns the widget's unique id within its canvas.
	ID() string

	// Bounds returns the widget rectangle in canvas content space.
	Bounds() composite.Bounds

	// Visible reports whether the widget should be drawn.
	Visible() bool

	// Alpha returns the widget opacity in [0, 1].
	Alpha() float64
}

// LayerHinter is implemented by widgets that choose their own layer.
// SyncWidget moves such a widget when the hint changes.
type LayerHinter interface {
	Layer() string
}

// Surface describes the render target a backend allocates for a canvas.
type Surface struct {
	Format gputypes.TextureFormat
	Size   gputypes.Extent3D
}

// Frame carries per-canvas context to the Renderer.
type Frame struct {
	// Canvas is the id of the canvas being drawn.
	Canvas string

	// Depth is the canvas depth in the tree; roots are 0.
	Depth int

	// Device is the host device provider, nil when none was attached.
	Device gpucontext.DeviceProvider

	Surface Surface

	// Scroll is the sub-pixel viewport scroll of the canvas content.
	// Zero without a viewport. DrawCommand bounds are already shifted by
	// the scroll rounded to whole pixels.
	Scroll fixed.Point26_6
}

// DrawCommand asks the renderer to draw one widget.
type DrawCommand struct {
	WidgetID string
	Layer    string

	// Bounds is the full widget rectangle in world space.
	Bounds composite.Bounds

	// Clip is the visible part of Bounds in world space. It is never empty.
	Clip composite.Bounds

	// Alpha is the widget alpha multiplied by its layer alpha.
	Alpha float64
}

// Renderer consumes draw commands produced by Render.
type Renderer interface {
	Draw(f Frame, cmd DrawCommand) error
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(f Frame, cmd DrawCommand) error

// Draw calls fn(f, cmd).
func (fn RendererFunc) Draw(f Frame, cmd DrawCommand) error {
	return fn(f, cmd)
}
