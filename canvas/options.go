// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package canvas

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/composite/viewport"
)

// TreeOption configures a Tree during creation.
type TreeOption func(*treeOptions)

type treeOptions struct {
	device gpucontext.DeviceProvider
}

// WithDevice attaches the host's GPU device provider. It is passed through
// to the Renderer in every Frame and supplies the default surface format.
//
// Example:
//
//	tree := canvas.NewTree(canvas.WithDevice(app.GPUContextProvider()))
func WithDevice(provider gpucontext.DeviceProvider) TreeOption {
	return func(o *treeOptions) {
		o.device = provider
	}
}

// Option configures a Canvas during creation.
type Option func(*options)

type options struct {
	zOrder       int
	visible      bool
	clipChildren bool
	viewport     *viewport.Viewport
	format       gputypes.TextureFormat
	hasFormat    bool
}

func defaultOptions() options {
	return options{
		visible:      true,
		clipChildren: true,
	}
}

// WithZOrder sets the canvas's order among its siblings.
// Higher values render later.
func WithZOrder(z int) Option {
	return func(o *options) {
		o.zOrder = z
	}
}

// WithVisible sets the initial visibility. Canvases are visible by default.
func WithVisible(visible bool) Option {
	return func(o *options) {
		o.visible = visible
	}
}

// WithClipChildren controls whether child canvases are clipped to this
// canvas's rectangle. Enabled by default.
func WithClipChildren(clip bool) Option {
	return func(o *options) {
		o.clipChildren = clip
	}
}

// WithViewport makes the canvas content scrollable through vp.
// The canvas does not own vp; the caller drives its Update loop.
func WithViewport(vp *viewport.Viewport) Option {
	return func(o *options) {
		o.viewport = vp
	}
}

// WithSurfaceFormat overrides the texture format reported by Surface.
func WithSurfaceFormat(format gputypes.TextureFormat) Option {
	return func(o *options) {
		o.format = format
		o.hasFormat = true
	}
}
