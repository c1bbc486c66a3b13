// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package clip

import "github.com/gogpu/composite"

// Strategy is a suggested way to handle a widget that overflows its
// container.
type Strategy uint8

// Overflow handling strategies.
const (
	// StrategyNone means the widget fits.
	StrategyNone Strategy = iota

	// StrategyClip hides a small overflow.
	StrategyClip

	// StrategyScroll puts the widget in a scrolling container.
	StrategyScroll

	// StrategyResize shrinks the widget to fit.
	StrategyResize
)

// String returns a human-readable name for the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyNone:
		return "none"
	case StrategyClip:
		return "clip"
	case StrategyScroll:
		return "scroll"
	case StrategyResize:
		return "resize"
	default:
		return "unknown"
	}
}

// Thresholds used by OverflowDetector.
const (
	// ClipThreshold is the total overflow in pixels below which clipping
	// is suggested.
	ClipThreshold = 20

	// ScrollWidthRatio is the widget-to-container width ratio above which
	// scrolling is suggested.
	ScrollWidthRatio = 1.5
)

// Overflow is the number of pixels a widget extends past each side of its
// container. Every field is non-negative.
type Overflow struct {
	Top, Right, Bottom, Left int
}

// Any reports whether the widget overflows on at least one side.
func (o Overflow) Any() bool {
	return o.Top > 0 || o.Right > 0 || o.Bottom > 0 || o.Left > 0
}

// Total returns the sum of the overflow on all four sides.
func (o Overflow) Total() int {
	return o.Top + o.Right + o.Bottom + o.Left
}

// Horizontal reports whether the widget overflows on the left or right.
func (o Overflow) Horizontal() bool {
	return o.Left > 0 || o.Right > 0
}

// Vertical reports whether the widget overflows on the top or bottom.
func (o Overflow) Vertical() bool {
	return o.Top > 0 || o.Bottom > 0
}

// OverflowDetector classifies how a widget rectangle overflows a container
// rectangle. It holds no state.
type OverflowDetector struct{}

// Detect computes the per-side overflow of widget relative to container.
func (OverflowDetector) Detect(widget, container composite.Bounds) Overflow {
	return Overflow{
		Top:    max(0, container.Y-widget.Y),
		Right:  max(0, widget.Right()-container.Right()),
		Bottom: max(0, widget.Bottom()-container.Bottom()),
		Left:   max(0, container.X-widget.X),
	}
}

// Suggest picks a strategy for widget inside container:
// no overflow is none, a total overflow under ClipThreshold is clip, a
// widget wider than ScrollWidthRatio times the container is scroll, and
// anything else is resize.
func (d OverflowDetector) Suggest(widget, container composite.Bounds) Strategy {
	o := d.Detect(widget, container)
	switch {
	case !o.Any():
		return StrategyNone
	case o.Total() < ClipThreshold:
		return StrategyClip
	case float64(widget.Width) > ScrollWidthRatio*float64(container.Width):
		return StrategyScroll
	default:
		return StrategyResize
	}
}
