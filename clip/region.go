// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package clip maintains stacks of clipping regions and answers visibility
// questions about widget rectangles against the active clip.
//
// The package also provides OverflowDetector, which classifies how a widget
// overflows its container, and Optimizer, a memoization cache for
// rectangle intersections.
package clip

import (
	"fmt"

	"github.com/gogpu/composite"
)

// Mode controls whether a region narrows the active clip.
type Mode uint8

// Clip modes.
const (
	// Strict clips content to the region bounds.
	Strict Mode = iota

	// Soft records the region without narrowing the active clip.
	Soft

	// OverflowHidden clips like Strict.
	OverflowHidden

	// OverflowScroll marks a scrolling container; content is clipped by the
	// viewport rather than by the region.
	OverflowScroll

	// None disables clipping for the region.
	None
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case Strict:
		return "Strict"
	case Soft:
		return "Soft"
	case OverflowHidden:
		return "OverflowHidden"
	case OverflowScroll:
		return "OverflowScroll"
	case None:
		return "None"
	default:
		return "Unknown"
	}
}

// Narrows reports whether regions of this mode constrain the active bounds.
func (m Mode) Narrows() bool {
	return m == Strict || m == OverflowHidden
}

// RegionID identifies a region pushed onto a Manager.
type RegionID uint64

// Region is a rectangle constraining what is visible beneath it.
type Region struct {
	Bounds composite.Bounds
	Mode   Mode

	// Enabled regions take part in the active bounds computation.
	Enabled bool

	// ClipChildren asks the owner to apply this region to nested canvases.
	ClipChildren bool

	// Priority orders regions when computing the active bounds; higher
	// priorities are applied first.
	Priority int
}

// NewRegion creates an enabled region that also clips children.
func NewRegion(b composite.Bounds, mode Mode) Region {
	return Region{
		Bounds:       b,
		Mode:         mode,
		Enabled:      true,
		ClipChildren: true,
	}
}

// String returns a human-readable representation.
func (r Region) String() string {
	return fmt.Sprintf("Region(%v %s enabled=%t priority=%d)", r.Bounds, r.Mode, r.Enabled, r.Priority)
}
