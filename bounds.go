// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package composite

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
)

// Bounds is an immutable axis-aligned rectangle with integer coordinates.
// X and Y are the top-left corner; Width and Height are never negative
// when built through NewBounds.
//
// Bounds uses half-open edge semantics: the left and top edges are inside,
// the right and bottom edges are outside. Two bounds that only touch at an
// edge do not intersect.
type Bounds struct {
	X, Y          int
	Width, Height int
}

// NewBounds creates a Bounds from position and size.
// Negative sizes are clamped to zero.
func NewBounds(x, y, width, height int) Bounds {
	return Bounds{X: x, Y: y, Width: max(width, 0), Height: max(height, 0)}
}

// FromRectangle converts an image.Rectangle to Bounds.
func FromRectangle(r image.Rectangle) Bounds {
	r = r.Canon()
	return Bounds{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Right returns the x-coordinate of the right edge (exclusive).
func (b Bounds) Right() int {
	return b.X + b.Width
}

// Bottom returns the y-coordinate of the bottom edge (exclusive).
func (b Bounds) Bottom() int {
	return b.Y + b.Height
}

// IsEmpty returns true if the rectangle has zero area.
func (b Bounds) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Area returns the area in pixels, or 0 for empty bounds.
func (b Bounds) Area() int {
	if b.IsEmpty() {
		return 0
	}
	return b.Width * b.Height
}

// ContainsPoint returns true if (x, y) lies inside the rectangle.
func (b Bounds) ContainsPoint(x, y int) bool {
	return x >= b.X && x < b.Right() && y >= b.Y && y < b.Bottom()
}

// ContainsBounds returns true if other is fully enclosed by b.
// Edges may coincide.
func (b Bounds) ContainsBounds(other Bounds) bool {
	return other.X >= b.X && other.Y >= b.Y &&
		other.Right() <= b.Right() && other.Bottom() <= b.Bottom()
}

// Intersects returns true if the two rectangles share a region of
// positive area.
func (b Bounds) Intersects(other Bounds) bool {
	return max(b.X, other.X) < min(b.Right(), other.Right()) &&
		max(b.Y, other.Y) < min(b.Bottom(), other.Bottom())
}

// Intersect returns the overlapping rectangle of b and other.
// Returns the zero Bounds {0,0,0,0} if they do not overlap.
func (b Bounds) Intersect(other Bounds) Bounds {
	x0 := max(b.X, other.X)
	y0 := max(b.Y, other.Y)
	x1 := min(b.Right(), other.Right())
	y1 := min(b.Bottom(), other.Bottom())

	if x1 <= x0 || y1 <= y0 {
		return Bounds{}
	}
	return Bounds{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Union returns the smallest rectangle enclosing both b and other.
func (b Bounds) Union(other Bounds) Bounds {
	x0 := min(b.X, other.X)
	y0 := min(b.Y, other.Y)
	x1 := max(b.Right(), other.Right())
	y1 := max(b.Bottom(), other.Bottom())
	return Bounds{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Translate returns b moved by (dx, dy).
func (b Bounds) Translate(dx, dy int) Bounds {
	return Bounds{X: b.X + dx, Y: b.Y + dy, Width: b.Width, Height: b.Height}
}

// WithOrigin returns b moved so its top-left corner is (x, y).
func (b Bounds) WithOrigin(x, y int) Bounds {
	return Bounds{X: x, Y: y, Width: b.Width, Height: b.Height}
}

// Rectangle converts b to an image.Rectangle.
func (b Bounds) Rectangle() image.Rectangle {
	return image.Rect(b.X, b.Y, b.Right(), b.Bottom())
}

// Extent returns the size of b as a GPU texture extent with a single
// array layer. Renderer backends use it to allocate per-canvas surfaces.
func (b Bounds) Extent() gputypes.Extent3D {
	//nolint:gosec // G115: sizes are clamped to be non-negative
	return gputypes.Extent3D{
		Width:              uint32(max(b.Width, 0)),
		Height:             uint32(max(b.Height, 0)),
		DepthOrArrayLayers: 1,
	}
}

// String returns a human-readable representation.
func (b Bounds) String() string {
	return fmt.Sprintf("Bounds(%d,%d %dx%d)", b.X, b.Y, b.Width, b.Height)
}
