// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package coord

import "github.com/gogpu/composite"

// Transform maps between a parent canvas and one of its children.
//
// The child bounds are expressed in the parent's coordinate space, so the
// child's origin is the translation between the two spaces. A Transform is
// derived from the two bounds and is rebuilt whenever either changes.
type Transform struct {
	parent composite.Bounds
	child  composite.Bounds
}

// NewTransform creates the transform for child placed inside parent.
func NewTransform(parent, child composite.Bounds) Transform {
	return Transform{parent: parent, child: child}
}

// Identity returns a transform with no offset, used for root canvases.
func Identity(b composite.Bounds) Transform {
	return Transform{parent: b, child: b.WithOrigin(0, 0)}
}

// ParentBounds returns the parent bounds the transform was built from.
func (t Transform) ParentBounds() composite.Bounds {
	return t.parent
}

// ChildBounds returns the child bounds in parent space.
func (t Transform) ChildBounds() composite.Bounds {
	return t.child
}

// Offset returns the translation from child space to parent space.
func (t Transform) Offset() (dx, dy int) {
	return t.child.X, t.child.Y
}

// ParentToChild converts a point from parent space to child space.
func (t Transform) ParentToChild(x, y int) (int, int) {
	return x - t.child.X, y - t.child.Y
}

// ChildToParent converts a point from child space to parent space.
// It is the exact inverse of ParentToChild.
func (t Transform) ChildToParent(x, y int) (int, int) {
	return x + t.child.X, y + t.child.Y
}

// BoundsToParent converts a rectangle from child space to parent space.
func (t Transform) BoundsToParent(b composite.Bounds) composite.Bounds {
	return b.Translate(t.child.X, t.child.Y)
}

// BoundsToChild converts a rectangle from parent space to child space.
func (t Transform) BoundsToChild(b composite.Bounds) composite.Bounds {
	return b.Translate(-t.child.X, -t.child.Y)
}

// VisibleChildBounds returns, in child coordinates, the part of the child
// that lies inside the parent. The zero Bounds is returned if they are
// disjoint.
//
// The parent rectangle is taken in its own local space, with its origin
// at (0, 0).
func (t Transform) VisibleChildBounds() composite.Bounds {
	local := t.parent.WithOrigin(0, 0)
	visible := local.Intersect(t.child)
	if visible.IsEmpty() {
		return composite.Bounds{}
	}
	return t.BoundsToChild(visible)
}
