// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package canvas composes the layer, clip, viewport and hierarchy managers
// into a tree of canvases that host widgets.
//
// A Tree owns the hierarchy and the registry of canvases. Each Canvas owns
// its own layer.Manager and clip.Manager and optionally a viewport.Viewport
// for scrolled content. Rendering walks the tree top-down and emits one
// DrawCommand per visible widget; the canvas never draws pixels itself.
//
// # Coordinate spaces
//
// Widget bounds are expressed in their canvas's content space. Without a
// viewport, content space is the canvas's local space with the origin at its
// top-left corner. With a viewport, content space is scrolled: a widget at
// content (x, y) appears at local (x-scrollX, y-scrollY).
//
// Child canvases are positioned in their parent's local space and do not
// move with the parent's scroll position. DrawCommand bounds are in world
// space, the local space of the root canvas.
//
// # Lifecycle
//
// A canvas starts in StateCreated and renders only while StateActive.
// Activate, Pause and Destroy apply to the canvas first and then to its
// children. Destroy releases children depth-first before the canvas
// detaches from its own parent.
package canvas
