// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package composite decides, for a tree of canvases and the widgets placed on
// them, what is visible, in what order, and in which coordinate space.
//
// # Overview
//
// composite is the compositing core of a small-display UI toolkit. It never
// draws a pixel. Renderer backends consume its output: a back-to-front widget
// order, clipped widget bounds and world-space coordinates.
//
// # Architecture
//
// The module is organized into:
//   - composite: Bounds value type and the shared logger
//   - coord: positions (absolute, relative, parent-relative) and
//     parent/child offset transforms
//   - clip: clip region stack, overflow classification, clip result cache
//   - layer: named z-order buckets and cached render order
//   - viewport: scrollable windows and list virtualization
//   - hierarchy: canvas tree bookkeeping (depth, ancestry, world transforms)
//   - canvas: composes all of the above into renderable canvases
//
// # Coordinate System
//
// Uses standard screen coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//
// Child canvas bounds are expressed in their parent's coordinate space.
// World space is the root canvas space, reached by summing ancestor offsets.
//
// # Thread Safety
//
// Every manager guards its state with its own mutex. There is no locking
// between managers; callers that need a consistent snapshot across several
// managers must synchronize at a higher level.
package composite

// Version is the current version of the library.
const Version = "0.1.0"
