// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package layer assigns widgets to named z-order buckets and derives a
// deterministic back-to-front render order.
package layer

import (
	"slices"
	"time"
)

// Type classifies a layer by purpose.
type Type uint8

// Layer types.
const (
	// TypeContent holds regular widgets.
	TypeContent Type = iota

	// TypeBackground holds wallpaper and decoration behind content.
	TypeBackground

	// TypeOverlay holds widgets drawn over content, such as HUDs.
	TypeOverlay

	// TypePopup holds dropdowns, menus and dialogs.
	TypePopup

	// TypeTooltip holds transient hints drawn above everything else.
	TypeTooltip
)

// String returns a human-readable name for the layer type.
func (t Type) String() string {
	switch t {
	case TypeContent:
		return "Content"
	case TypeBackground:
		return "Background"
	case TypeOverlay:
		return "Overlay"
	case TypePopup:
		return "Popup"
	case TypeTooltip:
		return "Tooltip"
	default:
		return "Unknown"
	}
}

// Info is a snapshot of a layer.
type Info struct {
	ID      string
	ZOrder  int
	Type    Type
	Visible bool
	Alpha   float64

	// Widgets lists the member widget ids in lexical order.
	Widgets []string

	LastModified time.Time
}

// Renderable reports whether the layer contributes to the render order.
func (i Info) Renderable() bool {
	return renderable(i.Visible, i.Alpha)
}

// Change records that a widget's effective z-order changed.
type Change struct {
	WidgetID string

	// OldZOrder is valid when HadOld is true.
	OldZOrder int
	HadOld    bool

	// NewZOrder is valid when HasNew is true.
	NewZOrder int
	HasNew    bool

	Timestamp time.Time
}

// state is the mutable layer record owned by a Manager.
type state struct {
	id           string
	zOrder       int
	typ          Type
	visible      bool
	alpha        float64
	widgets      map[string]struct{}
	lastModified time.Time
}

func (s *state) info() Info {
	return Info{
		ID:           s.id,
		ZOrder:       s.zOrder,
		Type:         s.typ,
		Visible:      s.visible,
		Alpha:        s.alpha,
		Widgets:      s.sortedWidgets(),
		LastModified: s.lastModified,
	}
}

func (s *state) renderable() bool {
	return renderable(s.visible, s.alpha)
}

func (s *state) sortedWidgets() []string {
	ids := make([]string, 0, len(s.widgets))
	for id := range s.widgets {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// renderable treats a non-positive alpha as invisible.
func renderable(visible bool, alpha float64) bool {
	return visible && alpha > 0
}

// clampAlpha clamps alpha to [0, 1] range.
func clampAlpha(alpha float64) float64 {
	if alpha < 0 {
		return 0
	}
	if alpha > 1 {
		return 1
	}
	return alpha
}
