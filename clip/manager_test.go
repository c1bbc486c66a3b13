// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package clip

import (
	"sync"
	"testing"

	"github.com/gogpu/composite"
)

func TestNewManager_Unbounded(t *testing.T) {
	m := NewManager()

	if m.Depth() != 0 {
		t.Errorf("Depth() = %d, want 0", m.Depth())
	}
	if _, bounded := m.ActiveBounds(); bounded {
		t.Error("ActiveBounds() bounded = true on empty manager, want false")
	}
	if !m.IsWidgetVisible(composite.NewBounds(-1000, -1000, 1, 1)) {
		t.Error("IsWidgetVisible() = false while unbounded, want true")
	}
	if !m.IsWidgetFullyVisible(composite.NewBounds(0, 0, 1e6, 1e6)) {
		t.Error("IsWidgetFullyVisible() = false while unbounded, want true")
	}
}

func TestManager_PushPop(t *testing.T) {
	m := NewManager()

	m.Push(NewRegion(composite.NewBounds(0, 0, 100, 100), Strict))
	m.Push(NewRegion(composite.NewBounds(20, 20, 50, 50), Strict))

	active, bounded := m.ActiveBounds()
	if !bounded || active != composite.NewBounds(20, 20, 50, 50) {
		t.Errorf("ActiveBounds() = (%v, %v), want (20,20,50,50)", active, bounded)
	}

	if _, ok := m.Pop(); !ok {
		t.Fatal("Pop() ok = false, want true")
	}
	active, bounded = m.ActiveBounds()
	if !bounded || active != composite.NewBounds(0, 0, 100, 100) {
		t.Errorf("ActiveBounds() after pop = (%v, %v), want (0,0,100,100)", active, bounded)
	}

	m.Pop()
	if _, bounded = m.ActiveBounds(); bounded {
		t.Error("ActiveBounds() bounded after popping everything, want unbounded")
	}
	if !m.IsWidgetVisible(composite.NewBounds(500, 500, 10, 10)) {
		t.Error("IsWidgetVisible() = false while unbounded, want true")
	}
}

func TestManager_RemoveByID(t *testing.T) {
	m := NewManager()

	frame := m.Push(NewRegion(composite.NewBounds(0, 0, 100, 100), Strict))
	m.Push(NewRegion(composite.NewBounds(5, 5, 10, 10), Strict))

	if !m.Remove(frame) {
		t.Fatal("Remove() = false for a region on the stack")
	}
	if m.Remove(frame) {
		t.Error("second Remove() = true")
	}

	regions := m.Regions()
	if len(regions) != 1 || regions[0].Bounds != composite.NewBounds(5, 5, 10, 10) {
		t.Errorf("Regions() = %v, want only the region pushed on top", regions)
	}
	active, bounded := m.ActiveBounds()
	if !bounded || active != composite.NewBounds(5, 5, 10, 10) {
		t.Errorf("ActiveBounds() = (%v, %v), want (5,5,10,10)", active, bounded)
	}
}

func TestManager_PopEmpty(t *testing.T) {
	m := NewManager()
	r, ok := m.Pop()
	if ok {
		t.Errorf("Pop() on empty stack = (%v, true), want false", r)
	}
	if _, ok := m.Peek(); ok {
		t.Error("Peek() on empty stack ok = true, want false")
	}
}

func TestManager_NonNarrowingModes(t *testing.T) {
	for _, mode := range []Mode{Soft, OverflowScroll, None} {
		t.Run(mode.String(), func(t *testing.T) {
			m := NewManager()
			m.Push(NewRegion(composite.NewBounds(0, 0, 10, 10), mode))
			if _, bounded := m.ActiveBounds(); bounded {
				t.Errorf("mode %v narrowed the active bounds", mode)
			}
		})
	}

	m := NewManager()
	m.Push(NewRegion(composite.NewBounds(0, 0, 100, 100), OverflowHidden))
	m.Push(NewRegion(composite.NewBounds(50, 50, 10, 10), Soft))
	active, _ := m.ActiveBounds()
	if active != composite.NewBounds(0, 0, 100, 100) {
		t.Errorf("ActiveBounds() = %v, want soft region ignored", active)
	}
}

func TestManager_SetRegionEnabled(t *testing.T) {
	m := NewManager()
	m.Push(NewRegion(composite.NewBounds(0, 0, 100, 100), Strict))
	inner := m.Push(NewRegion(composite.NewBounds(10, 10, 20, 20), Strict))

	gen := m.Generation()
	if !m.SetRegionEnabled(inner, false) {
		t.Fatal("SetRegionEnabled() = false for a pushed region")
	}
	if m.Generation() == gen {
		t.Error("Generation() unchanged after SetRegionEnabled")
	}
	if m.Depth() != 2 {
		t.Errorf("Depth() = %d, disabling must not remove the region", m.Depth())
	}
	active, _ := m.ActiveBounds()
	if active != composite.NewBounds(0, 0, 100, 100) {
		t.Errorf("ActiveBounds() = %v, want outer region only", active)
	}

	if m.SetRegionEnabled(RegionID(999), true) {
		t.Error("SetRegionEnabled() = true for an unknown region")
	}

	m.SetRegionEnabled(inner, true)
	active, _ = m.ActiveBounds()
	if active != composite.NewBounds(10, 10, 20, 20) {
		t.Errorf("ActiveBounds() = %v after re-enable", active)
	}
}

func TestManager_PriorityOrderAndDisjoint(t *testing.T) {
	m := NewManager()
	a := m.Push(NewRegion(composite.NewBounds(0, 0, 10, 10), Strict))
	m.Push(NewRegion(composite.NewBounds(50, 50, 10, 10), Strict))

	active, bounded := m.ActiveBounds()
	if !bounded || active != (composite.Bounds{}) {
		t.Errorf("ActiveBounds() = (%v, %v), want bounded degenerate", active, bounded)
	}
	if m.IsWidgetVisible(composite.NewBounds(0, 0, 100, 100)) {
		t.Error("IsWidgetVisible() = true inside an empty clip, want false")
	}

	if !m.SetRegionPriority(a, 5) {
		t.Fatal("SetRegionPriority() = false")
	}
	r, _ := m.Region(a)
	if r.Priority != 5 {
		t.Errorf("Region().Priority = %d, want 5", r.Priority)
	}
}

func TestManager_VisibilityQueries(t *testing.T) {
	m := NewManager()
	m.Push(NewRegion(composite.NewBounds(0, 0, 100, 100), Strict))

	tests := []struct {
		name        string
		widget      composite.Bounds
		visible     bool
		fully       bool
		clipped     composite.Bounds
		visibleArea float64
	}{
		{"inside", composite.NewBounds(10, 10, 20, 20), true, true, composite.NewBounds(10, 10, 20, 20), 1},
		{"half out", composite.NewBounds(80, 0, 40, 10), true, false, composite.NewBounds(80, 0, 20, 10), 0.5},
		{"outside", composite.NewBounds(200, 200, 10, 10), false, false, composite.Bounds{}, 0},
		{"edge touch", composite.NewBounds(100, 0, 10, 10), false, false, composite.Bounds{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.IsWidgetVisible(tt.widget); got != tt.visible {
				t.Errorf("IsWidgetVisible() = %v, want %v", got, tt.visible)
			}
			if got := m.IsWidgetFullyVisible(tt.widget); got != tt.fully {
				t.Errorf("IsWidgetFullyVisible() = %v, want %v", got, tt.fully)
			}
			if got := m.ClipWidgetBounds(tt.widget); got != tt.clipped {
				t.Errorf("ClipWidgetBounds() = %v, want %v", got, tt.clipped)
			}
			if got := m.CalculateVisibleArea(tt.widget); got != tt.visibleArea {
				t.Errorf("CalculateVisibleArea() = %v, want %v", got, tt.visibleArea)
			}
		})
	}
}

func TestManager_ClipWidgetBoundsUnbounded(t *testing.T) {
	m := NewManager()
	b := composite.NewBounds(-5, -5, 10, 10)
	if got := m.ClipWidgetBounds(b); got != b {
		t.Errorf("ClipWidgetBounds() = %v, want identity %v", got, b)
	}
	if got := m.CalculateVisibleArea(b); got != 1 {
		t.Errorf("CalculateVisibleArea() = %v, want 1", got)
	}
	if got := m.CalculateVisibleArea(composite.NewBounds(0, 0, 0, 10)); got != 0 {
		t.Errorf("CalculateVisibleArea() of empty widget = %v, want 0", got)
	}
}

func TestManager_Reset(t *testing.T) {
	m := NewManager()
	m.Push(NewRegion(composite.NewBounds(0, 0, 10, 10), Strict))
	m.Reset()
	if m.Depth() != 0 {
		t.Errorf("Depth() after Reset = %d", m.Depth())
	}
	if _, bounded := m.ActiveBounds(); bounded {
		t.Error("ActiveBounds() bounded after Reset")
	}
}

func TestManager_Concurrent(t *testing.T) {
	m := NewManager()
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				m.Push(NewRegion(composite.NewBounds(0, 0, 100, 100), Strict))
				m.Pop()
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				m.IsWidgetVisible(composite.NewBounds(i, i, 5, 5))
				m.ClipWidgetBounds(composite.NewBounds(i, 0, 5, 5))
			}
		}()
	}
	wg.Wait()

	if m.Depth() != 0 {
		t.Errorf("Depth() = %d after balanced push/pop, want 0", m.Depth())
	}
}
