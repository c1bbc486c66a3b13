// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package layer

import (
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"
)

func newTestManager(opts ...Option) *Manager {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	clock := func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Millisecond)
	}
	return NewManager(append([]Option{WithClock(clock)}, opts...)...)
}

func TestManager_CreateLayer(t *testing.T) {
	m := newTestManager()

	if !m.CreateLayer("content", 10, TypeContent) {
		t.Fatal("CreateLayer() = false for a new layer")
	}
	if m.CreateLayer("content", 20, TypeOverlay) {
		t.Error("CreateLayer() = true for a duplicate id")
	}

	info, ok := m.Layer("content")
	if !ok {
		t.Fatal("Layer() ok = false")
	}
	if info.ZOrder != 10 || info.Type != TypeContent || !info.Visible || info.Alpha != 1 {
		t.Errorf("Layer() = %+v, want z=10 content visible alpha=1 (duplicate must not modify)", info)
	}
}

func TestManager_CreateLayerOptions(t *testing.T) {
	m := newTestManager()
	m.CreateLayer("ghost", 0, TypeOverlay, Hidden(), WithAlpha(3))

	info, _ := m.Layer("ghost")
	if info.Visible {
		t.Error("Visible = true, want false with Hidden()")
	}
	if info.Alpha != 1 {
		t.Errorf("Alpha = %v, want clamped 1", info.Alpha)
	}
}

func TestManager_RenderOrder(t *testing.T) {
	m := newTestManager()
	m.CreateLayer("back", 10, TypeBackground)
	m.CreateLayer("front", 30, TypeContent)
	m.AddWidgetToLayer("w1", "back")
	m.AddWidgetToLayer("w2", "front")

	if got := m.RenderOrder(); !slices.Equal(got, []string{"w1", "w2"}) {
		t.Errorf("RenderOrder() = %v, want [w1 w2]", got)
	}

	m.SetLayerVisibility("front", false)
	if got := m.RenderOrder(); !slices.Equal(got, []string{"w1"}) {
		t.Errorf("RenderOrder() after hiding front = %v, want [w1]", got)
	}
}

func TestManager_RenderOrderTieBreaks(t *testing.T) {
	m := newTestManager()
	m.CreateLayer("b", 5, TypeContent)
	m.CreateLayer("a", 5, TypeContent)
	m.CreateLayer("z", -1, TypeBackground)
	for _, w := range []string{"b2", "b1"} {
		m.AddWidgetToLayer(w, "b")
	}
	for _, w := range []string{"a9", "a10"} {
		m.AddWidgetToLayer(w, "a")
	}
	m.AddWidgetToLayer("bg", "z")

	want := []string{"bg", "a10", "a9", "b1", "b2"}
	if got := m.RenderOrder(); !slices.Equal(got, want) {
		t.Errorf("RenderOrder() = %v, want %v", got, want)
	}
}

func TestManager_RenderOrderCache(t *testing.T) {
	m := newTestManager()
	m.CreateLayer("l", 0, TypeContent)
	m.AddWidgetToLayer("w", "l")

	m.RenderOrder()
	m.RenderOrder()
	if s := m.CacheStats(); s.Misses != 1 || s.Hits != 1 {
		t.Errorf("CacheStats() = %+v, want 1 miss then 1 hit", s)
	}

	mutations := []struct {
		name string
		fn   func()
	}{
		{"add widget", func() { m.AddWidgetToLayer("w2", "l") }},
		{"remove widget", func() { m.RemoveWidget("w2") }},
		{"create layer", func() { m.CreateLayer("l2", 1, TypeOverlay) }},
		{"z-order", func() { m.SetLayerZOrder("l2", -5) }},
		{"visibility", func() { m.SetLayerVisibility("l2", false) }},
		{"remove layer", func() { m.RemoveLayer("l2") }},
		{"alpha to zero", func() { m.SetLayerAlpha("l", 0) }},
		{"alpha back", func() { m.SetLayerAlpha("l", 0.5) }},
	}

	for _, mu := range mutations {
		t.Run(mu.name, func(t *testing.T) {
			before := m.CacheStats()
			mu.fn()
			m.RenderOrder()
			after := m.CacheStats()
			if after.Misses != before.Misses+1 {
				t.Errorf("%s: misses %d -> %d, want a miss", mu.name, before.Misses, after.Misses)
			}
		})
	}
}

func TestManager_AlphaChangeKeepsCache(t *testing.T) {
	m := newTestManager()
	m.CreateLayer("l", 0, TypeContent)
	m.AddWidgetToLayer("w", "l")
	m.RenderOrder()

	m.SetLayerAlpha("l", 0.3)
	m.RenderOrder()

	if s := m.CacheStats(); s.Misses != 1 || s.Hits != 1 {
		t.Errorf("CacheStats() = %+v, positive alpha change must hit the cache", s)
	}
}

func TestManager_AlphaZeroExcludes(t *testing.T) {
	m := newTestManager()
	m.CreateLayer("l", 0, TypeContent, WithAlpha(0))
	m.AddWidgetToLayer("w", "l")
	if got := m.RenderOrder(); len(got) != 0 {
		t.Errorf("RenderOrder() = %v, want empty for alpha 0", got)
	}
	m.SetLayerAlpha("l", -1)
	if info, _ := m.Layer("l"); info.Alpha != 0 || info.Renderable() {
		t.Errorf("Layer() = %+v, want clamped alpha 0 and not renderable", info)
	}
}

func TestManager_AddWidgetMovesBetweenLayers(t *testing.T) {
	m := newTestManager()
	m.CreateLayer("a", 1, TypeContent)
	m.CreateLayer("b", 2, TypeContent)

	if m.AddWidgetToLayer("w", "missing") {
		t.Error("AddWidgetToLayer() = true for a missing layer")
	}
	if len(m.History()) != 0 {
		t.Error("failed AddWidgetToLayer must not record history")
	}

	m.AddWidgetToLayer("w", "a")
	m.AddWidgetToLayer("w", "b")

	if id, _ := m.WidgetLayer("w"); id != "b" {
		t.Errorf("WidgetLayer() = %q, want b", id)
	}
	if info, _ := m.Layer("a"); len(info.Widgets) != 0 {
		t.Errorf("layer a widgets = %v, want empty", info.Widgets)
	}
	if z, _ := m.WidgetZOrder("w"); z != 2 {
		t.Errorf("WidgetZOrder() = %d, want 2", z)
	}

	h := m.History()
	if len(h) != 2 {
		t.Fatalf("History() len = %d, want 2", len(h))
	}
	if h[0].HadOld || !h[0].HasNew || h[0].NewZOrder != 1 {
		t.Errorf("first change = %+v, want none -> 1", h[0])
	}
	if !h[1].HadOld || h[1].OldZOrder != 1 || h[1].NewZOrder != 2 {
		t.Errorf("second change = %+v, want 1 -> 2", h[1])
	}
	if !h[1].Timestamp.After(h[0].Timestamp) {
		t.Error("timestamps must increase")
	}
}

func TestManager_RemoveLayer(t *testing.T) {
	m := newTestManager()
	m.CreateLayer("l", 4, TypeContent)
	m.AddWidgetToLayer("w1", "l")
	m.AddWidgetToLayer("w2", "l")
	m.ClearHistory()

	if !m.RemoveLayer("l") {
		t.Fatal("RemoveLayer() = false, want true")
	}
	if m.RemoveLayer("l") {
		t.Error("second RemoveLayer() = true, want false")
	}
	if _, ok := m.WidgetLayer("w1"); ok {
		t.Error("widget still assigned after its layer was removed")
	}
	if m.WidgetCount() != 0 {
		t.Errorf("WidgetCount() = %d, want 0", m.WidgetCount())
	}

	h := m.History()
	if len(h) != 2 {
		t.Fatalf("History() len = %d, want one change per removed widget", len(h))
	}
	for _, c := range h {
		if !c.HadOld || c.OldZOrder != 4 || c.HasNew {
			t.Errorf("change = %+v, want 4 -> none", c)
		}
	}
}

func TestManager_SetLayerZOrder(t *testing.T) {
	m := newTestManager()
	m.CreateLayer("l", 1, TypeContent)
	m.AddWidgetToLayer("w1", "l")
	m.AddWidgetToLayer("w2", "l")
	m.ClearHistory()

	if m.SetLayerZOrder("missing", 3) {
		t.Error("SetLayerZOrder() = true for a missing layer")
	}
	if !m.SetLayerZOrder("l", 7) {
		t.Fatal("SetLayerZOrder() = false")
	}
	h := m.History()
	if len(h) != 2 {
		t.Fatalf("History() len = %d, want 2", len(h))
	}
	for _, c := range h {
		if c.OldZOrder != 1 || c.NewZOrder != 7 {
			t.Errorf("change = %+v, want 1 -> 7", c)
		}
	}
	if z, _ := m.WidgetZOrder("w1"); z != 7 {
		t.Errorf("WidgetZOrder() = %d, want 7", z)
	}
}

func TestManager_BringToFrontSendToBack(t *testing.T) {
	m := newTestManager()
	m.CreateLayer("back", 10, TypeBackground)
	m.CreateLayer("mid", 20, TypeContent)
	m.CreateLayer("front", 30, TypeOverlay)

	m.BringLayerToFront("mid")
	if info, _ := m.Layer("mid"); info.ZOrder != 31 {
		t.Errorf("BringLayerToFront() z = %d, want 31", info.ZOrder)
	}

	m.SendLayerToBack("front")
	if info, _ := m.Layer("front"); info.ZOrder != 9 {
		t.Errorf("SendLayerToBack() z = %d, want 9", info.ZOrder)
	}

	if m.BringLayerToFront("missing") || m.SendLayerToBack("missing") {
		t.Error("front/back on a missing layer returned true")
	}
}

func TestManager_BringToFrontEmptyBaseline(t *testing.T) {
	empty := newTestManager()
	if empty.BringLayerToFront("x") {
		t.Error("BringLayerToFront() = true on an empty manager")
	}

	m := newTestManager()
	m.CreateLayer("only", 0, TypeContent)
	m.BringLayerToFront("only")
	if info, _ := m.Layer("only"); info.ZOrder != 1 {
		t.Errorf("z = %d, want 1", info.ZOrder)
	}
	m.SendLayerToBack("only")
	if info, _ := m.Layer("only"); info.ZOrder != 0 {
		t.Errorf("z = %d, want 0", info.ZOrder)
	}
}

func TestManager_LayersByType(t *testing.T) {
	m := newTestManager()
	m.CreateLayer("o2", 9, TypeOverlay)
	m.CreateLayer("c", 0, TypeContent)
	m.CreateLayer("o1", 3, TypeOverlay)

	got := m.LayersByType(TypeOverlay)
	if len(got) != 2 || got[0].ID != "o1" || got[1].ID != "o2" {
		t.Errorf("LayersByType() = %+v, want [o1 o2]", got)
	}
	if all := m.Layers(); len(all) != 3 || all[0].ID != "c" {
		t.Errorf("Layers() = %+v", all)
	}
}

func TestManager_HistoryRing(t *testing.T) {
	m := newTestManager(WithHistoryCapacity(10))
	m.CreateLayer("l", 0, TypeContent)
	for i := 0; i < 11; i++ {
		m.AddWidgetToLayer(fmt.Sprintf("w%02d", i), "l")
	}

	h := m.History()
	if len(h) > 10 {
		t.Fatalf("History() len = %d, exceeds capacity", len(h))
	}
	if h[len(h)-1].WidgetID != "w10" {
		t.Errorf("newest change = %q, want w10", h[len(h)-1].WidgetID)
	}
	if h[0].WidgetID == "w00" {
		t.Error("oldest entries should have been dropped on overflow")
	}
}

func TestManager_OnChange(t *testing.T) {
	m := newTestManager()
	m.CreateLayer("l", 0, TypeContent)

	var got []string
	m.OnChange(func(Change) { panic("broken listener") })
	unsubscribe := m.OnChange(func(c Change) { got = append(got, c.WidgetID) })

	m.AddWidgetToLayer("a", "l")
	unsubscribe()
	m.AddWidgetToLayer("b", "l")

	if !slices.Equal(got, []string{"a"}) {
		t.Errorf("listener saw %v, want [a]", got)
	}
	if m.WidgetCount() != 2 {
		t.Errorf("WidgetCount() = %d, a panicking listener must not corrupt state", m.WidgetCount())
	}
}

func TestManager_ListenerCanReenter(t *testing.T) {
	m := newTestManager()
	m.CreateLayer("l", 0, TypeContent)

	var order []string
	m.OnChange(func(Change) { order = m.RenderOrder() })
	m.AddWidgetToLayer("w", "l")

	if !slices.Equal(order, []string{"w"}) {
		t.Errorf("RenderOrder() from listener = %v, want [w]", order)
	}
}

func TestManager_Concurrent(t *testing.T) {
	m := NewManager()
	m.CreateLayer("l", 0, TypeContent)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(2)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				m.AddWidgetToLayer(fmt.Sprintf("g%d-%d", g, i), "l")
			}
		}(g)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				m.RenderOrder()
			}
		}()
	}
	wg.Wait()

	if got := len(m.RenderOrder()); got != 400 {
		t.Errorf("len(RenderOrder()) = %d, want 400", got)
	}
}
