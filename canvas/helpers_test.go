// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package canvas

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/composite"
)

// mockDevice implements gpucontext.Device for testing.
type mockDevice struct{}

func (m *mockDevice) Poll(wait bool) {}
func (m *mockDevice) Destroy()       {}

// mockQueue implements gpucontext.Queue for testing.
type mockQueue struct{}

// mockAdapter implements gpucontext.Adapter for testing.
type mockAdapter struct{}

// mockProvider implements gpucontext.DeviceProvider for testing.
type mockProvider struct {
	format gputypes.TextureFormat
}

func (m *mockProvider) Device() gpucontext.Device             { return &mockDevice{} }
func (m *mockProvider) Queue() gpucontext.Queue               { return &mockQueue{} }
func (m *mockProvider) Adapter() gpucontext.Adapter           { return &mockAdapter{} }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat { return m.format }

// testWidget is a plain rectangle.
type testWidget struct {
	id     string
	bounds composite.Bounds
	hidden bool
	alpha  float64
}

func newWidget(id string, x, y, w, h int) *testWidget {
	return &testWidget{id: id, bounds: composite.NewBounds(x, y, w, h), alpha: 1}
}

func (w *testWidget) ID() string               { return w.id }
func (w *testWidget) Bounds() composite.Bounds { return w.bounds }
func (w *testWidget) Visible() bool            { return !w.hidden }
func (w *testWidget) Alpha() float64           { return w.alpha }

// hintedWidget picks its own layer.
type hintedWidget struct {
	*testWidget
	layer string
}

func (w *hintedWidget) Layer() string { return w.layer }

var errDraw = errors.New("draw failed")

// recorder collects draw commands.
type recorder struct {
	frames []Frame
	cmds   []DrawCommand
	failOn string
}

func (r *recorder) Draw(f Frame, cmd DrawCommand) error {
	if cmd.WidgetID == r.failOn {
		return errDraw
	}
	r.frames = append(r.frames, f)
	r.cmds = append(r.cmds, cmd)
	return nil
}

func (r *recorder) ids() []string {
	out := make([]string, len(r.cmds))
	for i, c := range r.cmds {
		out[i] = c.WidgetID
	}
	return out
}

func (r *recorder) find(id string) (DrawCommand, bool) {
	for _, c := range r.cmds {
		if c.WidgetID == id {
			return c, true
		}
	}
	return DrawCommand{}, false
}

// mustCanvas creates a canvas or fails the test.
func mustCanvas(t *testing.T, tree *Tree, id string, b composite.Bounds, opts ...Option) *Canvas {
	t.Helper()
	c, err := tree.NewCanvas(id, b, opts...)
	if err != nil {
		t.Fatalf("NewCanvas(%q) error = %v", id, err)
	}
	return c
}

// mustAdd attaches child to parent or fails the test.
func mustAdd(t *testing.T, parent, child *Canvas) {
	t.Helper()
	if err := parent.AddChild(child); err != nil {
		t.Fatalf("AddChild(%q, %q) error = %v", parent.ID(), child.ID(), err)
	}
}

// render draws the tree into a fresh recorder.
func render(t *testing.T, tree *Tree) *recorder {
	t.Helper()
	r := &recorder{}
	if err := tree.Render(r); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return r
}
