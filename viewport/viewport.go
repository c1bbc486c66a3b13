// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package viewport models a scrollable window over content larger than the
// window, with optional smooth scrolling and edge bounce, and virtualizes
// uniform-height item lists so only the visible rows are materialized.
package viewport

import (
	"math"
	"slices"
	"sync"
	"time"

	"golang.org/x/image/math/fixed"

	"github.com/gogpu/composite"
)

// Smooth scrolling constants.
const (
	// DefaultAcceleration scales the distance to the target into a target
	// velocity, in 1/s.
	DefaultAcceleration = 2.0

	// velocityBlend is how fast the current velocity approaches the target
	// velocity, in 1/s.
	velocityBlend = 5.0

	// snapThreshold is the distance in pixels under which an axis snaps to
	// its target and stops.
	snapThreshold = 0.5
)

// Behavior selects how a scroll request moves the viewport.
type Behavior uint8

// Scroll behaviors.
const (
	// BehaviorAuto is smooth when smooth scrolling is enabled, instant
	// otherwise.
	BehaviorAuto Behavior = iota

	// BehaviorInstant jumps to the target and stops any animation.
	BehaviorInstant

	// BehaviorSmooth moves only the target; Update converges on it.
	BehaviorSmooth
)

// String returns a human-readable name for the behavior.
func (b Behavior) String() string {
	switch b {
	case BehaviorAuto:
		return "auto"
	case BehaviorInstant:
		return "instant"
	case BehaviorSmooth:
		return "smooth"
	default:
		return "unknown"
	}
}

// Source identifies what caused a scroll.
type Source uint8

// Scroll sources.
const (
	SourceProgrammatic Source = iota
	SourceWheel
	SourceAnimation
	SourceResize
)

// String returns a human-readable name for the source.
func (s Source) String() string {
	switch s {
	case SourceProgrammatic:
		return "programmatic"
	case SourceWheel:
		return "wheel"
	case SourceAnimation:
		return "animation"
	case SourceResize:
		return "resize"
	default:
		return "unknown"
	}
}

// ScrollEvent reports a change of the integer scroll position.
type ScrollEvent struct {
	DeltaX, DeltaY   int
	ScrollX, ScrollY int
	Timestamp        time.Time
	Source           Source
}

// ListenerID identifies a registered scroll listener.
type ListenerID uint64

type listener struct {
	id ListenerID
	fn func(ScrollEvent)
}

// Viewport is a scrollable window of fixed size over a content area.
//
// The scroll position is kept with sub-pixel precision and exposed as whole
// pixels. Each axis is either at rest (position equals target) or animating
// toward its target.
//
// Viewport is safe for concurrent use. Listeners run after the viewport's
// lock is released.
type Viewport struct {
	mu sync.Mutex

	width, height               int
	contentWidth, contentHeight int

	scrollX, scrollY     float64
	targetX, targetY     float64
	velocityX, velocityY float64

	smooth         bool
	bounce         bool
	bounceDistance float64
	acceleration   float64

	listeners    []listener
	nextListener ListenerID

	now func() time.Time
}

// Option configures a Viewport during creation.
type Option func(*Viewport)

// WithSmoothScroll makes BehaviorAuto resolve to smooth scrolling.
func WithSmoothScroll(enabled bool) Option {
	return func(v *Viewport) { v.smooth = enabled }
}

// WithBounce lets the scroll position overshoot the content edges by up to
// distance pixels.
func WithBounce(distance float64) Option {
	return func(v *Viewport) {
		v.bounce = distance > 0
		v.bounceDistance = max(distance, 0)
	}
}

// WithAcceleration sets the smooth scroll acceleration factor.
func WithAcceleration(a float64) Option {
	return func(v *Viewport) {
		if a > 0 {
			v.acceleration = a
		}
	}
}

// WithClock overrides the time source used for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(v *Viewport) {
		if now != nil {
			v.now = now
		}
	}
}

// New creates a viewport of width x height over content of
// contentWidth x contentHeight, scrolled to the origin.
// Negative sizes are treated as zero.
func New(width, height, contentWidth, contentHeight int, opts ...Option) *Viewport {
	v := &Viewport{
		width:         max(width, 0),
		height:        max(height, 0),
		contentWidth:  max(contentWidth, 0),
		contentHeight: max(contentHeight, 0),
		acceleration:  DefaultAcceleration,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ScrollTo scrolls both axes.
func (v *Viewport) ScrollTo(x, y float64, b Behavior) {
	v.scroll(&x, &y, b, SourceProgrammatic)
}

// ScrollToX scrolls the horizontal axis only.
func (v *Viewport) ScrollToX(x float64, b Behavior) {
	v.scroll(&x, nil, b, SourceProgrammatic)
}

// ScrollToY scrolls the vertical axis only.
func (v *Viewport) ScrollToY(y float64, b Behavior) {
	v.scroll(nil, &y, b, SourceProgrammatic)
}

// ScrollBy moves the target by (dx, dy).
func (v *Viewport) ScrollBy(dx, dy float64, b Behavior) {
	v.scrollBy(dx, dy, b, SourceProgrammatic)
}

// HandleWheel applies a wheel or trackpad delta.
func (v *Viewport) HandleWheel(dx, dy float64) {
	v.scrollBy(dx, dy, BehaviorAuto, SourceWheel)
}

// ScrollToTop scrolls vertically to the start of the content.
func (v *Viewport) ScrollToTop(b Behavior) {
	v.ScrollToY(0, b)
}

// ScrollToBottom scrolls vertically to the end of the content.
func (v *Viewport) ScrollToBottom(b Behavior) {
	_, maxY := v.MaxScroll()
	v.ScrollToY(float64(maxY), b)
}

// ScrollIntoView scrolls the minimum amount needed for target, given in
// content coordinates, to lie inside the visible bounds. A target larger
// than the viewport is aligned to its top-left edge.
func (v *Viewport) ScrollIntoView(target composite.Bounds, b Behavior) {
	v.mu.Lock()
	px, py := v.pixels()
	visible := composite.Bounds{X: px, Y: py, Width: v.width, Height: v.height}

	var x, y *float64
	switch {
	case target.X < visible.X || target.Width > visible.Width:
		x = ptr(float64(target.X))
	case target.Right() > visible.Right():
		x = ptr(float64(target.Right() - visible.Width))
	}
	switch {
	case target.Y < visible.Y || target.Height > visible.Height:
		y = ptr(float64(target.Y))
	case target.Bottom() > visible.Bottom():
		y = ptr(float64(target.Bottom() - visible.Height))
	}

	ev, listeners, ok := v.scrollLocked(x, y, b, SourceProgrammatic)
	v.mu.Unlock()

	if ok {
		v.notify(listeners, ev)
	}
}

// Update advances smooth scrolling by dt and reports whether any axis is
// still animating.
func (v *Viewport) Update(dt time.Duration) bool {
	v.mu.Lock()
	beforeX, beforeY := v.pixels()

	seconds := dt.Seconds()
	minX, maxX := v.limits(v.contentWidth, v.width)
	minY, maxY := v.limits(v.contentHeight, v.height)

	if v.bounce {
		v.targetX = v.springBack(v.scrollX, v.targetX, v.contentWidth, v.width)
		v.targetY = v.springBack(v.scrollY, v.targetY, v.contentHeight, v.height)
	}
	animX := v.step(&v.scrollX, &v.velocityX, v.targetX, seconds, minX, maxX)
	animY := v.step(&v.scrollY, &v.velocityY, v.targetY, seconds, minY, maxY)

	ev, listeners, ok := v.event(beforeX, beforeY, SourceAnimation)
	v.mu.Unlock()

	if ok {
		v.notify(listeners, ev)
	}
	return animX || animY
}

// IsAnimating reports whether either axis has not reached its target.
func (v *Viewport) IsAnimating() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.scrollX != v.targetX || v.scrollY != v.targetY
}

// Scroll returns the scroll position in whole pixels.
func (v *Viewport) Scroll() (x, y int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.pixels()
}

// ScrollExact returns the sub-pixel scroll position.
func (v *Viewport) ScrollExact() (x, y float64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.scrollX, v.scrollY
}

// ScrollFixed returns the sub-pixel scroll position in 26.6 fixed point,
// the representation glyph and path rasterizers consume.
func (v *Viewport) ScrollFixed() fixed.Point26_6 {
	v.mu.Lock()
	defer v.mu.Unlock()

	return fixed.Point26_6{X: toFixed(v.scrollX), Y: toFixed(v.scrollY)}
}

// Target returns the scroll target.
func (v *Viewport) Target() (x, y float64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.targetX, v.targetY
}

// Velocity returns the current smooth scroll velocity in pixels per second.
func (v *Viewport) Velocity() (x, y float64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.velocityX, v.velocityY
}

// Size returns the viewport size.
func (v *Viewport) Size() (width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.width, v.height
}

// ContentSize returns the content size.
func (v *Viewport) ContentSize() (width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.contentWidth, v.contentHeight
}

// MaxScroll returns the largest in-bounds scroll offset on each axis.
func (v *Viewport) MaxScroll() (x, y int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return max(0, v.contentWidth-v.width), max(0, v.contentHeight-v.height)
}

// VisibleBounds returns the visible part of the content in content
// coordinates.
func (v *Viewport) VisibleBounds() composite.Bounds {
	v.mu.Lock()
	defer v.mu.Unlock()

	x, y := v.pixels()
	return composite.Bounds{X: x, Y: y, Width: v.width, Height: v.height}
}

// Progress returns how far the viewport is scrolled on each axis, in [0, 1].
// An axis that cannot scroll reports 0.
func (v *Viewport) Progress() (x, y float64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return progress(v.scrollX, v.contentWidth, v.width), progress(v.scrollY, v.contentHeight, v.height)
}

// CanScroll reports whether the content is larger than the viewport on
// each axis.
func (v *Viewport) CanScroll() (horizontal, vertical bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.contentWidth > v.width, v.contentHeight > v.height
}

// Resize changes the viewport size and re-clamps the scroll position.
func (v *Viewport) Resize(width, height int) {
	v.mu.Lock()
	v.width, v.height = max(width, 0), max(height, 0)
	ev, listeners, ok := v.reclamp()
	v.mu.Unlock()

	if ok {
		v.notify(listeners, ev)
	}
}

// SetContentSize changes the content size and re-clamps the scroll position.
func (v *Viewport) SetContentSize(width, height int) {
	v.mu.Lock()
	v.contentWidth, v.contentHeight = max(width, 0), max(height, 0)
	ev, listeners, ok := v.reclamp()
	v.mu.Unlock()

	if ok {
		v.notify(listeners, ev)
	}
}

// AddScrollListener registers fn to receive scroll events.
func (v *Viewport) AddScrollListener(fn func(ScrollEvent)) ListenerID {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.nextListener++
	v.listeners = append(v.listeners, listener{id: v.nextListener, fn: fn})
	return v.nextListener
}

// RemoveScrollListener unregisters a listener.
// Returns false if the id is unknown.
func (v *Viewport) RemoveScrollListener(id ListenerID) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	n := len(v.listeners)
	v.listeners = slices.DeleteFunc(v.listeners, func(l listener) bool { return l.id == id })
	return len(v.listeners) != n
}

// scroll moves the requested axes. A nil axis is left unchanged.
func (v *Viewport) scroll(x, y *float64, b Behavior, src Source) {
	v.mu.Lock()
	ev, listeners, ok := v.scrollLocked(x, y, b, src)
	v.mu.Unlock()

	if ok {
		v.notify(listeners, ev)
	}
}

// scrollBy moves the target relative to its current value, so repeated
// wheel deltas accumulate while an animation is running.
func (v *Viewport) scrollBy(dx, dy float64, b Behavior, src Source) {
	v.mu.Lock()
	x, y := v.targetX+dx, v.targetY+dy
	ev, listeners, ok := v.scrollLocked(&x, &y, b, src)
	v.mu.Unlock()

	if ok {
		v.notify(listeners, ev)
	}
}

// scrollLocked clamps and applies a scroll request. Caller must hold v.mu.
func (v *Viewport) scrollLocked(x, y *float64, b Behavior, src Source) (ScrollEvent, []listener, bool) {
	beforeX, beforeY := v.pixels()
	smooth := v.resolve(b)

	if x != nil {
		lo, hi := v.limits(v.contentWidth, v.width)
		move(&v.scrollX, &v.targetX, &v.velocityX, clamp(*x, lo, hi), smooth)
	}
	if y != nil {
		lo, hi := v.limits(v.contentHeight, v.height)
		move(&v.scrollY, &v.targetY, &v.velocityY, clamp(*y, lo, hi), smooth)
	}
	return v.event(beforeX, beforeY, src)
}

// move sets an axis target and, unless smooth, its position.
func move(pos, target, velocity *float64, to float64, smooth bool) {
	*target = to
	if !smooth {
		*pos = to
		*velocity = 0
	}
}

// resolve reports whether b is smooth. Caller must hold v.mu.
func (v *Viewport) resolve(b Behavior) bool {
	switch b {
	case BehaviorSmooth:
		return true
	case BehaviorInstant:
		return false
	default:
		return v.smooth
	}
}

// limits returns the allowed scroll range for one axis.
// Caller must hold v.mu.
func (v *Viewport) limits(content, size int) (lo, hi float64) {
	hi = float64(max(0, content-size))
	if v.bounce {
		return -v.bounceDistance, hi + v.bounceDistance
	}
	return 0, hi
}

// springBack pulls an at-rest target that lies in the bounce zone back
// inside the content. Caller must hold v.mu.
func (v *Viewport) springBack(pos, target float64, content, size int) float64 {
	if math.Abs(target-pos) > snapThreshold {
		return target
	}
	return clamp(target, 0, float64(max(0, content-size)))
}

// step advances one axis toward its target and reports whether it is still
// moving. Caller must hold v.mu.
func (v *Viewport) step(pos, velocity *float64, target, dt, lo, hi float64) bool {
	distance := target - *pos
	if math.Abs(distance) <= snapThreshold {
		*pos = target
		*velocity = 0
		return false
	}

	targetVelocity := distance * v.acceleration
	*velocity += (targetVelocity - *velocity) * dt * velocityBlend
	*pos = clamp(*pos+*velocity*dt, lo, hi)
	return true
}

// reclamp clamps position and target after a size change.
// Caller must hold v.mu.
func (v *Viewport) reclamp() (ScrollEvent, []listener, bool) {
	beforeX, beforeY := v.pixels()

	loX, hiX := v.limits(v.contentWidth, v.width)
	loY, hiY := v.limits(v.contentHeight, v.height)
	v.scrollX, v.targetX = clamp(v.scrollX, loX, hiX), clamp(v.targetX, loX, hiX)
	v.scrollY, v.targetY = clamp(v.scrollY, loY, hiY), clamp(v.targetY, loY, hiY)

	return v.event(beforeX, beforeY, SourceResize)
}

// pixels returns the integer scroll position. Caller must hold v.mu.
func (v *Viewport) pixels() (int, int) {
	return int(math.Round(v.scrollX)), int(math.Round(v.scrollY))
}

// event builds a scroll event if the integer position moved.
// Caller must hold v.mu.
func (v *Viewport) event(beforeX, beforeY int, src Source) (ScrollEvent, []listener, bool) {
	x, y := v.pixels()
	if x == beforeX && y == beforeY {
		return ScrollEvent{}, nil, false
	}
	ev := ScrollEvent{
		DeltaX:    x - beforeX,
		DeltaY:    y - beforeY,
		ScrollX:   x,
		ScrollY:   y,
		Timestamp: v.now(),
		Source:    src,
	}
	return ev, slices.Clone(v.listeners), true
}

func (v *Viewport) notify(listeners []listener, ev ScrollEvent) {
	for _, l := range listeners {
		composite.SafeCall("viewport", func() { l.fn(ev) })
	}
}

func progress(pos float64, content, size int) float64 {
	limit := content - size
	if limit <= 0 {
		return 0
	}
	return clamp(pos/float64(limit), 0, 1)
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func ptr(v float64) *float64 {
	return &v
}
