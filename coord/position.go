// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package coord converts between absolute pixel coordinates, fractions of a
// canvas, and fractions of a parent canvas, and translates points and
// rectangles between a parent and a child canvas.
//
// Transforms are pure offsets: no rotation or scale is applied.
package coord

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/composite"
)

// Errors returned by Position resolution and validation.
var (
	// ErrOutOfRange is returned when a relative coordinate lies outside [0, 1].
	ErrOutOfRange = errors.New("coord: relative coordinate out of range [0, 1]")

	// ErrMissingParentBounds is returned when a ParentRelative position is
	// resolved without parent bounds.
	ErrMissingParentBounds = errors.New("coord: missing parent bounds")

	// ErrUnknownMode is returned for a Mode value outside the defined set.
	ErrUnknownMode = errors.New("coord: unknown position mode")
)

// Mode selects how a Position's coordinates are interpreted.
type Mode uint8

// Position modes.
const (
	// Absolute coordinates are pixels and unconstrained.
	Absolute Mode = iota

	// Relative coordinates are fractions of the canvas size, in [0, 1].
	Relative

	// ParentRelative coordinates are fractions of the parent canvas size,
	// in [0, 1].
	ParentRelative
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case Absolute:
		return "Absolute"
	case Relative:
		return "Relative"
	case ParentRelative:
		return "ParentRelative"
	default:
		return "Unknown"
	}
}

// Position is a point together with the mode used to interpret it.
type Position struct {
	X, Y float64
	Mode Mode
}

// At creates an Absolute position.
func At(x, y float64) Position {
	return Position{X: x, Y: y, Mode: Absolute}
}

// Fraction creates a Relative position.
func Fraction(x, y float64) Position {
	return Position{X: x, Y: y, Mode: Relative}
}

// ParentFraction creates a ParentRelative position.
func ParentFraction(x, y float64) Position {
	return Position{X: x, Y: y, Mode: ParentRelative}
}

// NewPosition creates a position and validates it.
func NewPosition(x, y float64, mode Mode) (Position, error) {
	p := Position{X: x, Y: y, Mode: mode}
	if err := p.Validate(); err != nil {
		return Position{}, err
	}
	return p, nil
}

// Validate checks that relative coordinates lie in [0, 1].
// Absolute positions are always valid.
func (p Position) Validate() error {
	switch p.Mode {
	case Absolute:
		return nil
	case Relative, ParentRelative:
		if !inUnit(p.X) || !inUnit(p.Y) {
			return fmt.Errorf("%w: %s (%g, %g)", ErrOutOfRange, p.Mode, p.X, p.Y)
		}
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnknownMode, p.Mode)
	}
}

// ToAbsolute resolves p to absolute pixel coordinates.
//
// Absolute positions are returned unchanged. Relative positions resolve
// against canvas. ParentRelative positions resolve against parent, which
// must be non-nil.
func (p Position) ToAbsolute(canvas composite.Bounds, parent *composite.Bounds) (x, y float64, err error) {
	switch p.Mode {
	case Absolute:
		return p.X, p.Y, nil
	case Relative:
		return resolveX(p, canvas), resolveY(p, canvas), nil
	case ParentRelative:
		if parent == nil {
			return 0, 0, ErrMissingParentBounds
		}
		return resolveX(p, *parent), resolveY(p, *parent), nil
	default:
		return 0, 0, fmt.Errorf("%w: %d", ErrUnknownMode, p.Mode)
	}
}

// ToPixel resolves p like ToAbsolute and rounds the result to whole pixels.
func (p Position) ToPixel(canvas composite.Bounds, parent *composite.Bounds) (x, y int, err error) {
	fx, fy, err := p.ToAbsolute(canvas, parent)
	if err != nil {
		return 0, 0, err
	}
	return int(math.Round(fx)), int(math.Round(fy)), nil
}

// ClampToBounds clamps p while preserving its mode. Absolute coordinates
// are clamped to [b.X, b.Right()] x [b.Y, b.Bottom()]; relative coordinates
// to [0, 1].
func (p Position) ClampToBounds(b composite.Bounds) Position {
	if p.Mode == Absolute {
		return Position{
			X:    clamp(p.X, float64(b.X), float64(b.Right())),
			Y:    clamp(p.Y, float64(b.Y), float64(b.Bottom())),
			Mode: Absolute,
		}
	}
	return Position{X: clamp(p.X, 0, 1), Y: clamp(p.Y, 0, 1), Mode: p.Mode}
}

// String returns a human-readable representation.
func (p Position) String() string {
	return fmt.Sprintf("%s(%g, %g)", p.Mode, p.X, p.Y)
}

func resolveX(p Position, b composite.Bounds) float64 {
	return float64(b.X) + p.X*float64(b.Width)
}

func resolveY(p Position, b composite.Bounds) float64 {
	return float64(b.Y) + p.Y*float64(b.Height)
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
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
