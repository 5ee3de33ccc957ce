// Package drag implements press/move/release repositioning for widgets that
// can be moved by grabbing their empty surface.
package drag

import (
	"screen-annotate/src/geometry"
)

// Mover is anything with a position that can be moved: a toolbar, a hint
// label, a window.
type Mover interface {
	Position() geometry.Point
	Move(geometry.Point)
}

// HitTest reports whether a point, local to the dragged widget, lands on an
// actionable child that must receive the press itself.
type HitTest func(local geometry.Point) bool

// Tracker keeps the pointer-to-origin offset for one drag gesture.
type Tracker struct {
	target      Mover
	interactive HitTest
	dragging    bool
	offset      geometry.Point
}

// NewTracker returns a tracker moving target. interactive may be nil when
// the whole surface is draggable.
func NewTracker(target Mover, interactive HitTest) *Tracker {
	return &Tracker{target: target, interactive: interactive}
}

// Press starts a drag at the given global pointer position. local is the
// same point relative to the target and is only used for the hit test.
// It returns false when the press was left to an interactive child.
func (t *Tracker) Press(global, local geometry.Point) bool {
	if t.interactive != nil && t.interactive(local) {
		t.dragging = false
		return false
	}
	t.dragging = true
	t.offset = global.Sub(t.target.Position())
	return true
}

// Move repositions the target so the offset recorded on Press is kept.
func (t *Tracker) Move(global geometry.Point) bool {
	if !t.dragging {
		return false
	}
	next := global.Sub(t.offset)
	if next == t.target.Position() {
		return false
	}
	t.target.Move(next)
	return true
}

// Release ends the gesture.
func (t *Tracker) Release() { t.dragging = false }

func (t *Tracker) Dragging() bool { return t.dragging }
