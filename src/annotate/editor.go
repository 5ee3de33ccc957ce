package annotate

import (
	"log"

	"screen-annotate/src/geometry"
)

// Editor interprets pointer gestures according to the current Mode and
// commits strokes onto its Canvas.
//
// Line strokes are painted segment by segment while the pointer moves.
// Arrows are previewed while dragging and only committed on release.
type Editor struct {
	canvas  *Canvas
	mode    Mode
	blocked func(geometry.Point) bool

	drawing bool
	last    geometry.Point

	arrowing bool
	arrow    geometry.Arrow

	strokes int
}

func NewEditor(c *Canvas, mode Mode) *Editor {
	return &Editor{canvas: c, mode: mode}
}

func (e *Editor) Canvas() *Canvas { return e.canvas }

func (e *Editor) Mode() Mode { return e.mode }

// SetMode switches tools. A gesture in progress is dropped without being
// committed.
func (e *Editor) SetMode(m Mode) {
	if m == e.mode {
		return
	}
	e.drawing = false
	e.arrowing = false
	e.mode = m
	log.Printf("annotate: mode set to %s", m)
}

// SetBlocked installs the hit test for areas (the toolbar) that must never
// start or continue a stroke.
func (e *Editor) SetBlocked(fn func(geometry.Point) bool) { e.blocked = fn }

func (e *Editor) isBlocked(p geometry.Point) bool {
	return e.blocked != nil && e.blocked(p)
}

// Press starts a gesture. It reports whether the view needs a repaint.
func (e *Editor) Press(p geometry.Point) bool {
	if e.isBlocked(p) {
		return false
	}
	switch e.mode {
	case ModeArrow:
		e.arrowing = true
		e.arrow = geometry.Arrow{Start: p, End: p}
		return true
	default:
		e.drawing = true
		e.last = p
		return false
	}
}

// Drag continues a gesture. Line mode paints last->p immediately.
func (e *Editor) Drag(p geometry.Point) bool {
	if e.isBlocked(p) {
		return false
	}
	switch {
	case e.mode == ModeLine && e.drawing:
		e.canvas.Segment(e.last, p)
		e.last = p
		return true
	case e.mode == ModeArrow && e.arrowing:
		e.arrow.End = p
		return true
	}
	return false
}

// Release ends the gesture, committing a pending arrow.
func (e *Editor) Release() bool {
	switch {
	case e.mode == ModeLine && e.drawing:
		e.drawing = false
		e.strokes++
		return false
	case e.mode == ModeArrow && e.arrowing:
		e.arrowing = false
		e.canvas.Arrow(e.arrow)
		e.strokes++
		return true
	}
	return false
}

// Preview returns the arrow being dragged, if any. It is not on the canvas yet.
func (e *Editor) Preview() (geometry.Arrow, bool) {
	if e.mode != ModeArrow || !e.arrowing {
		return geometry.Arrow{}, false
	}
	return e.arrow, true
}

// Strokes returns how many gestures have been committed.
func (e *Editor) Strokes() int { return e.strokes }
