// Package selection tracks the drag gesture of the region selector and
// computes what the overlay paints for it.
package selection

import (
	"log"

	"screen-annotate/src/geometry"
)

// Outcome is the result of feeding one event to the Selector.
type Outcome int

const (
	Pending Outcome = iota
	Selected
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Selected:
		return "selected"
	case Cancelled:
		return "cancelled"
	default:
		return "pending"
	}
}

// Result is reported once the gesture is over. Rect is only meaningful when
// Outcome is Selected.
type Result struct {
	Outcome Outcome
	Rect    geometry.Rect
}

// Selector is the idle/selecting state machine. After it produced a
// Selected or Cancelled result it is finished and ignores further input.
type Selector struct {
	cancelArea geometry.Rect
	selecting  bool
	finished   bool
	begin      geometry.Point
	end        geometry.Point
}

func New() *Selector { return &Selector{} }

// SetCancelArea marks the bounds of the cancel button. Presses inside it do
// not start a selection.
func (s *Selector) SetCancelArea(r geometry.Rect) { s.cancelArea = r }

// Press starts a selection at p. It reports whether a selection started.
func (s *Selector) Press(p geometry.Point) bool {
	if s.finished || s.cancelArea.Contains(p) {
		return false
	}
	s.selecting = true
	s.begin, s.end = p, p
	return true
}

// Move updates the moving corner. It reports whether a repaint is needed.
func (s *Selector) Move(p geometry.Point) bool {
	if !s.selecting || p == s.end {
		return false
	}
	s.end = p
	return true
}

// Release ends the gesture at p. A rectangle narrower or shorter than
// geometry.MinSelectionSpan is a silent cancellation. Releasing while idle
// is a no-op, so calling it from both a drag-end and a mouse-up is safe.
func (s *Selector) Release(p geometry.Point) Result {
	if !s.selecting {
		return Result{Outcome: Pending}
	}
	s.selecting = false
	s.finished = true
	s.end = p

	r := geometry.FromCorners(s.begin, s.end)
	if !r.Selectable() {
		log.Printf("selection: %s too small, cancelled", r)
		return Result{Outcome: Cancelled}
	}
	log.Printf("selection: selected %s", r)
	return Result{Outcome: Selected, Rect: r}
}

// Escape cancels in any state.
func (s *Selector) Escape() Result {
	if s.finished {
		return Result{Outcome: Pending}
	}
	s.selecting = false
	s.finished = true
	log.Printf("selection: cancelled by escape")
	return Result{Outcome: Cancelled}
}

// Current returns the normalized rectangle being dragged.
func (s *Selector) Current() (geometry.Rect, bool) {
	if !s.selecting {
		return geometry.Rect{}, false
	}
	return geometry.FromCorners(s.begin, s.end), true
}

func (s *Selector) Selecting() bool { return s.selecting }

// Finished reports whether a result was already produced.
func (s *Selector) Finished() bool { return s.finished }
