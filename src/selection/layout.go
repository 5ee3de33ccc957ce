package selection

import (
	"fmt"

	"screen-annotate/src/geometry"
)

const (
	// CornerSize is the side of the square markers on each corner.
	CornerSize = 6
	// BorderWidth is the width of the highlighted selection border.
	BorderWidth = 2

	labelMargin  = 5
	labelPadding = 3
)

// Size is a width/height pair, used for measured text.
type Size struct {
	Width  int
	Height int
}

// Overlay is everything the selector paints for the current selection, in
// screen units.
type Overlay struct {
	// Masks cover the screen outside the selection: top, bottom, left, right.
	// Empty rectangles are omitted.
	Masks     []geometry.Rect
	Selection geometry.Rect
	Corners   [4]geometry.Rect

	Label string
	// LabelPos is the top-left of the text.
	LabelPos geometry.Point
	// LabelBackground is the padded box behind the text.
	LabelBackground geometry.Rect
}

// Readout formats the size readout shown next to the selection.
func Readout(r geometry.Rect) string {
	return fmt.Sprintf("%d x %d", r.Width, r.Height)
}

// FullMask is the overlay shown before any selection exists.
func FullMask(screen geometry.Rect) Overlay {
	return Overlay{Masks: []geometry.Rect{screen}}
}

// Layout computes the overlay for sel on screen. labelSize is the measured
// size of Readout(sel).
//
// The readout sits right-aligned below the selection. When that would leave
// the screen it moves inside the bottom edge of the selection, and it never
// starts left of the screen.
func Layout(screen, sel geometry.Rect, labelSize Size) Overlay {
	o := Overlay{Selection: sel}

	top := geometry.Rect{X: screen.X, Y: screen.Y, Width: screen.Width, Height: sel.Y - screen.Y}
	bottom := geometry.Rect{X: screen.X, Y: sel.Bottom(), Width: screen.Width, Height: screen.Bottom() - sel.Bottom()}
	left := geometry.Rect{X: screen.X, Y: sel.Y, Width: sel.X - screen.X, Height: sel.Height}
	right := geometry.Rect{X: sel.Right(), Y: sel.Y, Width: screen.Right() - sel.Right(), Height: sel.Height}
	for _, m := range []geometry.Rect{top, bottom, left, right} {
		if !m.Empty() {
			o.Masks = append(o.Masks, m)
		}
	}

	half := CornerSize / 2
	for i, c := range []geometry.Point{
		{X: sel.X, Y: sel.Y},
		{X: sel.Right(), Y: sel.Y},
		{X: sel.X, Y: sel.Bottom()},
		{X: sel.Right(), Y: sel.Bottom()},
	} {
		o.Corners[i] = geometry.Rect{X: c.X - half, Y: c.Y - half, Width: CornerSize, Height: CornerSize}
	}

	o.Label = Readout(sel)
	x := sel.Right() - labelSize.Width - labelMargin
	y := sel.Bottom() + labelMargin
	if y+labelSize.Height > screen.Bottom() {
		y = sel.Bottom() - labelMargin - labelSize.Height
	}
	if x < screen.X {
		x = sel.X + labelMargin
	}
	o.LabelPos = geometry.Point{X: x, Y: y}
	o.LabelBackground = geometry.Rect{
		X:      x - labelPadding,
		Y:      y - labelPadding,
		Width:  labelSize.Width + 2*labelPadding,
		Height: labelSize.Height + 2*labelPadding,
	}
	return o
}
