// Package geometry holds the integer screen geometry shared by the selector,
// the editor and the draggable widgets.
package geometry

import (
	"fmt"
	"image"
	"math"
)

const (
	// MinSelectionSpan is the smallest width and height a region selection
	// may have before it is treated as a cancellation.
	MinSelectionSpan = 10

	// MinArrowLength is the shortest arrow that gets a head.
	MinArrowLength = 10
	// MaxArrowHead caps the length of the arrowhead wings.
	MaxArrowHead = 30
	// ArrowHeadAngle is the angle between the shaft and each wing, in radians.
	ArrowHeadAngle = 0.4
)

// Point is a position in device units.
type Point struct {
	X int
	Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// PointF is a sub-pixel position, used for computed arrowhead geometry.
type PointF struct {
	X float64
	Y float64
}

// Float converts p to a PointF.
func (p Point) Float() PointF { return PointF{X: float64(p.X), Y: float64(p.Y)} }

// Trunc drops the fractional part, matching how the wing endpoints are
// handed to an integer painter.
func (p PointF) Trunc() Point { return Point{X: int(p.X), Y: int(p.Y)} }

// Dist returns the Euclidean distance between p and q.
func (p PointF) Dist(q PointF) float64 { return math.Hypot(q.X-p.X, q.Y-p.Y) }

// Rect is an axis-aligned rectangle. Width and Height are never negative for
// rectangles produced by FromCorners.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// FromCorners returns the normalized rectangle spanned by two corner points.
func FromCorners(a, b Point) Rect {
	minX, maxX := a.X, b.X
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := a.Y, b.Y
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// RectFromImage converts an image.Rectangle.
func RectFromImage(r image.Rectangle) Rect {
	return Rect{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Image converts r to an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

func (r Rect) Min() Point { return Point{X: r.X, Y: r.Y} }

// Right is the exclusive right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom is the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether p lies inside r (edges inclusive on the
// top-left, exclusive on the bottom-right).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Selectable reports whether r is large enough to be emitted as a region.
func (r Rect) Selectable() bool {
	return r.Width >= MinSelectionSpan && r.Height >= MinSelectionSpan
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Segment is a straight line between two points.
type Segment struct {
	A Point
	B Point
}

// Arrow is a directed segment with a computed head.
type Arrow struct {
	Start Point
	End   Point
}

// Length is the Euclidean length of the shaft.
func (a Arrow) Length() float64 {
	return a.Start.Float().Dist(a.End.Float())
}

// Head returns the two wing endpoints. ok is false when the shaft is shorter
// than MinArrowLength, in which case no head is drawn; this also keeps the
// normalization away from zero-length vectors.
func (a Arrow) Head() (left, right PointF, ok bool) {
	dx := float64(a.End.X - a.Start.X)
	dy := float64(a.End.Y - a.Start.Y)
	length := math.Hypot(dx, dy)
	if length < MinArrowLength {
		return PointF{}, PointF{}, false
	}
	dx /= length
	dy /= length

	size := math.Min(MaxArrowHead, length/3)
	cos, sin := math.Cos(ArrowHeadAngle), math.Sin(ArrowHeadAngle)
	ex, ey := float64(a.End.X), float64(a.End.Y)

	left = PointF{
		X: ex - size*(dx*cos+dy*sin),
		Y: ey - size*(dy*cos-dx*sin),
	}
	right = PointF{
		X: ex - size*(dx*cos-dy*sin),
		Y: ey - size*(dy*cos+dx*sin),
	}
	return left, right, true
}

// Segments returns the shaft followed by the two wings, when the arrow is
// long enough to have them.
func (a Arrow) Segments() []Segment {
	segs := []Segment{{A: a.Start, B: a.End}}
	left, right, ok := a.Head()
	if !ok {
		return segs
	}
	return append(segs,
		Segment{A: a.End, B: left.Trunc()},
		Segment{A: a.End, B: right.Trunc()},
	)
}
