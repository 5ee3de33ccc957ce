// Package annotate draws freehand lines and arrows destructively onto a
// captured bitmap.
package annotate

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"golang.org/x/image/vector"

	"screen-annotate/src/geometry"
	"screen-annotate/src/screenshot"
)

// Mode is the active drawing tool.
type Mode int

const (
	ModeLine Mode = iota
	ModeArrow
)

func (m Mode) String() string {
	switch m {
	case ModeArrow:
		return "arrow"
	default:
		return "line"
	}
}

// ParseMode maps a config value to a Mode.
func ParseMode(v string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "line", "pen":
		return ModeLine, nil
	case "arrow":
		return ModeArrow, nil
	default:
		return ModeLine, fmt.Errorf("unknown draw mode %q", v)
	}
}

// Pen describes how strokes are painted.
type Pen struct {
	Color color.RGBA
	Width float64
}

// DefaultPen is a 3px opaque red pen.
var DefaultPen = Pen{Color: color.RGBA{R: 255, A: 255}, Width: 3}

// circle approximation constant for cubic Béziers
const kappa = 0.5522847498

// Canvas is a private copy of a captured bitmap that strokes are burned into.
type Canvas struct {
	img *image.RGBA
	pen Pen
}

// NewCanvas copies src so the capture itself stays untouched.
func NewCanvas(src image.Image, pen Pen) *Canvas {
	if pen.Width <= 0 {
		pen.Width = DefaultPen.Width
	}
	return &Canvas{img: screenshot.Clone(src), pen: pen}
}

// Image returns the live bitmap. Callers must not keep it across strokes if
// they need a snapshot.
func (c *Canvas) Image() *image.RGBA { return c.img }

func (c *Canvas) Pen() Pen { return c.pen }

func (c *Canvas) Bounds() geometry.Rect { return geometry.RectFromImage(c.img.Bounds()) }

// Segment paints a round-capped line from a to b.
func (c *Canvas) Segment(a, b geometry.Point) {
	c.stroke(a.Float(), b.Float())
}

// Arrow paints the shaft and, when the arrow is long enough, both wings.
func (c *Canvas) Arrow(a geometry.Arrow) {
	for _, s := range a.Segments() {
		c.Segment(s.A, s.B)
	}
}

func (c *Canvas) stroke(a, b geometry.PointF) {
	r := c.pen.Width / 2
	area := image.Rect(
		int(math.Floor(math.Min(a.X, b.X)-r))-1,
		int(math.Floor(math.Min(a.Y, b.Y)-r))-1,
		int(math.Ceil(math.Max(a.X, b.X)+r))+1,
		int(math.Ceil(math.Max(a.Y, b.Y)+r))+1,
	).Intersect(c.img.Bounds())
	if area.Empty() {
		return
	}

	z := vector.NewRasterizer(area.Dx(), area.Dy())
	ox, oy := float64(area.Min.X), float64(area.Min.Y)
	a = geometry.PointF{X: a.X - ox, Y: a.Y - oy}
	b = geometry.PointF{X: b.X - ox, Y: b.Y - oy}

	// All subpaths are wound the same way so overlapping coverage saturates
	// instead of cancelling out.
	if l := math.Hypot(b.X-a.X, b.Y-a.Y); l > 0 {
		nx, ny := -(b.Y-a.Y)/l*r, (b.X-a.X)/l*r
		quad := []geometry.PointF{
			{X: a.X + nx, Y: a.Y + ny},
			{X: b.X + nx, Y: b.Y + ny},
			{X: b.X - nx, Y: b.Y - ny},
			{X: a.X - nx, Y: a.Y - ny},
		}
		if signedArea(quad) < 0 {
			quad[1], quad[3] = quad[3], quad[1]
		}
		z.MoveTo(float32(quad[0].X), float32(quad[0].Y))
		for _, p := range quad[1:] {
			z.LineTo(float32(p.X), float32(p.Y))
		}
		z.ClosePath()
	}
	addCircle(z, a, r)
	addCircle(z, b, r)

	z.Draw(c.img, area, image.NewUniform(c.pen.Color), image.Point{})
}

// addCircle appends a circle with positive winding (angle increasing in
// y-down coordinates).
func addCircle(z *vector.Rasterizer, c geometry.PointF, r float64) {
	k := kappa * r
	f := func(v float64) float32 { return float32(v) }
	z.MoveTo(f(c.X+r), f(c.Y))
	z.CubeTo(f(c.X+r), f(c.Y+k), f(c.X+k), f(c.Y+r), f(c.X), f(c.Y+r))
	z.CubeTo(f(c.X-k), f(c.Y+r), f(c.X-r), f(c.Y+k), f(c.X-r), f(c.Y))
	z.CubeTo(f(c.X-r), f(c.Y-k), f(c.X-k), f(c.Y-r), f(c.X), f(c.Y-r))
	z.CubeTo(f(c.X+k), f(c.Y-r), f(c.X+r), f(c.Y-k), f(c.X+r), f(c.Y))
	z.ClosePath()
}

func signedArea(pts []geometry.PointF) float64 {
	var sum float64
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return sum / 2
}
