package annotate

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"screen-annotate/src/geometry"
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

func whiteImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(white), image.Point{}, draw.Src)
	return img
}

func isRed(c color.RGBA) bool { return c.R > 200 && c.G < 60 && c.B < 60 }

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeLine, false},
		{"line", ModeLine, false},
		{" Arrow ", ModeArrow, false},
		{"circle", ModeLine, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewCanvasCopiesSource(t *testing.T) {
	src := whiteImage(20, 20)
	c := NewCanvas(src, DefaultPen)
	c.Segment(geometry.Pt(2, 10), geometry.Pt(18, 10))
	if src.RGBAAt(10, 10) != white {
		t.Fatal("drawing on the canvas modified the captured bitmap")
	}
	if !isRed(c.Image().RGBAAt(10, 10)) {
		t.Fatalf("expected stroke pixel, got %v", c.Image().RGBAAt(10, 10))
	}
}

func TestSegmentPaintsOnlyAlongTheLine(t *testing.T) {
	c := NewCanvas(whiteImage(50, 30), DefaultPen)
	c.Segment(geometry.Pt(5, 10), geometry.Pt(40, 10))

	img := c.Image()
	for _, x := range []int{5, 20, 39} {
		if got := img.RGBAAt(x, 10); !isRed(got) {
			t.Errorf("pixel (%d,10) = %v, want red", x, got)
		}
	}
	for _, p := range []image.Point{{20, 20}, {45, 10}, {0, 0}, {20, 14}} {
		if got := img.RGBAAt(p.X, p.Y); got != white {
			t.Errorf("pixel %v = %v, want untouched", p, got)
		}
	}
}

func TestTranslucentPenBlendsOverBackground(t *testing.T) {
	// Half-transparent red, premultiplied.
	pen := Pen{Color: color.RGBA{R: 0x80, A: 0x80}, Width: 5}
	c := NewCanvas(whiteImage(40, 20), pen)
	c.Segment(geometry.Pt(5, 10), geometry.Pt(35, 10))

	got := c.Image().RGBAAt(20, 10)
	near := func(v, want uint8) bool { return v+2 >= want && v <= want+2 }
	if !near(got.R, 255) || !near(got.G, 127) || !near(got.B, 127) || got.A != 255 {
		t.Fatalf("pixel = %v, want about {255 127 127 255}", got)
	}
}

func TestSegmentClipsAtEdges(t *testing.T) {
	c := NewCanvas(whiteImage(10, 10), DefaultPen)
	c.Segment(geometry.Pt(0, 0), geometry.Pt(9, 0))
	c.Segment(geometry.Pt(-50, -50), geometry.Pt(-40, -40))
	if !isRed(c.Image().RGBAAt(5, 0)) {
		t.Fatal("expected edge stroke to be painted")
	}
}

func TestArrowPaintsWings(t *testing.T) {
	c := NewCanvas(whiteImage(60, 50), DefaultPen)
	c.Arrow(geometry.Arrow{Start: geometry.Pt(10, 25), End: geometry.Pt(40, 25)})

	img := c.Image()
	// head = min(30, 30/3) = 10; wings end near (30,21) and (30,28)
	for _, p := range []image.Point{{20, 25}, {35, 23}, {35, 26}} {
		if got := img.RGBAAt(p.X, p.Y); !isRed(got) {
			t.Errorf("pixel %v = %v, want red", p, got)
		}
	}
	if got := img.RGBAAt(20, 15); got != white {
		t.Errorf("pixel away from arrow = %v, want untouched", got)
	}
}

func TestShortArrowHasNoHead(t *testing.T) {
	c := NewCanvas(whiteImage(40, 40), DefaultPen)
	c.Arrow(geometry.Arrow{Start: geometry.Pt(20, 20), End: geometry.Pt(26, 20)})
	// a head would reach back towards x≈24 at y≈18 and y≈22; the 3px shaft does not
	for _, p := range []image.Point{{24, 17}, {24, 23}} {
		if got := c.Image().RGBAAt(p.X, p.Y); got != white {
			t.Errorf("pixel %v = %v, want untouched for a headless arrow", p, got)
		}
	}
}

func TestEditorLineMode(t *testing.T) {
	c := NewCanvas(whiteImage(100, 100), DefaultPen)
	e := NewEditor(c, ModeLine)

	if e.Press(geometry.Pt(10, 10)) {
		t.Error("line press should not need a repaint")
	}
	if !e.Drag(geometry.Pt(50, 10)) {
		t.Fatal("line drag should paint")
	}
	e.Drag(geometry.Pt(50, 50))
	e.Release()

	img := c.Image()
	if !isRed(img.RGBAAt(30, 10)) || !isRed(img.RGBAAt(50, 30)) {
		t.Fatal("expected both segments on the canvas")
	}
	if e.Strokes() != 1 {
		t.Fatalf("strokes = %d, want 1", e.Strokes())
	}

	if e.Drag(geometry.Pt(90, 90)) {
		t.Fatal("drag after release must not paint")
	}
	if img.RGBAAt(70, 70) != white {
		t.Fatal("canvas changed after release")
	}
}

func TestEditorArrowModePreviewsThenCommits(t *testing.T) {
	c := NewCanvas(whiteImage(100, 100), DefaultPen)
	e := NewEditor(c, ModeArrow)

	e.Press(geometry.Pt(10, 50))
	e.Drag(geometry.Pt(60, 50))
	preview, ok := e.Preview()
	if !ok {
		t.Fatal("expected an arrow preview while dragging")
	}
	if preview.End != geometry.Pt(60, 50) {
		t.Fatalf("preview end = %v", preview.End)
	}
	if c.Image().RGBAAt(30, 50) != white {
		t.Fatal("preview must not touch the canvas")
	}

	e.Drag(geometry.Pt(80, 50))
	if !e.Release() {
		t.Fatal("committing an arrow should repaint")
	}
	if _, ok := e.Preview(); ok {
		t.Fatal("preview should end on release")
	}
	if !isRed(c.Image().RGBAAt(70, 50)) {
		t.Fatal("arrow was not committed up to its last end point")
	}
}

func TestEditorIgnoresToolbarArea(t *testing.T) {
	c := NewCanvas(whiteImage(100, 100), DefaultPen)
	e := NewEditor(c, ModeLine)
	toolbar := geometry.Rect{X: 0, Y: 80, Width: 100, Height: 20}
	e.SetBlocked(toolbar.Contains)

	e.Press(geometry.Pt(50, 90))
	if e.Drag(geometry.Pt(50, 10)) {
		t.Fatal("press on the toolbar must not start a stroke")
	}

	e.Press(geometry.Pt(10, 10))
	if e.Drag(geometry.Pt(10, 85)) {
		t.Fatal("moves over the toolbar must not paint")
	}
	if c.Image().RGBAAt(10, 50) != white {
		t.Fatal("stroke reached into the toolbar")
	}
	if !e.Drag(geometry.Pt(30, 10)) {
		t.Fatal("stroke should continue once the pointer leaves the toolbar")
	}
}

func TestEditorSetModeDropsGesture(t *testing.T) {
	c := NewCanvas(whiteImage(100, 100), DefaultPen)
	e := NewEditor(c, ModeArrow)
	e.Press(geometry.Pt(10, 10))
	e.Drag(geometry.Pt(90, 10))

	e.SetMode(ModeLine)
	if e.Release() {
		t.Fatal("release after a mode switch should not commit anything")
	}
	if c.Image().RGBAAt(50, 10) != white {
		t.Fatal("dropped arrow reached the canvas")
	}
	if e.Mode() != ModeLine {
		t.Fatalf("mode = %v", e.Mode())
	}
}
