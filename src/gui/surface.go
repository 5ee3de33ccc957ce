package gui

import (
	"image"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"screen-annotate/src/geometry"
)

// pointerSurface turns primary-button presses, drags and releases into
// three callbacks. It draws nothing.
type pointerSurface struct {
	widget.BaseWidget

	cursor    desktop.Cursor
	onPress   func(fyne.Position)
	onDrag    func(fyne.Position)
	onRelease func(fyne.Position)

	down bool
	last fyne.Position
}

func newPointerSurface(cursor desktop.Cursor) *pointerSurface {
	s := &pointerSurface{cursor: cursor}
	s.ExtendBaseWidget(s)
	return s
}

func (s *pointerSurface) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(canvas.NewRectangle(color.Transparent))
}

func (s *pointerSurface) Cursor() desktop.Cursor { return s.cursor }

func (s *pointerSurface) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	s.down = true
	s.last = ev.Position
	if s.onPress != nil {
		s.onPress(ev.Position)
	}
}

func (s *pointerSurface) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	s.release(ev.Position)
}

func (s *pointerSurface) Dragged(ev *fyne.DragEvent) {
	if !s.down {
		return
	}
	s.last = ev.Position
	if s.onDrag != nil {
		s.onDrag(ev.Position)
	}
}

// DragEnd can arrive before or instead of MouseUp, for instance when the
// button is released over a toolbar.
func (s *pointerSurface) DragEnd() { s.release(s.last) }

func (s *pointerSurface) release(p fyne.Position) {
	if !s.down {
		return
	}
	s.down = false
	if s.onRelease != nil {
		s.onRelease(p)
	}
}

// picture shows a bitmap at its native pixel size, centred and shrunk only
// when it does not fit, and maps between its pixels and canvas units.
type picture struct {
	img   *canvas.Image
	px    image.Point
	scale func() float32
}

func newPicture(src image.Image, scale func() float32) *picture {
	img := canvas.NewImageFromImage(src)
	img.FillMode = canvas.ImageFillStretch
	img.ScaleMode = canvas.ImageScalePixels
	return &picture{img: img, px: src.Bounds().Size(), scale: scale}
}

func (p *picture) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	s := float32(1)
	if p.scale != nil && p.scale() > 0 {
		s = p.scale()
	}
	w, h := float32(p.px.X)/s, float32(p.px.Y)/s
	if w > 0 && h > 0 {
		if f := min(size.Width/w, size.Height/h); f < 1 {
			w, h = w*f, h*f
		}
	}
	pos := fyne.NewPos((size.Width-w)/2, (size.Height-h)/2)
	for _, o := range objects {
		o.Resize(fyne.NewSize(w, h))
		o.Move(pos)
	}
}

func (p *picture) MinSize([]fyne.CanvasObject) fyne.Size { return fyne.NewSize(0, 0) }

// view wraps the image in a container laid out by p.
func (p *picture) view() *fyne.Container {
	return container.New(p, p.img)
}

func (p *picture) unitsPerPixel() float32 {
	size := p.img.Size()
	if p.px.X == 0 || size.Width == 0 {
		return 1
	}
	return size.Width / float32(p.px.X)
}

func (p *picture) bounds() geometry.Rect {
	return geometry.Rect{Width: p.px.X, Height: p.px.Y}
}

func (p *picture) toPixels(pos fyne.Position) geometry.Point {
	u := p.unitsPerPixel()
	origin := p.img.Position()
	return geometry.Pt(
		int(math.Floor(float64((pos.X-origin.X)/u))),
		int(math.Floor(float64((pos.Y-origin.Y)/u))),
	)
}

func (p *picture) toUnits(pt geometry.PointF) fyne.Position {
	u := p.unitsPerPixel()
	origin := p.img.Position()
	return fyne.NewPos(origin.X+float32(pt.X)*u, origin.Y+float32(pt.Y)*u)
}

func (p *picture) rectToUnits(r geometry.Rect) (fyne.Position, fyne.Size) {
	u := p.unitsPerPixel()
	return p.toUnits(r.Min().Float()), fyne.NewSize(float32(r.Width)*u, float32(r.Height)*u)
}

// place moves and resizes o to cover r, given in pixels.
func (p *picture) place(o fyne.CanvasObject, r geometry.Rect) {
	pos, size := p.rectToUnits(r)
	o.Move(pos)
	o.Resize(size)
}

// floating positions each child at an anchor until the user drags it
// somewhere else.
type floating struct {
	anchors map[fyne.CanvasObject]anchor
}

type anchor func(area, obj fyne.Size) fyne.Position

func newFloating() *floating {
	return &floating{anchors: make(map[fyne.CanvasObject]anchor)}
}

func (f *floating) add(o fyne.CanvasObject, a anchor) fyne.CanvasObject {
	f.anchors[o] = a
	return o
}

func (f *floating) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	for _, o := range objects {
		ms := o.MinSize()
		o.Resize(ms)
		if m, ok := o.(interface{ Moved() bool }); ok && m.Moved() {
			continue
		}
		if a, ok := f.anchors[o]; ok {
			o.Move(a(size, ms))
		}
	}
}

func (f *floating) MinSize([]fyne.CanvasObject) fyne.Size { return fyne.NewSize(0, 0) }

func topLeft(margin float32) anchor {
	return func(_, _ fyne.Size) fyne.Position { return fyne.NewPos(margin, margin) }
}

func topRight(margin float32) anchor {
	return func(area, obj fyne.Size) fyne.Position {
		return fyne.NewPos(area.Width-obj.Width-margin, margin)
	}
}

func bottomCenter(margin float32) anchor {
	return func(area, obj fyne.Size) fyne.Position {
		return fyne.NewPos((area.Width-obj.Width)/2, area.Height-obj.Height-margin)
	}
}

// onLayout runs a callback instead of arranging children, for overlays
// that position their objects in picture pixels.
type onLayout func(fyne.Size)

func (f onLayout) Layout(_ []fyne.CanvasObject, size fyne.Size) { f(size) }

func (f onLayout) MinSize([]fyne.CanvasObject) fyne.Size { return fyne.NewSize(0, 0) }
