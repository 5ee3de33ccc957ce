package gui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"screen-annotate/src/geometry"
	"screen-annotate/src/selection"
)

const readoutTextSize = 12

var (
	maskColor       = color.NRGBA{A: 120}
	selectionColor  = color.NRGBA{R: 0, G: 174, B: 255, A: 255}
	readoutBgColor  = color.NRGBA{A: 150}
	hintPanelColor  = color.NRGBA{R: 30, G: 30, B: 30, A: 200}
	toolbarBgColor  = color.NRGBA{R: 45, G: 45, B: 45, A: 230}
	readoutTextFill = color.White
)

// SelectorWindow is the full-screen overlay shown over the frozen grab
// while the user drags out a region.
type SelectorWindow struct {
	win      fyne.Window
	pic      *picture
	selector *selection.Selector
	onDone   func(selection.Result)
	closed   bool

	masks   [4]*canvas.Rectangle
	border  *canvas.Rectangle
	corners [4]*canvas.Rectangle
	labelBg *canvas.Rectangle
	label   *canvas.Text
	cancel  *widget.Button
	hint    *DragHandle
}

func newSelectorWindow(a fyne.App, frame *image.RGBA, onDone func(selection.Result)) *SelectorWindow {
	w := a.NewWindow("Select region")
	s := &SelectorWindow{win: w, selector: selection.New(), onDone: onDone}
	s.pic = newPicture(frame, w.Canvas().Scale)

	var shapes []fyne.CanvasObject
	for i := range s.masks {
		s.masks[i] = canvas.NewRectangle(maskColor)
		shapes = append(shapes, s.masks[i])
	}
	s.border = canvas.NewRectangle(color.Transparent)
	s.border.StrokeColor = selectionColor
	shapes = append(shapes, s.border)
	for i := range s.corners {
		s.corners[i] = canvas.NewRectangle(selectionColor)
		shapes = append(shapes, s.corners[i])
	}
	s.labelBg = canvas.NewRectangle(readoutBgColor)
	s.label = canvas.NewText("", readoutTextFill)
	s.label.TextSize = readoutTextSize
	shapes = append(shapes, s.labelBg, s.label)
	overlay := container.New(onLayout(func(fyne.Size) { s.repaint() }), shapes...)

	surface := newPointerSurface(desktop.CrosshairCursor)
	surface.onPress = s.press
	surface.onDrag = s.drag
	surface.onRelease = s.release

	s.cancel = widget.NewButton("✗ Cancel", s.escape)
	s.cancel.Importance = widget.DangerImportance
	hintText := canvas.NewText("Drag to select a region, ESC to cancel", color.White)
	s.hint = NewDragHandle(hintText, hintPanelColor)

	float := newFloating()
	controls := container.New(float,
		float.add(s.hint, topLeft(10)),
		float.add(s.cancel, topRight(20)),
	)

	w.SetContent(container.NewStack(s.pic.view(), overlay, surface, controls))
	w.SetPadded(false)
	w.SetFullScreen(true)
	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			s.escape()
		}
	})
	w.SetCloseIntercept(s.escape)
	return s
}

func (s *SelectorWindow) Show() {
	s.repaint()
	s.win.Show()
	s.win.RequestFocus()
}

// Close removes the overlay without reporting a result.
func (s *SelectorWindow) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.win.Close()
}

func (s *SelectorWindow) press(pos fyne.Position) {
	if s.selector.Finished() {
		return
	}
	s.selector.SetCancelArea(s.cancelArea())
	if s.selector.Press(s.pic.toPixels(pos)) {
		s.repaint()
	}
}

func (s *SelectorWindow) drag(pos fyne.Position) {
	if s.selector.Move(s.pic.toPixels(pos)) {
		s.repaint()
	}
}

func (s *SelectorWindow) release(pos fyne.Position) {
	s.finish(s.selector.Release(s.pic.toPixels(pos)))
}

func (s *SelectorWindow) escape() {
	s.finish(s.selector.Escape())
}

func (s *SelectorWindow) finish(res selection.Result) {
	if res.Outcome == selection.Pending || s.closed {
		return
	}
	s.Close()
	if s.onDone != nil {
		s.onDone(res)
	}
}

// cancelArea is the cancel button's bounds in frame pixels.
func (s *SelectorWindow) cancelArea() geometry.Rect {
	u := s.pic.unitsPerPixel()
	tl := s.pic.toPixels(s.cancel.Position())
	size := s.cancel.Size()
	return geometry.Rect{X: tl.X, Y: tl.Y, Width: int(size.Width / u), Height: int(size.Height / u)}
}

func (s *SelectorWindow) repaint() {
	screen := s.pic.bounds()
	ov := selection.FullMask(screen)
	sel, selecting := s.selector.Current()
	if selecting {
		u := s.pic.unitsPerPixel()
		ts := fyne.MeasureText(selection.Readout(sel), readoutTextSize, fyne.TextStyle{})
		ov = selection.Layout(screen, sel, selection.Size{
			Width:  int(ts.Width/u + 0.5),
			Height: int(ts.Height/u + 0.5),
		})
	}

	for i, m := range s.masks {
		if i >= len(ov.Masks) {
			m.Hide()
			continue
		}
		s.pic.place(m, ov.Masks[i])
		m.Show()
		m.Refresh()
	}

	visible := []fyne.CanvasObject{s.border, s.labelBg, s.label}
	for _, c := range s.corners {
		visible = append(visible, c)
	}
	if !selecting {
		for _, o := range visible {
			o.Hide()
		}
		return
	}

	s.border.StrokeWidth = selection.BorderWidth * s.pic.unitsPerPixel()
	s.pic.place(s.border, ov.Selection)
	for i, c := range s.corners {
		s.pic.place(c, ov.Corners[i])
	}
	s.pic.place(s.labelBg, ov.LabelBackground)
	s.label.Text = ov.Label
	s.label.Move(s.pic.toUnits(ov.LabelPos.Float()))
	for _, o := range visible {
		o.Show()
		o.Refresh()
	}
}
