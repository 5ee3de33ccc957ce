package gui

import (
	"image"
	"image/color"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"screen-annotate/src/annotate"
	"screen-annotate/src/geometry"
	"screen-annotate/src/session"
)

// EditorWindow shows the capture full screen and burns strokes into it.
// The toolbar can be dragged anywhere; strokes never start on it.
type EditorWindow struct {
	win    fyne.Window
	pic    *picture
	editor *annotate.Editor
	onDone func(session.EditorOutcome) error
	closed bool

	surface  *pointerSurface
	preview  [3]*canvas.Line
	lineBtn  *widget.Button
	arrowBtn *widget.Button
	toolbar  *DragHandle
	hint     *DragHandle
}

func newEditorWindow(a fyne.App, img *image.RGBA, pen annotate.Pen, mode annotate.Mode, onDone func(session.EditorOutcome) error) *EditorWindow {
	w := a.NewWindow("Annotate")
	c := annotate.NewCanvas(img, pen)
	e := &EditorWindow{win: w, editor: annotate.NewEditor(c, mode), onDone: onDone}
	e.pic = newPicture(c.Image(), w.Canvas().Scale)

	lines := make([]fyne.CanvasObject, 0, len(e.preview))
	for i := range e.preview {
		l := canvas.NewLine(pen.Color)
		l.Hide()
		e.preview[i] = l
		lines = append(lines, l)
	}
	previewLayer := container.New(onLayout(func(fyne.Size) { e.repaintPreview() }), lines...)

	surface := newPointerSurface(desktop.CrosshairCursor)
	e.surface = surface
	surface.onPress = func(pos fyne.Position) {
		if e.editor.Press(e.pic.toPixels(pos)) {
			e.repaintPreview()
		}
	}
	surface.onDrag = func(pos fyne.Position) {
		if e.editor.Drag(e.pic.toPixels(pos)) {
			e.repaint()
		}
	}
	surface.onRelease = func(fyne.Position) {
		if e.editor.Release() {
			e.pic.img.Refresh()
		}
		e.repaintPreview()
	}

	e.lineBtn = widget.NewButton("✏️ Line", func() { e.setMode(annotate.ModeLine) })
	e.arrowBtn = widget.NewButton("➡️ Arrow", func() { e.setMode(annotate.ModeArrow) })
	save := widget.NewButton("✓ Save", e.save)
	save.Importance = widget.SuccessImportance
	cancel := widget.NewButton("✗ Cancel", e.cancel)
	cancel.Importance = widget.DangerImportance
	grip := canvas.NewText("⠿ drag", color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	bar := container.NewHBox(grip, e.lineBtn, e.arrowBtn, widget.NewSeparator(), save, cancel)
	e.toolbar = NewDragHandle(bar, toolbarBgColor, e.lineBtn, e.arrowBtn, save, cancel)
	e.hint = NewDragHandle(
		canvas.NewText("Draw with mouse or pen. Enter saves, ESC cancels", color.White),
		hintPanelColor,
	)
	e.editor.SetBlocked(e.overToolbar)
	e.updateModeButtons()

	float := newFloating()
	controls := container.New(float,
		float.add(e.hint, topLeft(10)),
		float.add(e.toolbar, bottomCenter(30)),
	)

	bg := canvas.NewRectangle(color.NRGBA{R: 20, G: 20, B: 20, A: 255})
	w.SetContent(container.NewStack(bg, e.pic.view(), previewLayer, surface, controls))
	w.SetPadded(false)
	w.SetFullScreen(true)
	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyEscape:
			e.cancel()
		case fyne.KeyReturn, fyne.KeyEnter:
			e.save()
		}
	})
	w.SetCloseIntercept(e.cancel)
	return e
}

func (e *EditorWindow) Show() {
	e.win.Show()
	e.win.RequestFocus()
}

// Close removes the editor without reporting an outcome.
func (e *EditorWindow) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.win.Close()
}

func (e *EditorWindow) setMode(m annotate.Mode) {
	e.editor.SetMode(m)
	e.updateModeButtons()
	e.repaintPreview()
}

func (e *EditorWindow) updateModeButtons() {
	e.lineBtn.Importance = widget.MediumImportance
	e.arrowBtn.Importance = widget.MediumImportance
	if e.editor.Mode() == annotate.ModeArrow {
		e.arrowBtn.Importance = widget.HighImportance
	} else {
		e.lineBtn.Importance = widget.HighImportance
	}
	e.lineBtn.Refresh()
	e.arrowBtn.Refresh()
}

// overToolbar reports whether a picture pixel lies under the toolbar.
func (e *EditorWindow) overToolbar(p geometry.Point) bool {
	if !e.toolbar.Visible() {
		return false
	}
	return within(e.pic.toUnits(p.Float()), e.toolbar.Position(), e.toolbar.Size())
}

func (e *EditorWindow) save() {
	if e.closed {
		return
	}
	out := session.EditorOutcome{Saved: true, Image: e.editor.Canvas().Image()}
	if e.onDone != nil {
		if err := e.onDone(out); err != nil {
			log.Printf("gui: editor kept open after failed save: %v", err)
			return
		}
	}
	log.Printf("gui: editor saved with %d strokes", e.editor.Strokes())
	e.Close()
}

func (e *EditorWindow) cancel() {
	if e.closed {
		return
	}
	if e.onDone != nil {
		_ = e.onDone(session.EditorOutcome{})
	}
	e.Close()
}

func (e *EditorWindow) repaint() {
	e.pic.img.Refresh()
	e.repaintPreview()
}

func (e *EditorWindow) repaintPreview() {
	arrow, ok := e.editor.Preview()
	var segs []geometry.Segment
	if ok {
		segs = arrow.Segments()
	}
	width := float32(e.editor.Canvas().Pen().Width) * e.pic.unitsPerPixel()
	for i, l := range e.preview {
		if i >= len(segs) {
			l.Hide()
			continue
		}
		l.Position1 = e.pic.toUnits(segs[i].A.Float())
		l.Position2 = e.pic.toUnits(segs[i].B.Float())
		l.StrokeWidth = width
		l.Show()
		l.Refresh()
	}
}
