package gui

import (
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"screen-annotate/src/drag"
	"screen-annotate/src/geometry"
)

// LauncherActions are what the launcher's controls trigger. They are bound
// after the session exists, so they may be nil at construction.
type LauncherActions struct {
	CaptureFull   func() error
	CaptureRegion func() error
	Hide          func()
}

// nativeWindow is a top-level window that can be moved in screen pixels,
// together with the pointer position in the same space.
type nativeWindow interface {
	drag.Mover
	Cursor() (geometry.Point, bool)
}

// Launcher is the small floating panel with the capture buttons. Where the
// platform allows it the panel is frameless and stays on top, and its title
// row drags the whole window. Elsewhere the OS title bar moves it.
type Launcher struct {
	win     fyne.Window
	actions *LauncherActions
	visible bool

	attach  func(fyne.Window) nativeWindow
	native  nativeWindow
	tracker *drag.Tracker
}

func newLauncher(a fyne.App, actions *LauncherActions) *Launcher {
	w := a.NewWindow("Screen Annotate")
	l := &Launcher{win: w, actions: actions, attach: attachNativeWindow}

	title := newWindowGrip(
		widget.NewLabelWithStyle("📸 Screenshot Tool", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		l.dragWindow, l.endWindowDrag,
	)
	hide := widget.NewButton("✕", l.hide)
	hide.Importance = widget.LowImportance
	full := widget.NewButton("📷 Full screen", func() { l.trigger("full capture", l.actions.CaptureFull) })
	full.Importance = widget.HighImportance
	region := widget.NewButton("✂️ Region", func() { l.trigger("region capture", l.actions.CaptureRegion) })
	region.Importance = widget.HighImportance
	hint := widget.NewLabelWithStyle("Supports touch pen annotation", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})

	w.SetContent(container.NewVBox(
		container.NewBorder(nil, nil, nil, hide, title),
		full,
		region,
		hint,
	))
	w.SetFixedSize(true)
	w.SetCloseIntercept(l.hide)
	w.CenterOnScreen()
	return l
}

func (l *Launcher) Show() {
	l.visible = true
	l.win.Show()
	l.win.RequestFocus()
	if l.native == nil && l.attach != nil {
		if l.native = l.attach(l.win); l.native != nil {
			l.tracker = drag.NewTracker(l.native, nil)
			log.Printf("gui: launcher is a floating panel")
		}
	}
}

// dragWindow follows the pointer in screen pixels. Window-relative drag
// deltas are useless here because the window moves under the pointer.
func (l *Launcher) dragWindow() {
	if l.tracker == nil {
		return
	}
	p, ok := l.native.Cursor()
	if !ok {
		return
	}
	if !l.tracker.Dragging() {
		l.tracker.Press(p, geometry.Point{})
		return
	}
	l.tracker.Move(p)
}

func (l *Launcher) endWindowDrag() {
	if l.tracker != nil {
		l.tracker.Release()
	}
}

func (l *Launcher) Hide() {
	l.visible = false
	l.win.Hide()
}

func (l *Launcher) Visible() bool { return l.visible }

// hide goes through the session so it learns the launcher is gone. The
// window is hidden directly when no session is bound yet.
func (l *Launcher) hide() {
	if l.actions.Hide != nil {
		l.actions.Hide()
	}
	if l.visible {
		l.Hide()
	}
}

func (l *Launcher) trigger(name string, fn func() error) {
	if fn == nil {
		return
	}
	if err := fn(); err != nil {
		log.Printf("gui: %s: %v", name, err)
	}
}

// windowGrip is a label that reports drags of itself.
type windowGrip struct {
	widget.BaseWidget
	content fyne.CanvasObject
	onDrag  func()
	onEnd   func()
}

func newWindowGrip(content fyne.CanvasObject, onDrag, onEnd func()) *windowGrip {
	g := &windowGrip{content: content, onDrag: onDrag, onEnd: onEnd}
	g.ExtendBaseWidget(g)
	return g
}

func (g *windowGrip) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(g.content)
}

func (g *windowGrip) Dragged(*fyne.DragEvent) { g.onDrag() }

func (g *windowGrip) DragEnd() { g.onEnd() }
