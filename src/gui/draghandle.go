package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"screen-annotate/src/drag"
	"screen-annotate/src/geometry"
)

// DragHandle is a panel that can be moved by grabbing its background.
// Presses on the interactive children (buttons) reach them unchanged.
type DragHandle struct {
	widget.BaseWidget

	content     fyne.CanvasObject
	background  *canvas.Rectangle
	interactive []fyne.CanvasObject
	tracker     *drag.Tracker

	pressed bool
	moved   bool
}

func NewDragHandle(content fyne.CanvasObject, bg color.Color, interactive ...fyne.CanvasObject) *DragHandle {
	h := &DragHandle{content: content, interactive: interactive}
	h.background = canvas.NewRectangle(bg)
	h.background.CornerRadius = 6
	h.tracker = drag.NewTracker(handleMover{h}, h.onInteractive)
	h.ExtendBaseWidget(h)
	return h
}

func (h *DragHandle) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(h.background, container.NewPadded(h.content)))
}

// Moved reports whether the user has repositioned the handle.
func (h *DragHandle) Moved() bool { return h.moved }

func (h *DragHandle) Dragged(ev *fyne.DragEvent) {
	if !h.pressed {
		h.pressed = true
		start := ev.AbsolutePosition.Subtract(ev.Dragged)
		local := ev.Position.Subtract(ev.Dragged)
		h.tracker.Press(unitPoint(start), unitPoint(local))
	}
	h.tracker.Move(unitPoint(ev.AbsolutePosition))
}

func (h *DragHandle) DragEnd() {
	h.pressed = false
	h.tracker.Release()
}

// MouseDown and MouseUp keep presses on the panel from reaching the
// drawing surface underneath.
func (h *DragHandle) MouseDown(*desktop.MouseEvent) {}

func (h *DragHandle) MouseUp(*desktop.MouseEvent) {}

func (h *DragHandle) onInteractive(local geometry.Point) bool {
	d := fyne.CurrentApp().Driver()
	p := d.AbsolutePositionForObject(h).Add(fyne.NewPos(float32(local.X), float32(local.Y)))
	for _, o := range h.interactive {
		if !o.Visible() {
			continue
		}
		if within(p, d.AbsolutePositionForObject(o), o.Size()) {
			return true
		}
	}
	return false
}

// handleMover adapts the widget's float position to drag.Mover.
type handleMover struct{ h *DragHandle }

func (m handleMover) Position() geometry.Point { return unitPoint(m.h.Position()) }

func (m handleMover) Move(p geometry.Point) {
	m.h.moved = true
	m.h.Move(fyne.NewPos(float32(p.X), float32(p.Y)))
}

func unitPoint(p fyne.Position) geometry.Point {
	return geometry.Pt(int(p.X), int(p.Y))
}

func within(p, origin fyne.Position, size fyne.Size) bool {
	return p.X >= origin.X && p.Y >= origin.Y && p.X < origin.X+size.Width && p.Y < origin.Y+size.Height
}
