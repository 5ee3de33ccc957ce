package gui

import (
	"image/color"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"

	"screen-annotate/src/schedule"
)

var (
	toastSuccess = color.NRGBA{R: 76, G: 175, B: 80, A: 230}
	toastFailure = color.NRGBA{R: 211, G: 47, B: 47, A: 230}
)

// Toast is a borderless, centred message that hides itself. Showing a new
// one replaces the current one.
type Toast struct {
	app   fyne.App
	sched *schedule.Scheduler

	win   fyne.Window
	tasks *schedule.Group
}

func NewToast(a fyne.App, sched *schedule.Scheduler) *Toast {
	return &Toast{app: a, sched: sched}
}

func (t *Toast) Show(msg string, d time.Duration) {
	t.Hide()

	bg := canvas.NewRectangle(toastColor(msg))
	bg.CornerRadius = 8
	lines := container.NewVBox()
	for _, line := range strings.Split(msg, "\n") {
		text := canvas.NewText(line, color.White)
		text.TextStyle = fyne.TextStyle{Bold: true}
		text.Alignment = fyne.TextAlignCenter
		lines.Add(text)
	}

	w := t.newWindow()
	w.SetContent(container.NewStack(bg, container.NewPadded(lines)))
	w.Show()
	t.win = w
	t.tasks = t.sched.NewGroup()
	t.tasks.After("toast-hide", d, t.Hide)
}

// Visible reports whether a toast is on screen.
func (t *Toast) Visible() bool { return t.win != nil }

func (t *Toast) Hide() {
	if t.tasks != nil {
		t.tasks.Close()
		t.tasks = nil
	}
	if t.win != nil {
		t.win.Close()
		t.win = nil
	}
}

func (t *Toast) newWindow() fyne.Window {
	if drv, ok := t.app.Driver().(desktop.Driver); ok {
		return drv.CreateSplashWindow()
	}
	return t.app.NewWindow("")
}

func toastColor(msg string) color.Color {
	if strings.HasPrefix(msg, "✗") {
		return toastFailure
	}
	return toastSuccess
}
