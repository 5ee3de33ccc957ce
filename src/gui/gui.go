// Package gui implements the application's windows on fyne: the launcher,
// the region selector, the annotation editor and the save toast.
//
// Everything here runs on the fyne main goroutine.
package gui

import (
	"image"
	"time"

	"fyne.io/fyne/v2"

	"screen-annotate/src/annotate"
	"screen-annotate/src/notification"
	"screen-annotate/src/schedule"
	"screen-annotate/src/selection"
	"screen-annotate/src/session"
)

type Options struct {
	Pen      annotate.Pen
	Mode     annotate.Mode
	Notifier *notification.Notifier
}

// App is the session's view layer.
type App struct {
	app      fyne.App
	opts     Options
	actions  LauncherActions
	launcher *Launcher
	toast    *Toast
}

var _ session.Views = (*App)(nil)

func New(a fyne.App, sched *schedule.Scheduler, opts Options) *App {
	if opts.Pen.Width <= 0 {
		opts.Pen = annotate.DefaultPen
	}
	g := &App{app: a, opts: opts}
	g.launcher = newLauncher(a, &g.actions)
	g.toast = NewToast(a, sched)
	return g
}

// Bind connects the launcher's buttons to the session.
func (g *App) Bind(actions LauncherActions) {
	g.actions = actions
}

func (g *App) Launcher() session.Launcher { return g.launcher }

func (g *App) OpenSelector(frame *image.RGBA, onDone func(selection.Result)) session.Window {
	s := newSelectorWindow(g.app, frame, onDone)
	s.Show()
	return s
}

func (g *App) OpenEditor(img *image.RGBA, onDone func(session.EditorOutcome) error) session.Window {
	e := newEditorWindow(g.app, img, g.opts.Pen, g.opts.Mode, onDone)
	e.Show()
	return e
}

func (g *App) ShowToast(msg string, d time.Duration) {
	g.toast.Show(msg, d)
}

func (g *App) Notify(title, msg string) {
	g.opts.Notifier.Error(title, msg)
}

// Close hides the toast and the launcher before the app exits.
func (g *App) Close() {
	g.toast.Hide()
	g.launcher.Hide()
}
