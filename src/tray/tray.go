// Package tray owns the notification-area icon and its menu. The menu's
// first entry brings the launcher back; the tray libraries open the menu on
// any click on the icon and report nothing else.
package tray

import (
	"log"
	"sync"

	"screen-annotate/src/schedule"
)

// Item is one context menu entry. A separator has no label or action.
type Item struct {
	Label     string
	Separator bool
	IsQuit    bool
	Action    func()
}

// Backend draws the icon and menu on a concrete platform tray.
type Backend interface {
	Start(icon Icon, tooltip string, items []Item) error
	SetTooltip(tooltip string)
	Stop()
}

// Icon carries the same picture in the formats the backends consume.
type Icon struct {
	PNG []byte
	ICO []byte
}

type Options struct {
	Tooltip string
	// OnShow brings the launcher up. It runs on the UI thread.
	OnShow func()
	// OnQuit terminates the application. It runs on the UI thread, after the
	// icon has been removed.
	OnQuit func()
}

// Controller is the platform-neutral tray logic. Backend callbacks may
// arrive on any goroutine; they are hopped onto the UI thread through
// dispatch.
type Controller struct {
	backend  Backend
	dispatch schedule.Dispatcher
	opts     Options

	quitOnce sync.Once
}

func New(backend Backend, dispatch schedule.Dispatcher, opts Options) *Controller {
	if dispatch == nil {
		dispatch = schedule.Immediate
	}
	if opts.Tooltip == "" {
		opts.Tooltip = "Screen Annotate"
	}
	return &Controller{backend: backend, dispatch: dispatch, opts: opts}
}

// Menu is the context menu: show the launcher, a separator, quit.
func (c *Controller) Menu() []Item {
	return []Item{
		{Label: "Show screenshot tool", Action: c.show},
		{Separator: true},
		{Label: "Quit", IsQuit: true, Action: c.Quit},
	}
}

// Start renders the icon and installs the menu.
func (c *Controller) Start() error {
	pngData, err := IconPNG()
	if err != nil {
		return err
	}
	icoData, err := IconICO()
	if err != nil {
		return err
	}
	log.Printf("tray: starting")
	return c.backend.Start(Icon{PNG: pngData, ICO: icoData}, c.opts.Tooltip, c.Menu())
}

func (c *Controller) SetTooltip(tooltip string) {
	c.backend.SetTooltip(tooltip)
}

// Quit hides the icon and then calls OnQuit. Only the first call has any
// effect.
func (c *Controller) Quit() {
	c.quitOnce.Do(func() {
		log.Printf("tray: quit requested")
		c.backend.Stop()
		if c.opts.OnQuit != nil {
			c.dispatch(c.opts.OnQuit)
		}
	})
}

func (c *Controller) show() {
	if c.opts.OnShow != nil {
		c.dispatch(c.opts.OnShow)
	}
}
