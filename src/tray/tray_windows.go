//go:build windows

package tray

import (
	"log"
	"sync"

	"fyne.io/fyne/v2"
	"github.com/getlantern/systray"
)

// systrayBackend runs getlantern/systray on its own goroutine, pinned to one
// OS thread: GetMessage only sees messages for windows created on the
// calling thread, and systray.Run does not lock the thread itself.
type systrayBackend struct {
	mu      sync.Mutex
	running bool
	stop    chan struct{}
}

// NewBackend returns the Windows notification-area backend. The fyne app is
// not used on Windows.
func NewBackend(fyne.App) Backend {
	return &systrayBackend{stop: make(chan struct{})}
}

func (b *systrayBackend) Start(icon Icon, tooltip string, items []Item) error {
	b.mu.Lock()
	b.running = true
	b.mu.Unlock()

	onReady := func() {
		systray.SetIcon(icon.ICO)
		systray.SetTitle(tooltip)
		systray.SetTooltip(tooltip)
		for _, item := range items {
			if item.Separator {
				systray.AddSeparator()
				continue
			}
			mi := systray.AddMenuItem(item.Label, item.Label)
			go b.watch(mi, item.Action)
		}
		log.Printf("tray: systray ready")
	}
	onExit := func() {
		log.Printf("tray: systray exited")
	}
	goLocked(func() { systray.Run(onReady, onExit) })
	return nil
}

func (b *systrayBackend) watch(mi *systray.MenuItem, action func()) {
	for {
		select {
		case <-mi.ClickedCh:
			if action != nil {
				action()
			}
		case <-b.stop:
			return
		}
	}
}

func (b *systrayBackend) SetTooltip(tooltip string) {
	systray.SetTooltip(tooltip)
}

func (b *systrayBackend) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.running {
		return
	}
	b.running = false
	close(b.stop)
	systray.Quit()
}
