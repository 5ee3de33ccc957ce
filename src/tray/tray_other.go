//go:build !windows

package tray

import (
	"errors"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// desktopBackend uses fyne's own tray support.
type desktopBackend struct {
	app  fyne.App
	desk desktop.App
	menu *fyne.Menu
}

func NewBackend(a fyne.App) Backend {
	return &desktopBackend{app: a}
}

func (b *desktopBackend) Start(icon Icon, tooltip string, items []Item) error {
	desk, ok := b.app.(desktop.App)
	if !ok {
		return errors.New("system tray not supported by this driver")
	}
	b.desk = desk
	b.menu = fyne.NewMenu(tooltip, menuItems(items)...)
	desk.SetSystemTrayIcon(fyne.NewStaticResource("screen-annotate.png", icon.PNG))
	desk.SetSystemTrayMenu(b.menu)
	log.Printf("tray: desktop tray ready")
	return nil
}

func (b *desktopBackend) SetTooltip(tooltip string) {
	if b.menu == nil {
		return
	}
	b.menu.Label = tooltip
	b.menu.Refresh()
}

// Stop clears the menu; the icon itself goes away with the app.
func (b *desktopBackend) Stop() {
	if b.desk == nil {
		return
	}
	b.desk.SetSystemTrayMenu(fyne.NewMenu(""))
	b.desk = nil
}

func menuItems(items []Item) []*fyne.MenuItem {
	out := make([]*fyne.MenuItem, 0, len(items))
	for _, item := range items {
		if item.Separator {
			out = append(out, fyne.NewMenuItemSeparator())
			continue
		}
		mi := fyne.NewMenuItem(item.Label, item.Action)
		mi.IsQuit = item.IsQuit
		out = append(out, mi)
	}
	return out
}
