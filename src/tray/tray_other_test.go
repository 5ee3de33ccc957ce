//go:build !windows

package tray

import (
	"testing"

	"fyne.io/fyne/v2/test"
)

func TestMenuItemsMapSeparatorsAndQuit(t *testing.T) {
	c := New(&fakeBackend{}, nil, Options{})
	items := menuItems(c.Menu())
	if len(items) != 3 {
		t.Fatalf("got %d items", len(items))
	}
	if !items[1].IsSeparator {
		t.Error("expected a separator in the middle")
	}
	if !items[2].IsQuit {
		t.Error("quit item must be flagged so fyne does not add its own")
	}
}

func TestDesktopBackendWithoutTraySupport(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	b := NewBackend(a)
	// The test driver has no system tray; Start must report it instead of
	// panicking, and Stop must stay safe.
	if err := b.Start(Icon{}, "x", nil); err == nil {
		t.Skip("test driver unexpectedly supports a system tray")
	}
	b.Stop()
	b.SetTooltip("y")
}
