//go:build !windows

package gui

import "fyne.io/fyne/v2"

// attachNativeWindow has nothing to offer here; the window keeps its title
// bar.
func attachNativeWindow(fyne.Window) nativeWindow { return nil }
