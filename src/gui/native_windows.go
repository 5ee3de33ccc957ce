//go:build windows

package gui

import (
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver"
	"github.com/lxn/win"

	"screen-annotate/src/geometry"
)

type hwndWindow struct{ hwnd win.HWND }

// attachNativeWindow strips the caption and sizing frame from w and keeps it
// above other windows. It must run after w has been shown.
func attachNativeWindow(w fyne.Window) nativeWindow {
	nw, ok := w.(driver.NativeWindow)
	if !ok {
		return nil
	}
	var hwnd win.HWND
	nw.RunNative(func(ctx any) {
		if wc, ok := ctx.(driver.WindowsWindowContext); ok {
			hwnd = win.HWND(wc.HWND)
		}
	})
	if hwnd == 0 {
		log.Printf("gui: no native handle for %q", w.Title())
		return nil
	}

	style := win.GetWindowLong(hwnd, win.GWL_STYLE)
	win.SetWindowLong(hwnd, win.GWL_STYLE, style&^(win.WS_CAPTION|win.WS_THICKFRAME))
	win.SetWindowPos(hwnd, win.HWND_TOPMOST, 0, 0, 0, 0,
		win.SWP_NOMOVE|win.SWP_NOSIZE|win.SWP_FRAMECHANGED)
	return hwndWindow{hwnd: hwnd}
}

func (h hwndWindow) Position() geometry.Point {
	var r win.RECT
	if !win.GetWindowRect(h.hwnd, &r) {
		return geometry.Point{}
	}
	return geometry.Pt(int(r.Left), int(r.Top))
}

func (h hwndWindow) Move(p geometry.Point) {
	win.SetWindowPos(h.hwnd, 0, int32(p.X), int32(p.Y), 0, 0,
		win.SWP_NOSIZE|win.SWP_NOZORDER|win.SWP_NOACTIVATE)
}

func (h hwndWindow) Cursor() (geometry.Point, bool) {
	var pt win.POINT
	if !win.GetCursorPos(&pt) {
		return geometry.Point{}, false
	}
	return geometry.Pt(int(pt.X), int(pt.Y)), true
}
