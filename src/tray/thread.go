package tray

import "runtime"

// goLocked runs fn on a new goroutine that keeps the same OS thread until fn
// returns. Native tray message loops need this.
func goLocked(fn func()) {
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		fn()
	}()
}
