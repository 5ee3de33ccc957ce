//go:build !windows

package main

import (
	"log"

	"screen-annotate/src/screenshot"
)

// enableDPIAwareness is a no-op; fyne reads the scale from the desktop.
func enableDPIAwareness() {}

func logMonitorConfiguration() {
	n := screenshot.DisplayCount()
	log.Printf("MONITOR: Detected %d displays", n)
	if b, err := screenshot.DisplayBounds(); err == nil {
		log.Printf("MONITOR: Primary screen - %v", b)
	}
}
