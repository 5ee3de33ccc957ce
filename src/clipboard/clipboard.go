package clipboard

import (
	"errors"
	"sync"

	"golang.design/x/clipboard"
)

var ErrNotInitialized = errors.New("clipboard not initialized")

var (
	writeMu sync.Mutex
	ready   bool
)

// Init must succeed before any write. It fails on systems without a
// clipboard (headless Linux without X11).
func Init() error {
	writeMu.Lock()
	defer writeMu.Unlock()
	if err := clipboard.Init(); err != nil {
		return err
	}
	ready = true
	return nil
}

// WriteImage places PNG bytes on the clipboard.
func WriteImage(png []byte) error {
	return write(clipboard.FmtImage, png)
}

// WriteText places text on the clipboard.
func WriteText(text string) error {
	return write(clipboard.FmtText, []byte(text))
}

// write is mutex-guarded to prevent corruption under parallel writes.
func write(format clipboard.Format, data []byte) error {
	writeMu.Lock()
	defer writeMu.Unlock()
	if !ready {
		return ErrNotInitialized
	}
	clipboard.Write(format, data)
	return nil
}
