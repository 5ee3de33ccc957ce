package clipboard

import (
	"errors"
	"testing"
)

func TestWriteBeforeInit(t *testing.T) {
	writeMu.Lock()
	prev := ready
	ready = false
	writeMu.Unlock()
	defer func() {
		writeMu.Lock()
		ready = prev
		writeMu.Unlock()
	}()

	if err := WriteText("test text"); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestWriteImage(t *testing.T) {
	// Needs a real clipboard.
	if err := Init(); err != nil {
		t.Skipf("clipboard unavailable: %v", err)
	}
	if err := WriteImage([]byte{0x89, 'P', 'N', 'G'}); err != nil {
		t.Logf("Failed to write to clipboard: %v", err)
	}
}
