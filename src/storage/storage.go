// Package storage writes annotated screenshots to the screenshots folder.
package storage

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"screen-annotate/src/logutil"
)

var ErrNilImage = errors.New("no image to save")

const fileLayout = "20060102_150405"

// FileName returns the file name for a screenshot taken at t. Names have
// second granularity, so two saves within the same second share a name.
func FileName(t time.Time) string {
	return "screenshot_" + t.Format(fileLayout) + ".png"
}

// DefaultDir returns <home>/OneDrive/<pictures>/Screenshots.
func DefaultDir(home, pictures string) string {
	if pictures == "" {
		pictures = "Pictures"
	}
	return filepath.Join(home, "OneDrive", pictures, "Screenshots")
}

// Store saves PNG files into Dir.
type Store struct {
	Dir string
	Now func() time.Time
}

func New(dir string) *Store {
	return &Store{Dir: dir, Now: time.Now}
}

// Save writes img as a PNG and returns the full path. The directory is
// created when missing and an existing file of the same name is replaced.
func (s *Store) Save(img image.Image) (string, error) {
	if img == nil {
		return "", ErrNilImage
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create screenshot directory: %w", err)
	}
	path := filepath.Join(s.Dir, FileName(now()))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create screenshot file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to encode screenshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}

	log.Printf("storage: saved %s", logutil.Sanitize(path))
	return path, nil
}
