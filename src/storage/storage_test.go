package storage

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestFileName(t *testing.T) {
	ts := time.Date(2024, 3, 7, 9, 5, 2, 999, time.Local)
	if got, want := FileName(ts), "screenshot_20240307_090502.png"; got != want {
		t.Fatalf("FileName = %q, want %q", got, want)
	}
}

func TestDefaultDir(t *testing.T) {
	home := filepath.FromSlash("/home/user")
	want := filepath.Join(home, "OneDrive", "Pictures", "Screenshots")
	if got := DefaultDir(home, ""); got != want {
		t.Fatalf("DefaultDir = %q, want %q", got, want)
	}
	if got := DefaultDir(home, "Bilder"); filepath.Base(filepath.Dir(got)) != "Bilder" {
		t.Fatalf("localized pictures folder not used: %q", got)
	}
}

func TestSaveCreatesDirectoryAndFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "OneDrive", "Pictures", "Screenshots")
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)
	s := &Store{Dir: dir, Now: func() time.Time { return ts }}

	path, err := s.Save(solid(16, 8, color.RGBA{R: 255, A: 255}))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if want := filepath.Join(dir, "screenshot_20240102_030405.png"); path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 8 {
		t.Fatalf("decoded bounds = %v", img.Bounds())
	}
}

func TestSaveSameSecondCollides(t *testing.T) {
	dir := t.TempDir()
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)
	calls := 0
	s := &Store{Dir: dir, Now: func() time.Time {
		calls++
		return ts.Add(time.Duration(calls) * 100 * time.Millisecond)
	}}

	first, err := s.Save(solid(4, 4, color.RGBA{R: 255, A: 255}))
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	second, err := s.Save(solid(4, 4, color.RGBA{B: 255, A: 255}))
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if first != second {
		t.Fatalf("expected colliding names, got %q and %q", first, second)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one file after overwrite, got %d", len(entries))
	}

	f, err := os.Open(second)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if r, _, b, _ := img.At(0, 0).RGBA(); r != 0 || b == 0 {
		t.Fatal("second save did not overwrite the first")
	}
}

func TestSaveNilImage(t *testing.T) {
	s := New(t.TempDir())
	if _, err := s.Save(nil); !errors.Is(err, ErrNilImage) {
		t.Fatalf("expected ErrNilImage, got %v", err)
	}
}

func TestSaveUnwritableDirectory(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := New(filepath.Join(blocker, "Screenshots"))
	if _, err := s.Save(solid(2, 2, color.RGBA{A: 255})); err == nil {
		t.Fatal("expected an error when the directory cannot be created")
	}
}
