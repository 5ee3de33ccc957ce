package screenshot

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log"
	"strings"

	"github.com/kbinani/screenshot"

	"screen-annotate/src/geometry"
)

var (
	ErrNoDisplay   = errors.New("no active displays found")
	ErrEmptyRegion = errors.New("region does not intersect the image")
)

// Scope selects which part of the desktop a full grab covers.
type Scope string

const (
	ScopePrimary Scope = "primary"
	ScopeVirtual Scope = "virtual"
)

// ParseScope maps a config value to a Scope, defaulting to the primary display.
func ParseScope(v string) Scope {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case string(ScopeVirtual), "all":
		return ScopeVirtual
	default:
		return ScopePrimary
	}
}

// Grabber produces bitmaps of the screen. Returned images always start at
// (0,0) so they can be used as canvases directly.
type Grabber interface {
	// Full grabs the whole capture area.
	Full() (*image.RGBA, error)
	// Rect grabs r, expressed relative to the capture area's top-left corner.
	Rect(r geometry.Rect) (*image.RGBA, error)
}

// DisplayGrabber grabs the live screen through the OS capture API.
type DisplayGrabber struct {
	scope Scope
}

func NewDisplayGrabber(scope Scope) *DisplayGrabber {
	return &DisplayGrabber{scope: scope}
}

// Bounds returns the capture area in virtual-screen coordinates.
func (g *DisplayGrabber) Bounds() (image.Rectangle, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return image.Rectangle{}, ErrNoDisplay
	}
	union := screenshot.GetDisplayBounds(0)
	if g.scope == ScopeVirtual {
		for i := 1; i < n; i++ {
			union = union.Union(screenshot.GetDisplayBounds(i))
		}
	}
	return union, nil
}

func (g *DisplayGrabber) Full() (*image.RGBA, error) {
	bounds, err := g.Bounds()
	if err != nil {
		return nil, err
	}
	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return nil, fmt.Errorf("failed to capture screen: %w", err)
	}
	log.Printf("screenshot: captured %s area %v", g.scope, bounds)
	return rebase(img), nil
}

func (g *DisplayGrabber) Rect(r geometry.Rect) (*image.RGBA, error) {
	if r.Empty() {
		return nil, fmt.Errorf("invalid region dimensions: width=%d, height=%d", r.Width, r.Height)
	}
	bounds, err := g.Bounds()
	if err != nil {
		return nil, err
	}
	target := r.Image().Add(bounds.Min).Intersect(bounds)
	if target.Empty() {
		return nil, ErrEmptyRegion
	}
	img, err := screenshot.CaptureRect(target)
	if err != nil {
		return nil, fmt.Errorf("failed to capture region: %w", err)
	}
	log.Printf("screenshot: captured region %v", target)
	return rebase(img), nil
}

// DisplayCount returns the number of active displays.
func DisplayCount() int { return screenshot.NumActiveDisplays() }

// DisplayBounds returns the bounds of the primary display.
func DisplayBounds() (image.Rectangle, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return image.Rectangle{}, ErrNoDisplay
	}
	return screenshot.GetDisplayBounds(0), nil
}

// Crop copies the part of img covered by r into a new image at (0,0). r is
// relative to img's top-left corner and is clamped to the image.
func Crop(img *image.RGBA, r geometry.Rect) (*image.RGBA, error) {
	b := img.Bounds()
	src := r.Image().Add(b.Min).Intersect(b)
	if src.Empty() {
		return nil, ErrEmptyRegion
	}
	out := image.NewRGBA(image.Rect(0, 0, src.Dx(), src.Dy()))
	draw.Draw(out, out.Bounds(), img, src.Min, draw.Src)
	return out, nil
}

// Clone copies img so the copy can be modified independently.
func Clone(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// EncodePNG encodes img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image as PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func rebase(img *image.RGBA) *image.RGBA {
	if img.Bounds().Min == (image.Point{}) {
		return img
	}
	return Clone(img)
}
