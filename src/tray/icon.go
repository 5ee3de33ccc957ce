package tray

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/vector"
)

// IconSize is the edge of the square tray icon in pixels.
const IconSize = 64

const kappa = 0.5522847498

var (
	bodyFill    = color.RGBA{R: 70, G: 175, B: 80, A: 255}
	outline     = color.RGBA{R: 50, G: 150, B: 60, A: 255}
	lensFill    = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	shutterFill = color.RGBA{R: 255, G: 100, B: 100, A: 255}
)

// shape is an outline that can be grown or shrunk by a pen half-width.
type shape func(z *vector.Rasterizer, inset float32)

// RenderIcon draws the camera glyph: a green body, a grey lens and a red
// shutter button, each outlined with a 2px border.
func RenderIcon() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, IconSize, IconSize))
	body := func(z *vector.Rasterizer, in float32) { roundRect(z, 8+in, 16+in, 56-in, 52-in, 4-in) }
	lens := func(z *vector.Rasterizer, in float32) { ellipse(z, 32, 34, 10-in, 10-in) }
	shutter := func(z *vector.Rasterizer, in float32) { roundRect(z, 44+in, 12+in, 52-in, 18-in, 0) }

	fillOutlined(img, body, bodyFill)
	fillOutlined(img, lens, lensFill)
	fillOutlined(img, shutter, shutterFill)
	return img
}

// fillOutlined paints s in the border colour grown by one pixel, then the
// fill colour shrunk by one pixel, which is a 2px stroke centred on s.
func fillOutlined(dst *image.RGBA, s shape, fill color.Color) {
	for _, pass := range []struct {
		inset float32
		c     color.Color
	}{{-1, outline}, {1, fill}} {
		z := vector.NewRasterizer(IconSize, IconSize)
		z.DrawOp = draw.Over
		s(z, pass.inset)
		z.Draw(dst, dst.Bounds(), image.NewUniform(pass.c), image.Point{})
	}
}

func roundRect(z *vector.Rasterizer, x0, y0, x1, y1, r float32) {
	if r <= 0 {
		z.MoveTo(x0, y0)
		z.LineTo(x1, y0)
		z.LineTo(x1, y1)
		z.LineTo(x0, y1)
		z.ClosePath()
		return
	}
	k := r * kappa
	z.MoveTo(x0+r, y0)
	z.LineTo(x1-r, y0)
	z.CubeTo(x1-r+k, y0, x1, y0+r-k, x1, y0+r)
	z.LineTo(x1, y1-r)
	z.CubeTo(x1, y1-r+k, x1-r+k, y1, x1-r, y1)
	z.LineTo(x0+r, y1)
	z.CubeTo(x0+r-k, y1, x0, y1-r+k, x0, y1-r)
	z.LineTo(x0, y0+r)
	z.CubeTo(x0, y0+r-k, x0+r-k, y0, x0+r, y0)
	z.ClosePath()
}

func ellipse(z *vector.Rasterizer, cx, cy, rx, ry float32) {
	kx, ky := rx*kappa, ry*kappa
	z.MoveTo(cx+rx, cy)
	z.CubeTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	z.CubeTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	z.CubeTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	z.CubeTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	z.ClosePath()
}

// IconPNG returns the icon encoded as PNG.
func IconPNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, RenderIcon()); err != nil {
		return nil, fmt.Errorf("encode tray icon: %w", err)
	}
	return buf.Bytes(), nil
}

// IconICO wraps the PNG icon in a single-image ICO container, which is
// what the Windows notification area expects.
func IconICO() ([]byte, error) {
	data, err := IconPNG()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	header := struct {
		Reserved, Type, Count uint16
	}{0, 1, 1}
	entry := struct {
		Width, Height, Colors, Reserved uint8
		Planes, BitCount                uint16
		Size, Offset                    uint32
	}{IconSize, IconSize, 0, 0, 1, 32, uint32(len(data)), 6 + 16}

	if err := binary.Write(&buf, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("write ico header: %w", err)
	}
	if err := binary.Write(&buf, binary.LittleEndian, entry); err != nil {
		return nil, fmt.Errorf("write ico entry: %w", err)
	}
	buf.Write(data)
	return buf.Bytes(), nil
}
