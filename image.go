package stegcrypt

import (
	"image"
	"image/draw"
)

// RGB is the color of one pixel. Alpha is not part of the carrier.
type RGB struct {
	R, G, B uint8
}

// Image is the pixel access the codec needs. Coordinates start at (0, 0).
type Image interface {
	Width() int
	Height() int
	GetPixel(x, y int) RGB
	SetPixel(x, y int, p RGB)
}

// RGBImage implements Image over an opaque *image.RGBA anchored at the origin.
// Create one with NewRGBImage or FromImage; the zero value is an empty image.
type RGBImage struct {
	img *image.RGBA
}

// NewRGBImage creates a black, opaque image of the given size
func NewRGBImage(width, height int) *RGBImage {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xFF
	}
	return &RGBImage{img: img}
}

// FromImage copies src into a new RGBImage. The copy never aliases src.
func FromImage(src image.Image) *RGBImage {
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)
	return &RGBImage{img: dst}
}

// Image returns the underlying *image.RGBA
func (m *RGBImage) Image() *image.RGBA {
	return m.img
}

// Width returns the width in pixels. A zero RGBImage has no pixels.
func (m *RGBImage) Width() int {
	if m == nil || m.img == nil {
		return 0
	}
	return m.img.Rect.Dx()
}

// Height returns the height in pixels
func (m *RGBImage) Height() int {
	if m == nil || m.img == nil {
		return 0
	}
	return m.img.Rect.Dy()
}

// GetPixel returns the pixel at (x, y)
func (m *RGBImage) GetPixel(x, y int) RGB {
	idx := m.img.PixOffset(x, y)
	return RGB{
		R: m.img.Pix[idx+0],
		G: m.img.Pix[idx+1],
		B: m.img.Pix[idx+2],
	}
}

// SetPixel sets the pixel at (x, y) and makes it opaque
func (m *RGBImage) SetPixel(x, y int, p RGB) {
	idx := m.img.PixOffset(x, y)
	m.img.Pix[idx+0] = p.R
	m.img.Pix[idx+1] = p.G
	m.img.Pix[idx+2] = p.B
	m.img.Pix[idx+3] = 0xFF
}
