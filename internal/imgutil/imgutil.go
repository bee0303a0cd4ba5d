// Package imgutil provides shared image helpers used by the pyramid and
// extraction packages: grayscale conversion and deep copies of pixel buffers.
package imgutil

import (
	"image"
	"image/draw"
)

// ToGray converts an arbitrary image to 8-bit grayscale. If the input already
// is an *image.Gray anchored at the origin it is returned unchanged.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Rect, img, b.Min, draw.Src)
	return gray
}

// CloneGray returns a deep copy of g with its own pixel buffer.
func CloneGray(g *image.Gray) *image.Gray {
	out := image.NewGray(g.Rect)
	copy(out.Pix, g.Pix)
	return out
}

// IsEmpty reports whether img is nil or has zero area.
func IsEmpty(img image.Image) bool {
	if img == nil {
		return true
	}
	b := img.Bounds()
	return b.Dx() <= 0 || b.Dy() <= 0
}
