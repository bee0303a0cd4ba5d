// Package filter implements the pure image transform stages that run ahead of
// the scale pyramid: grayscale conversion, gradient computation, and gradient
// orientation binning. Each stage is a deterministic transform with no state
// shared across calls, so a single instance can be used by any number of
// pyramids.
package filter

import (
	"image"

	"hogextract/internal/imgutil"
)

// Grayscale converts arbitrary input images to 8-bit single-channel intensity.
type Grayscale struct{}

// NewGrayscale creates a grayscale conversion stage.
func NewGrayscale() *Grayscale {
	return &Grayscale{}
}

// Apply converts img to 8-bit grayscale.
func (f *Grayscale) Apply(img image.Image) *image.Gray {
	return imgutil.ToGray(img)
}
