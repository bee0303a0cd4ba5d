package filter

import "image"

// GradientImage holds per-pixel horizontal and vertical derivatives of a
// grayscale image, stored row-major with stride == Width.
type GradientImage struct {
	Width  int
	Height int
	Dx     []float32
	Dy     []float32
}

// Gradient computes per-pixel derivatives using central differences, falling
// back to forward/backward differences on the image border.
type Gradient struct{}

// NewGradient creates a gradient stage.
func NewGradient() *Gradient {
	return &Gradient{}
}

// Apply computes the derivative planes of g.
func (f *Gradient) Apply(g *image.Gray) *GradientImage {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	out := &GradientImage{
		Width:  w,
		Height: h,
		Dx:     make([]float32, w*h),
		Dy:     make([]float32, w*h),
	}
	at := func(x, y int) float32 {
		return float32(g.Pix[y*g.Stride+x])
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			x0, x1 := x-1, x+1
			if x0 < 0 {
				x0 = 0
			}
			if x1 >= w {
				x1 = w - 1
			}
			y0, y1 := y-1, y+1
			if y0 < 0 {
				y0 = 0
			}
			if y1 >= h {
				y1 = h - 1
			}
			i := y*w + x
			out.Dx[i] = at(x1, y) - at(x0, y)
			out.Dy[i] = at(x, y1) - at(x, y0)
		}
	}
	return out
}
