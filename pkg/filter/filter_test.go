package filter

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func grayFromFunc(w, h int, f func(x, y int) uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Pix[y*img.Stride+x] = f(x, y)
		}
	}
	return img
}

// TestGrayscaleConversion verifies RGBA input is converted and gray input is
// passed through.
func TestGrayscaleConversion(t *testing.T) {
	f := NewGrayscale()

	rgba := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			rgba.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	gray := f.Apply(rgba)
	if gray.Rect.Dx() != 4 || gray.Rect.Dy() != 2 {
		t.Fatalf("converted size = %v; want 4x2", gray.Rect)
	}
	// All pixels identical, luma of (200,100,50).
	want := gray.Pix[0]
	if want == 0 || want == 255 {
		t.Fatalf("implausible luma %d for (200,100,50)", want)
	}
	for i, p := range gray.Pix {
		if p != want {
			t.Fatalf("pixel %d = %d; want %d", i, p, want)
		}
	}

	src := grayFromFunc(3, 3, func(x, y int) uint8 { return uint8(10 * (x + y)) })
	if got := f.Apply(src); got != src {
		t.Error("gray input should be returned unchanged")
	}
}

// TestGradientRamp verifies the derivative signs and magnitudes on linear
// ramps.
func TestGradientRamp(t *testing.T) {
	f := NewGradient()

	horizontal := grayFromFunc(8, 8, func(x, y int) uint8 { return uint8(10 * x) })
	g := f.Apply(horizontal)
	// Interior pixels: central difference of a ramp with slope 10 is 20.
	i := 3*g.Width + 3
	if g.Dx[i] != 20 {
		t.Errorf("interior Dx = %v; want 20", g.Dx[i])
	}
	if g.Dy[i] != 0 {
		t.Errorf("interior Dy = %v; want 0", g.Dy[i])
	}
	// Border pixels fall back to one-sided differences.
	if g.Dx[3*g.Width] != 10 {
		t.Errorf("border Dx = %v; want 10", g.Dx[3*g.Width])
	}

	vertical := grayFromFunc(8, 8, func(x, y int) uint8 { return uint8(10 * y) })
	g = f.Apply(vertical)
	if g.Dy[i] != 20 || g.Dx[i] != 0 {
		t.Errorf("vertical ramp gradient = (%v, %v); want (0, 20)", g.Dx[i], g.Dy[i])
	}
}

// TestBinningValidation verifies bin count constraints.
func TestBinningValidation(t *testing.T) {
	for _, bins := range []int{0, -2, 7} {
		if _, err := NewBinning(bins); err == nil {
			t.Errorf("NewBinning(%d) succeeded; want error", bins)
		}
	}
	if _, err := NewBinning(18); err != nil {
		t.Errorf("NewBinning(18) failed: %v", err)
	}
}

// TestBinningQuantization verifies bin indices, weight split and zero
// gradient handling.
func TestBinningQuantization(t *testing.T) {
	binning, err := NewBinning(18)
	if err != nil {
		t.Fatal(err)
	}

	g := &GradientImage{Width: 3, Height: 1, Dx: []float32{100, 0, 0}, Dy: []float32{0, 100, 0}}
	b := binning.Apply(g)

	if b.Width != 3 || b.Height != 1 || b.Stride != 3 {
		t.Fatalf("binned geometry = %dx%d stride %d", b.Width, b.Height, b.Stride)
	}

	// Gradient pointing right: angle 0, dead center of bin 0.
	right := b.At(0, 0)
	if right.Bin1 != 0 {
		t.Errorf("right gradient Bin1 = %d; want 0", right.Bin1)
	}
	if right.Weight1 != 100 || right.Weight2 != 0 {
		t.Errorf("right gradient weights = (%d, %d); want (100, 0)", right.Weight1, right.Weight2)
	}

	// Gradient pointing down: angle pi/2 with 18 bins lands mid-ladder.
	down := b.At(1, 0)
	wantBin := uint8(math.Floor((math.Pi / 2) / (2 * math.Pi / 18)))
	if down.Bin1 != wantBin {
		t.Errorf("down gradient Bin1 = %d; want %d", down.Bin1, wantBin)
	}
	total := int(down.Weight1) + int(down.Weight2)
	if total < 99 || total > 101 {
		t.Errorf("down gradient weight sum = %d; want ~100", total)
	}

	// Zero gradient contributes nothing.
	zero := b.At(2, 0)
	if zero.Weight1 != 0 || zero.Weight2 != 0 {
		t.Errorf("zero gradient weights = (%d, %d); want (0, 0)", zero.Weight1, zero.Weight2)
	}
}
