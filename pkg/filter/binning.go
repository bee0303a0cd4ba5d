package filter

import (
	"fmt"
	"math"
)

// BinData is the per-pixel result of gradient orientation binning: the two
// orientation bins nearest to the gradient direction and the share of the
// gradient magnitude assigned to each. It is the element type of pre-binned
// pyramid layers.
type BinData struct {
	Bin1    uint8
	Bin2    uint8
	Weight1 uint8
	Weight2 uint8
}

// BinnedImage is a 2D buffer of BinData elements, stored row-major. Stride is
// measured in elements, not bytes.
type BinnedImage struct {
	Width  int
	Height int
	Stride int
	Bins   int
	Pix    []BinData
}

// At returns the element at (x, y). No bounds check is performed.
func (b *BinnedImage) At(x, y int) BinData {
	return b.Pix[y*b.Stride+x]
}

// Binning quantizes gradient directions into a fixed number of signed
// orientation bins covering the full circle. The gradient magnitude is split
// linearly between the two nearest bin centers.
type Binning struct {
	bins int
}

// NewBinning creates a binning stage with the given signed bin count. The
// count must be positive and even so that opposite orientations fold onto
// each other, and at most 256 so bin indices fit the tuple layout.
func NewBinning(bins int) (*Binning, error) {
	if bins <= 0 || bins%2 != 0 || bins > 256 {
		return nil, fmt.Errorf("filter: bin count must be positive, even and at most 256, got %d", bins)
	}
	return &Binning{bins: bins}, nil
}

// Bins returns the signed orientation bin count.
func (f *Binning) Bins() int {
	return f.bins
}

// Apply quantizes the gradient image into per-pixel bin tuples.
func (f *Binning) Apply(g *GradientImage) *BinnedImage {
	out := &BinnedImage{
		Width:  g.Width,
		Height: g.Height,
		Stride: g.Width,
		Bins:   f.bins,
		Pix:    make([]BinData, g.Width*g.Height),
	}
	binWidth := 2 * math.Pi / float64(f.bins)
	for i := range out.Pix {
		dx := float64(g.Dx[i])
		dy := float64(g.Dy[i])
		mag := math.Hypot(dx, dy)
		if mag == 0 {
			continue
		}
		angle := math.Atan2(dy, dx)
		if angle < 0 {
			angle += 2 * math.Pi
		}
		// Continuous bin position; the fractional part decides how the
		// magnitude is shared with the next bin over.
		pos := angle / binWidth
		b1 := int(pos) % f.bins
		b2 := (b1 + 1) % f.bins
		frac := pos - math.Floor(pos)
		out.Pix[i] = BinData{
			Bin1:    uint8(b1),
			Bin2:    uint8(b2),
			Weight1: clampWeight(mag * (1 - frac)),
			Weight2: clampWeight(mag * frac),
		}
	}
	return out
}

func clampWeight(w float64) uint8 {
	if w > 255 {
		return 255
	}
	return uint8(math.Round(w))
}
