package ehog

import (
	"fmt"
	"image"
	"math"

	"gonum.org/v1/gonum/floats"

	"hogextract/pkg/filter"
)

// Descriptor truncation threshold and the texture feature scale, both from
// the extended HOG formulation of Felzenszwalb et al.
const (
	truncation   = 0.2
	textureScale = 0.2357
)

// Filter computes extended HOG cell descriptors from pre-binned gradient
// data. Instances are immutable and safe to share between extractors.
type Filter struct {
	cellSize int
	bins     int
}

// NewFilter creates a descriptor filter for pre-binned input. cellSize is the
// pixel edge length of one cell; bins is the signed orientation bin count and
// must be positive and even.
func NewFilter(cellSize, bins int) (*Filter, error) {
	if cellSize <= 0 {
		return nil, fmt.Errorf("ehog: cell size must be positive, got %d", cellSize)
	}
	if bins <= 0 || bins%2 != 0 || bins > 256 {
		return nil, fmt.Errorf("ehog: bin count must be positive, even and at most 256, got %d", bins)
	}
	return &Filter{cellSize: cellSize, bins: bins}, nil
}

// CellSize returns the pixel edge length of one cell.
func (f *Filter) CellSize() int { return f.cellSize }

// Bins returns the signed orientation bin count.
func (f *Filter) Bins() int { return f.bins }

// DescriptorLen returns the length of one cell descriptor: the signed bins,
// the folded unsigned bins, and four block energy features.
func (f *Filter) DescriptorLen() int { return f.bins + f.bins/2 + 4 }

// Apply computes one descriptor per cell of b. The width and height of b must
// be multiples of the cell size; cells on the grid border are normalized
// against clamped neighbors and are expected to be cropped by the caller.
func (f *Filter) Apply(b *filter.BinnedImage) (*DescriptorGrid, error) {
	if b.Bins != f.bins {
		return nil, fmt.Errorf("ehog: patch binned with %d bins, filter expects %d", b.Bins, f.bins)
	}
	if b.Width%f.cellSize != 0 || b.Height%f.cellSize != 0 {
		return nil, fmt.Errorf("ehog: patch size %dx%d is not a multiple of cell size %d",
			b.Width, b.Height, f.cellSize)
	}
	cellCols := b.Width / f.cellSize
	cellRows := b.Height / f.cellSize
	if cellCols == 0 || cellRows == 0 {
		return nil, fmt.Errorf("ehog: patch %dx%d smaller than one cell", b.Width, b.Height)
	}
	hist := f.accumulate(b, cellCols, cellRows)
	return f.describe(hist, cellCols, cellRows)
}

// accumulate builds the per-cell signed orientation histograms. Each pixel
// contributes its two bin weights to the cell containing it.
func (f *Filter) accumulate(b *filter.BinnedImage, cellCols, cellRows int) [][]float64 {
	hist := make([][]float64, cellCols*cellRows)
	for i := range hist {
		hist[i] = make([]float64, f.bins)
	}
	for y := 0; y < b.Height; y++ {
		cy := y / f.cellSize
		row := b.Pix[y*b.Stride:]
		for x := 0; x < b.Width; x++ {
			d := row[x]
			if d.Weight1 == 0 && d.Weight2 == 0 {
				continue
			}
			h := hist[cy*cellCols+x/f.cellSize]
			h[d.Bin1] += float64(d.Weight1)
			h[d.Bin2] += float64(d.Weight2)
		}
	}
	return hist
}

// describe turns the cell histograms into normalized descriptors. Each cell
// is normalized four times, once per 2×2 block it belongs to, against the
// folded orientation energies of that block's cells.
func (f *Filter) describe(hist [][]float64, cellCols, cellRows int) (*DescriptorGrid, error) {
	grid, err := NewDescriptorGrid(cellCols, cellRows, f.DescriptorLen())
	if err != nil {
		return nil, err
	}
	half := f.bins / 2

	// Folded (orientation-insensitive) histograms and their energies.
	folded := make([][]float64, len(hist))
	energy := make([]float64, len(hist))
	for i, h := range hist {
		u := make([]float64, half)
		for j := 0; j < half; j++ {
			u[j] = h[j] + h[j+half]
		}
		folded[i] = u
		energy[i] = floats.Dot(u, u)
	}

	clamp := func(v, max int) int {
		if v < 0 {
			return 0
		}
		if v >= max {
			return max - 1
		}
		return v
	}
	blockEnergy := func(cx, cy int) float64 {
		return energy[clamp(cy, cellRows)*cellCols+clamp(cx, cellCols)]
	}

	for cy := 0; cy < cellRows; cy++ {
		for cx := 0; cx < cellCols; cx++ {
			i := cy*cellCols + cx
			var norms [4]float64
			for k, off := range [4][2]int{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}} {
				dx, dy := off[0], off[1]
				sum := blockEnergy(cx, cy) + blockEnergy(cx+dx, cy) +
					blockEnergy(cx, cy+dy) + blockEnergy(cx+dx, cy+dy)
				norms[k] = 1 / math.Sqrt(sum+1e-10)
			}

			desc := grid.Cell(cx, cy)
			for j, v := range hist[i] {
				var s float64
				for _, n := range norms {
					s += math.Min(v*n, truncation)
				}
				desc[j] = 0.5 * s
			}
			for j, v := range folded[i] {
				var s float64
				for _, n := range norms {
					s += math.Min(v*n, truncation)
				}
				desc[f.bins+j] = 0.5 * s
			}
			for k, n := range norms {
				var s float64
				for _, v := range folded[i] {
					s += math.Min(v*n, truncation)
				}
				desc[f.bins+half+k] = textureScale * s
			}
		}
	}
	return grid, nil
}

// CompleteFilter computes extended HOG descriptors directly from grayscale
// patches by running gradient computation and orientation binning internally
// before the shared descriptor stage.
type CompleteFilter struct {
	inner    *Filter
	gradient *filter.Gradient
	binning  *filter.Binning
}

// NewCompleteFilter creates a descriptor filter for grayscale input.
func NewCompleteFilter(cellSize, bins int) (*CompleteFilter, error) {
	inner, err := NewFilter(cellSize, bins)
	if err != nil {
		return nil, err
	}
	binning, err := filter.NewBinning(bins)
	if err != nil {
		return nil, err
	}
	return &CompleteFilter{
		inner:    inner,
		gradient: filter.NewGradient(),
		binning:  binning,
	}, nil
}

// CellSize returns the pixel edge length of one cell.
func (f *CompleteFilter) CellSize() int { return f.inner.cellSize }

// Bins returns the signed orientation bin count.
func (f *CompleteFilter) Bins() int { return f.inner.bins }

// DescriptorLen returns the length of one cell descriptor.
func (f *CompleteFilter) DescriptorLen() int { return f.inner.DescriptorLen() }

// Apply computes one descriptor per cell of the grayscale patch g.
func (f *CompleteFilter) Apply(g *image.Gray) (*DescriptorGrid, error) {
	return f.inner.Apply(f.binning.Apply(f.gradient.Apply(g)))
}
