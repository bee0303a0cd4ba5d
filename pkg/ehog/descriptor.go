// Package ehog computes extended HOG cell descriptors: per-cell orientation
// histograms normalized against the energies of the neighboring cells. The
// neighbor dependency is the reason extracted patches carry a ring of extra
// cells around the requested grid; the ring is cropped away after filtering.
package ehog

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// DescriptorGrid holds one descriptor vector per cell of a rectangular cell
// grid. Cells are stored row-major as the rows of a dense matrix.
type DescriptorGrid struct {
	cols   int
	rows   int
	length int
	cells  *mat.Dense
}

// NewDescriptorGrid allocates a zeroed grid of cols×rows cells with the given
// descriptor length per cell.
func NewDescriptorGrid(cols, rows, length int) (*DescriptorGrid, error) {
	if cols <= 0 || rows <= 0 || length <= 0 {
		return nil, fmt.Errorf("ehog: invalid grid dimensions %dx%dx%d", cols, rows, length)
	}
	return &DescriptorGrid{
		cols:   cols,
		rows:   rows,
		length: length,
		cells:  mat.NewDense(cols*rows, length, nil),
	}, nil
}

// Cols returns the number of cell columns.
func (g *DescriptorGrid) Cols() int { return g.cols }

// Rows returns the number of cell rows.
func (g *DescriptorGrid) Rows() int { return g.rows }

// Length returns the descriptor length per cell.
func (g *DescriptorGrid) Length() int { return g.length }

// Cell returns the descriptor of the cell at (col, row) as a mutable view
// into the grid's backing storage.
func (g *DescriptorGrid) Cell(col, row int) []float64 {
	return g.cells.RawRowView(row*g.cols + col)
}

// CropBorder returns a new grid with ring cells removed from every side. The
// returned grid owns its own storage.
func (g *DescriptorGrid) CropBorder(ring int) (*DescriptorGrid, error) {
	if ring < 0 {
		return nil, fmt.Errorf("ehog: negative crop ring %d", ring)
	}
	cols := g.cols - 2*ring
	rows := g.rows - 2*ring
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("ehog: crop ring %d exceeds grid size %dx%d", ring, g.cols, g.rows)
	}
	out, err := NewDescriptorGrid(cols, rows, g.length)
	if err != nil {
		return nil, err
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			copy(out.Cell(col, row), g.Cell(col+ring, row+ring))
		}
	}
	return out, nil
}

// Concat returns all cell descriptors concatenated in row-major cell order.
func (g *DescriptorGrid) Concat() []float64 {
	out := make([]float64, 0, g.cols*g.rows*g.length)
	for i := 0; i < g.cols*g.rows; i++ {
		out = append(out, g.cells.RawRowView(i)...)
	}
	return out
}

// Clone returns a deep copy of the grid.
func (g *DescriptorGrid) Clone() *DescriptorGrid {
	out := &DescriptorGrid{cols: g.cols, rows: g.rows, length: g.length}
	out.cells = mat.DenseCopyOf(g.cells)
	return out
}
