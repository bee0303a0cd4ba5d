// Package visualization renders extracted descriptor grids as images for
// visual inspection: the classic oriented-glyph HOG plot and a per-cell
// energy map.
package visualization

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"

	"hogextract/pkg/ehog"
)

// Viewer renders one descriptor grid.
type Viewer struct {
	// grid holds the cell descriptors to render
	grid *ehog.DescriptorGrid

	// bins is the signed orientation bin count the descriptors were built with
	bins int

	// cellPixels is the rendered edge length of one cell
	cellPixels int
}

// NewViewer creates a viewer for the given grid. bins must match the filter
// that produced the grid; cellPixels controls the output resolution.
func NewViewer(grid *ehog.DescriptorGrid, bins, cellPixels int) *Viewer {
	if cellPixels < 4 {
		cellPixels = 4
	}
	return &Viewer{grid: grid, bins: bins, cellPixels: cellPixels}
}

// unsigned returns the folded orientation values of the cell at (col, row).
// They are stored behind the signed bins in each descriptor.
func (v *Viewer) unsigned(col, row int) []float64 {
	desc := v.grid.Cell(col, row)
	return desc[v.bins : v.bins+v.bins/2]
}

// RenderGlyphs draws every cell as a star of oriented lines, one per folded
// orientation bin, with brightness proportional to the bin value.
func (v *Viewer) RenderGlyphs() *image.Gray {
	w := v.grid.Cols() * v.cellPixels
	h := v.grid.Rows() * v.cellPixels
	img := image.NewGray(image.Rect(0, 0, w, h))

	maxVal := 0.0
	for row := 0; row < v.grid.Rows(); row++ {
		for col := 0; col < v.grid.Cols(); col++ {
			for _, u := range v.unsigned(col, row) {
				if u > maxVal {
					maxVal = u
				}
			}
		}
	}
	if maxVal == 0 {
		return img
	}

	half := v.bins / 2
	radius := float64(v.cellPixels)/2 - 1
	for row := 0; row < v.grid.Rows(); row++ {
		for col := 0; col < v.grid.Cols(); col++ {
			cx := float64(col*v.cellPixels) + float64(v.cellPixels)/2
			cy := float64(row*v.cellPixels) + float64(v.cellPixels)/2
			for i, u := range v.unsigned(col, row) {
				if u <= 0 {
					continue
				}
				// Edge direction is perpendicular to the gradient orientation.
				theta := (float64(i)+0.5)*math.Pi/float64(half) + math.Pi/2
				shade := uint8(math.Round(u / maxVal * 255))
				drawLine(img, cx, cy, theta, radius, shade)
			}
		}
	}
	return img
}

// RenderEnergy draws every cell as a flat square with brightness
// proportional to the Euclidean norm of its descriptor.
func (v *Viewer) RenderEnergy() *image.Gray {
	w := v.grid.Cols() * v.cellPixels
	h := v.grid.Rows() * v.cellPixels
	img := image.NewGray(image.Rect(0, 0, w, h))

	norms := make([]float64, v.grid.Cols()*v.grid.Rows())
	maxNorm := 0.0
	for row := 0; row < v.grid.Rows(); row++ {
		for col := 0; col < v.grid.Cols(); col++ {
			var sum float64
			for _, d := range v.grid.Cell(col, row) {
				sum += d * d
			}
			n := math.Sqrt(sum)
			norms[row*v.grid.Cols()+col] = n
			if n > maxNorm {
				maxNorm = n
			}
		}
	}
	if maxNorm == 0 {
		return img
	}

	for row := 0; row < v.grid.Rows(); row++ {
		for col := 0; col < v.grid.Cols(); col++ {
			shade := uint8(math.Round(norms[row*v.grid.Cols()+col] / maxNorm * 255))
			for y := row * v.cellPixels; y < (row+1)*v.cellPixels; y++ {
				for x := col * v.cellPixels; x < (col+1)*v.cellPixels; x++ {
					img.Pix[y*img.Stride+x] = shade
				}
			}
		}
	}
	return img
}

// SaveImage saves a rendered image as a PNG file.
func (v *Viewer) SaveImage(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("visualization: create %s: %w", filename, err)
	}
	defer file.Close()

	return png.Encode(file, img)
}

// drawLine draws a centered line of the given half-length and direction,
// keeping the brighter shade where lines overlap.
func drawLine(img *image.Gray, cx, cy, theta, radius float64, shade uint8) {
	dx := math.Cos(theta)
	dy := math.Sin(theta)
	steps := int(radius * 2)
	for s := -steps; s <= steps; s++ {
		t := float64(s) / 2
		x := int(math.Round(cx + t*dx))
		y := int(math.Round(cy + t*dy))
		if x < 0 || y < 0 || x >= img.Rect.Dx() || y >= img.Rect.Dy() {
			continue
		}
		if img.Pix[y*img.Stride+x] < shade {
			img.Pix[y*img.Stride+x] = shade
		}
	}
}
