// Package extract implements fixed-geometry extended HOG patch extraction
// from arbitrary rectangles of an image. For every request the extractor
// picks the pyramid layer closest to the target scale, gathers an enlarged
// patch that carries one extra ring of descriptor cells around the requested
// grid, runs the cell descriptor filter over it, and crops the ring away
// again. Out-of-bounds requests never fail: missing samples are synthesized
// by reflecting the layer at its borders.
package extract

import (
	"fmt"
	"image"
	"math"

	"hogextract/pkg/ehog"
	"hogextract/pkg/filter"
	"hogextract/pkg/pyramid"
)

// DefaultOctaveLayerCount is the number of pyramid layers per octave used by
// the width-based constructors when no count is given.
const DefaultOctaveLayerCount = 5

// haloRing is the number of extra descriptor cells added on each side of the
// requested grid before filtering and removed afterwards. The cell filter
// needs the ring to normalize edge cells against real neighbors.
const haloRing = 1

// Extractor extracts extended HOG feature patches from an image pyramid. Its
// geometry (cell size, enlarged patch size, enlargement factors) is fixed at
// construction; only the pyramid content changes, through Update.
//
// An Extractor holds no locks: Update must be serialized against in-flight
// Extract calls on the same instance. Distinct instances (including clones)
// are fully independent.
type Extractor struct {
	pyr *pyramid.Pyramid

	// Exactly one of complete/binned is set, matching the element type of
	// the pyramid layers.
	complete *ehog.CompleteFilter
	binned   *ehog.Filter

	cols         int
	rows         int
	cellSize     int
	patchWidth   int
	patchHeight  int
	widthFactor  float64
	heightFactor float64
}

// New creates an extractor on top of a grayscale pyramid. ehogFilter computes
// the cell descriptors, including gradient and binning, from raw intensity
// patches. cols and rows give the requested cell grid size.
func New(pyr *pyramid.Pyramid, ehogFilter *ehog.CompleteFilter, cols, rows int) (*Extractor, error) {
	if pyr == nil || ehogFilter == nil {
		return nil, fmt.Errorf("%w: pyramid and filter must be non-nil", ErrConfiguration)
	}
	e, err := newExtractor(cols, rows, ehogFilter.CellSize())
	if err != nil {
		return nil, err
	}
	e.pyr = pyr
	e.complete = ehogFilter
	return e, nil
}

// NewBinned creates an extractor on top of a pyramid whose layers hold
// pre-binned gradient data; ehogFilter only performs the descriptor stage.
func NewBinned(pyr *pyramid.Pyramid, ehogFilter *ehog.Filter, cols, rows int) (*Extractor, error) {
	if pyr == nil || ehogFilter == nil {
		return nil, fmt.Errorf("%w: pyramid and filter must be non-nil", ErrConfiguration)
	}
	e, err := newExtractor(cols, rows, ehogFilter.CellSize())
	if err != nil {
		return nil, err
	}
	e.pyr = pyr
	e.binned = ehogFilter
	return e, nil
}

// NewFromWidths creates an extractor together with its own grayscale
// pyramid, sized so that the smallest layer serves enlarged patches of
// minWidth and the largest serves enlarged patches of maxWidth.
// octaveLayers of 0 selects DefaultOctaveLayerCount.
func NewFromWidths(ehogFilter *ehog.CompleteFilter, cols, rows, minWidth, maxWidth, octaveLayers int) (*Extractor, error) {
	if ehogFilter == nil {
		return nil, fmt.Errorf("%w: filter must be non-nil", ErrConfiguration)
	}
	e, err := newExtractor(cols, rows, ehogFilter.CellSize())
	if err != nil {
		return nil, err
	}
	pyr, err := e.buildPyramid(minWidth, maxWidth, octaveLayers, nil, nil)
	if err != nil {
		return nil, err
	}
	e.pyr = pyr
	e.complete = ehogFilter
	return e, nil
}

// NewBinnedFromWidths creates an extractor together with its own pyramid
// whose layers are run through the given gradient and binning stages after
// downscaling, so ehogFilter only performs the descriptor stage.
func NewBinnedFromWidths(gradient *filter.Gradient, binning *filter.Binning, ehogFilter *ehog.Filter,
	cols, rows, minWidth, maxWidth, octaveLayers int) (*Extractor, error) {

	if gradient == nil || binning == nil || ehogFilter == nil {
		return nil, fmt.Errorf("%w: gradient, binning and filter must be non-nil", ErrConfiguration)
	}
	e, err := newExtractor(cols, rows, ehogFilter.CellSize())
	if err != nil {
		return nil, err
	}
	pyr, err := e.buildPyramid(minWidth, maxWidth, octaveLayers, gradient, binning)
	if err != nil {
		return nil, err
	}
	e.pyr = pyr
	e.binned = ehogFilter
	return e, nil
}

// newExtractor derives the fixed geometry shared by all construction
// variants: the enlarged patch size and the enlargement factors that add one
// cell of halo per side.
func newExtractor(cols, rows, cellSize int) (*Extractor, error) {
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%w: cell grid must be positive, got %dx%d", ErrConfiguration, cols, rows)
	}
	if cellSize <= 0 {
		return nil, fmt.Errorf("%w: cell size must be positive, got %d", ErrConfiguration, cellSize)
	}
	return &Extractor{
		cols:         cols,
		rows:         rows,
		cellSize:     cellSize,
		patchWidth:   (cols + 2*haloRing) * cellSize,
		patchHeight:  (rows + 2*haloRing) * cellSize,
		widthFactor:  float64(cols+2*haloRing) / float64(cols),
		heightFactor: float64(rows+2*haloRing) / float64(rows),
	}, nil
}

// buildPyramid sizes a pyramid for the width-based constructors. The scale of
// a layer that serves a request of width w is w·widthFactor/patchWidth, so
// the ladder spans that value for minWidth through maxWidth.
func (e *Extractor) buildPyramid(minWidth, maxWidth, octaveLayers int,
	gradient *filter.Gradient, binning *filter.Binning) (*pyramid.Pyramid, error) {

	if minWidth <= 0 || maxWidth < minWidth {
		return nil, fmt.Errorf("%w: invalid width range [%d, %d]", ErrConfiguration, minWidth, maxWidth)
	}
	if octaveLayers < 0 {
		return nil, fmt.Errorf("%w: negative octave layer count %d", ErrConfiguration, octaveLayers)
	}
	if octaveLayers == 0 {
		octaveLayers = DefaultOctaveLayerCount
	}
	minScale := float64(minWidth) * e.widthFactor / float64(e.patchWidth)
	maxScale := float64(maxWidth) * e.widthFactor / float64(e.patchWidth)
	var (
		pyr *pyramid.Pyramid
		err error
	)
	if binning != nil {
		pyr, err = pyramid.NewBinned(minScale, maxScale, octaveLayers, gradient, binning)
	} else {
		pyr, err = pyramid.New(minScale, maxScale, octaveLayers)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return pyr, nil
}

// Update pushes a new source image into the pyramid, rebuilding all scale
// layers. Layer references handed out by earlier Extract calls become stale;
// returned patches are unaffected. Returns pyramid.ErrEmptyImage for a nil
// or zero-area image.
func (e *Extractor) Update(img image.Image) error {
	return e.pyr.Update(img)
}

// Extract computes the extended HOG descriptor for the rectangle
// (x, y, width, height) in source image coordinates. The rectangle may lie
// partially or fully outside the image; missing samples are reflected at the
// layer borders. Returns ErrNoScale if the pyramid holds no layers, and
// ErrConfiguration for non-positive dimensions.
func (e *Extractor) Extract(x, y, width, height int) (*Patch, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: patch size must be positive, got %dx%d", ErrConfiguration, width, height)
	}

	// Grow the rectangle outward from its center so the halo cells surround
	// the requested grid symmetrically.
	enlargedW := float64(width) * e.widthFactor
	enlargedH := float64(height) * e.heightFactor
	enlargedX := float64(x) - (enlargedW-float64(width))/2
	enlargedY := float64(y) - (enlargedH-float64(height))/2

	layer, ok := e.pyr.ClosestLayer(enlargedW / float64(e.patchWidth))
	if !ok {
		return nil, ErrNoScale
	}

	// Translate into layer coordinates. The patch size in layer pixels is
	// fixed; only the origin depends on the request.
	startX := int(math.Round(enlargedX / layer.Scale))
	startY := int(math.Round(enlargedY / layer.Scale))
	colLUT := ReflectIndices(layer.Width(), startX, e.patchWidth)
	rowLUT := ReflectIndices(layer.Height(), startY, e.patchHeight)

	haloed, err := e.describe(layer, rowLUT, colLUT)
	if err != nil {
		return nil, err
	}
	grid, err := haloed.CropBorder(haloRing)
	if err != nil {
		return nil, err
	}
	return &Patch{
		X:        x,
		Y:        y,
		Width:    width,
		Height:   height,
		Grid:     grid,
		Features: grid.Concat(),
	}, nil
}

// describe gathers the haloed patch from the layer and applies the cell
// descriptor filter matching the layer's element type.
func (e *Extractor) describe(layer *pyramid.Layer, rowLUT, colLUT []int) (*ehog.DescriptorGrid, error) {
	switch {
	case e.binned != nil:
		src := layer.Binned
		if src == nil {
			return nil, fmt.Errorf("%w: pyramid layers lack binned data", ErrConfiguration)
		}
		patch := &filter.BinnedImage{
			Width:  e.patchWidth,
			Height: e.patchHeight,
			Stride: e.patchWidth,
			Bins:   src.Bins,
			Pix:    Gather(src.Pix, src.Stride, rowLUT, colLUT),
		}
		return e.binned.Apply(patch)
	default:
		src := layer.Gray
		if src == nil {
			return nil, fmt.Errorf("%w: pyramid layers lack grayscale data", ErrConfiguration)
		}
		patch := &image.Gray{
			Pix:    Gather(src.Pix, src.Stride, rowLUT, colLUT),
			Stride: e.patchWidth,
			Rect:   image.Rect(0, 0, e.patchWidth, e.patchHeight),
		}
		return e.complete.Apply(patch)
	}
}

// PatchWidth returns the pixel width of the image data underlying extracted
// patches. This is the pre-filter size: it includes the halo cells and is
// larger than the requested grid, which Extract crops back down to
// cols×rows cells.
func (e *Extractor) PatchWidth() int {
	return e.patchWidth
}

// PatchHeight returns the pixel height of the image data underlying
// extracted patches, including the halo (see PatchWidth).
func (e *Extractor) PatchHeight() int {
	return e.patchHeight
}

// Cols returns the requested cell grid column count.
func (e *Extractor) Cols() int { return e.cols }

// Rows returns the requested cell grid row count.
func (e *Extractor) Rows() int { return e.rows }

// CellSize returns the pixel edge length of one descriptor cell.
func (e *Extractor) CellSize() int { return e.cellSize }

// Pyramid returns the extractor's image pyramid.
func (e *Extractor) Pyramid() *pyramid.Pyramid {
	return e.pyr
}

// Clone returns an independent copy of the extractor. The immutable cell
// filter is shared; the pyramid is deep-copied so Update calls on the
// original and the clone never interfere.
func (e *Extractor) Clone() *Extractor {
	out := *e
	out.pyr = e.pyr.Clone()
	return &out
}
