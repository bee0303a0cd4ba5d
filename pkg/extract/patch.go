package extract

import "hogextract/pkg/ehog"

// Patch is the result of one extraction: the descriptor grid of the
// originally requested cell layout (halo already removed) and the flat
// feature vector built from it. The coordinates echo the request in source
// image pixels. The caller owns the patch exclusively; it stays valid across
// later Update calls on the extractor.
type Patch struct {
	X      int
	Y      int
	Width  int
	Height int

	// Grid holds the cols×rows descriptor cells.
	Grid *ehog.DescriptorGrid
	// Features is the row-major concatenation of all cell descriptors.
	Features []float64
}
