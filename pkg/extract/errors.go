package extract

import "errors"

var (
	// ErrConfiguration indicates invalid construction or request parameters:
	// non-positive cell counts, widths, or a min width above the max width.
	ErrConfiguration = errors.New("extract: invalid configuration")
	// ErrNoScale indicates no pyramid layer can serve the request, typically
	// because Update has not been called yet.
	ErrNoScale = errors.New("extract: no scale layer available")
)
