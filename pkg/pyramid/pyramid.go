// Package pyramid maintains a stack of progressively downscaled
// representations of one source image. Each layer is tagged with its scale
// factor (source pixels per layer pixel) and holds either grayscale intensity
// data or pre-binned gradient data, depending on how the pyramid was built.
package pyramid

import (
	"errors"
	"fmt"
	"image"
	"math"

	xdraw "golang.org/x/image/draw"

	"hogextract/internal/imgutil"
	"hogextract/pkg/filter"
)

// ErrEmptyImage indicates Update was called with a nil or zero-area image.
var ErrEmptyImage = errors.New("pyramid: update requires a non-empty image")

// Layer is one scale level of the pyramid. Exactly one of Gray and Binned is
// set, fixed by the pyramid's construction variant. Layers returned by
// ClosestLayer remain valid until the next Update call.
type Layer struct {
	// Scale is the number of source pixels per layer pixel.
	Scale  float64
	Gray   *image.Gray
	Binned *filter.BinnedImage
}

// Width returns the layer width in pixels.
func (l *Layer) Width() int {
	if l.Binned != nil {
		return l.Binned.Width
	}
	return l.Gray.Rect.Dx()
}

// Height returns the layer height in pixels.
func (l *Layer) Height() int {
	if l.Binned != nil {
		return l.Binned.Height
	}
	return l.Gray.Rect.Dy()
}

// Pyramid builds and owns the scale layers. The scale ladder is geometric
// with octaveLayers subdivisions per octave, covering [minScale, maxScale].
type Pyramid struct {
	minScale     float64
	maxScale     float64
	octaveLayers int

	grayscale *filter.Grayscale
	gradient  *filter.Gradient
	binning   *filter.Binning

	layers []*Layer
}

// New creates a pyramid whose layers hold grayscale intensity data.
func New(minScale, maxScale float64, octaveLayers int) (*Pyramid, error) {
	if minScale <= 0 || maxScale < minScale {
		return nil, fmt.Errorf("pyramid: invalid scale range [%g, %g]", minScale, maxScale)
	}
	if octaveLayers < 1 {
		return nil, fmt.Errorf("pyramid: octave layer count must be at least 1, got %d", octaveLayers)
	}
	return &Pyramid{
		minScale:     minScale,
		maxScale:     maxScale,
		octaveLayers: octaveLayers,
		grayscale:    filter.NewGrayscale(),
	}, nil
}

// NewBinned creates a pyramid whose layers hold pre-binned gradient data:
// after downscaling, the gradient and binning stages are applied to every
// layer.
func NewBinned(minScale, maxScale float64, octaveLayers int,
	gradient *filter.Gradient, binning *filter.Binning) (*Pyramid, error) {

	p, err := New(minScale, maxScale, octaveLayers)
	if err != nil {
		return nil, err
	}
	if gradient == nil || binning == nil {
		return nil, fmt.Errorf("pyramid: binned pyramid requires gradient and binning stages")
	}
	p.gradient = gradient
	p.binning = binning
	return p, nil
}

// scales returns the scale ladder from fine to coarse.
func (p *Pyramid) scales() []float64 {
	step := math.Pow(2, 1/float64(p.octaveLayers))
	var out []float64
	for s := p.minScale; s <= p.maxScale*(1+1e-9); s *= step {
		out = append(out, s)
	}
	return out
}

// Update rebuilds all layers from a new source image. Layers handed out
// before the call become stale and must not be used afterwards.
func (p *Pyramid) Update(img image.Image) error {
	if imgutil.IsEmpty(img) {
		return ErrEmptyImage
	}
	gray := p.grayscale.Apply(img)
	srcW, srcH := gray.Rect.Dx(), gray.Rect.Dy()

	p.layers = p.layers[:0]
	for _, s := range p.scales() {
		w := int(math.Round(float64(srcW) / s))
		h := int(math.Round(float64(srcH) / s))
		if w < 1 || h < 1 {
			// The image is too small to populate the coarser levels.
			break
		}
		var scaled *image.Gray
		if w == srcW && h == srcH {
			scaled = imgutil.CloneGray(gray)
		} else {
			scaled = image.NewGray(image.Rect(0, 0, w, h))
			xdraw.ApproxBiLinear.Scale(scaled, scaled.Rect, gray, gray.Rect, xdraw.Src, nil)
		}
		layer := &Layer{Scale: s}
		if p.binning != nil {
			layer.Binned = p.binning.Apply(p.gradient.Apply(scaled))
		} else {
			layer.Gray = scaled
		}
		p.layers = append(p.layers, layer)
	}
	return nil
}

// ClosestLayer returns the layer whose scale factor is nearest to target by
// ratio distance. When two layers are equidistant the coarser one wins, so
// patches are downsampled rather than upsampled. The second return value is
// false if no layers exist or target is not positive.
func (p *Pyramid) ClosestLayer(target float64) (*Layer, bool) {
	if len(p.layers) == 0 || target <= 0 {
		return nil, false
	}
	var best *Layer
	bestDist := math.Inf(1)
	for _, l := range p.layers {
		d := l.Scale / target
		if d < 1 {
			d = 1 / d
		}
		if d < bestDist || (d == bestDist && l.Scale > best.Scale) {
			best = l
			bestDist = d
		}
	}
	return best, true
}

// LayerCount returns the number of layers built by the last Update.
func (p *Pyramid) LayerCount() int {
	return len(p.layers)
}

// Clone returns an independent copy of the pyramid. The clone shares the
// immutable filter stages but owns deep copies of all layer buffers, so
// Update calls on either instance never affect the other.
func (p *Pyramid) Clone() *Pyramid {
	out := &Pyramid{
		minScale:     p.minScale,
		maxScale:     p.maxScale,
		octaveLayers: p.octaveLayers,
		grayscale:    p.grayscale,
		gradient:     p.gradient,
		binning:      p.binning,
	}
	out.layers = make([]*Layer, len(p.layers))
	for i, l := range p.layers {
		nl := &Layer{Scale: l.Scale}
		if l.Gray != nil {
			nl.Gray = imgutil.CloneGray(l.Gray)
		}
		if l.Binned != nil {
			pix := make([]filter.BinData, len(l.Binned.Pix))
			copy(pix, l.Binned.Pix)
			nl.Binned = &filter.BinnedImage{
				Width:  l.Binned.Width,
				Height: l.Binned.Height,
				Stride: l.Binned.Stride,
				Bins:   l.Binned.Bins,
				Pix:    pix,
			}
		}
		out.layers[i] = nl
	}
	return out
}
