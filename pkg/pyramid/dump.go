package pyramid

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"hogextract/pkg/filter"
)

// SaveLayers writes every layer as a grayscale PNG into dir, for visual
// inspection of the scale ladder. Binned layers are rendered from their
// per-pixel gradient magnitudes.
func (p *Pyramid) SaveLayers(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "pyramid: create dump directory")
	}
	for i, l := range p.layers {
		img := l.Gray
		if l.Binned != nil {
			img = renderBinned(l.Binned)
		}
		name := filepath.Join(dir, fmt.Sprintf("layer_%02d_scale_%.3f.png", i, l.Scale))
		if err := savePNG(img, name); err != nil {
			return errors.Wrapf(err, "pyramid: save layer %d", i)
		}
	}
	return nil
}

// renderBinned visualizes a binned layer as the per-pixel sum of the two bin
// weights, clipped to 8 bits.
func renderBinned(b *filter.BinnedImage) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			d := b.At(x, y)
			v := int(d.Weight1) + int(d.Weight2)
			if v > 255 {
				v = 255
			}
			img.Pix[y*img.Stride+x] = uint8(v)
		}
	}
	return img
}

func savePNG(img image.Image, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return png.Encode(file, img)
}
