package visualization

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"hogextract/pkg/ehog"
)

const testBins = 18

// testGrid builds a small grid with energy concentrated in one cell and one
// orientation.
func testGrid(t *testing.T) *ehog.DescriptorGrid {
	t.Helper()
	g, err := ehog.NewDescriptorGrid(3, 2, testBins+testBins/2+4)
	if err != nil {
		t.Fatal(err)
	}
	desc := g.Cell(1, 1)
	desc[testBins+2] = 0.4 // one folded orientation bin
	return g
}

// TestRenderGlyphsGeometry verifies output dimensions and that only cells
// with orientation energy produce ink.
func TestRenderGlyphsGeometry(t *testing.T) {
	v := NewViewer(testGrid(t), testBins, 16)
	img := v.RenderGlyphs()

	if img.Rect.Dx() != 3*16 || img.Rect.Dy() != 2*16 {
		t.Fatalf("rendered size = %v; want 48x32", img.Rect)
	}

	var inside, outside int
	for y := 0; y < img.Rect.Dy(); y++ {
		for x := 0; x < img.Rect.Dx(); x++ {
			if img.Pix[y*img.Stride+x] == 0 {
				continue
			}
			if x >= 16 && x < 32 && y >= 16 {
				inside++
			} else {
				outside++
			}
		}
	}
	if inside == 0 {
		t.Error("active cell rendered no glyph")
	}
	if outside != 0 {
		t.Errorf("%d glyph pixels outside the active cell", outside)
	}
}

// TestRenderEnergyGeometry verifies the energy map highlights the active
// cell at full brightness.
func TestRenderEnergyGeometry(t *testing.T) {
	v := NewViewer(testGrid(t), testBins, 8)
	img := v.RenderEnergy()

	if img.Rect.Dx() != 3*8 || img.Rect.Dy() != 2*8 {
		t.Fatalf("rendered size = %v; want 24x16", img.Rect)
	}
	if got := img.Pix[12*img.Stride+12]; got != 255 {
		t.Errorf("active cell shade = %d; want 255", got)
	}
	if got := img.Pix[4*img.Stride+4]; got != 0 {
		t.Errorf("inactive cell shade = %d; want 0", got)
	}
}

// TestRenderEmptyGrid verifies a zero grid renders flat black instead of
// dividing by zero.
func TestRenderEmptyGrid(t *testing.T) {
	g, err := ehog.NewDescriptorGrid(2, 2, testBins+testBins/2+4)
	if err != nil {
		t.Fatal(err)
	}
	v := NewViewer(g, testBins, 8)
	for _, img := range []*image.Gray{v.RenderGlyphs(), v.RenderEnergy()} {
		for i, p := range img.Pix {
			if p != 0 {
				t.Fatalf("pixel %d = %d on empty grid", i, p)
			}
		}
	}
}

// TestSaveImage verifies the PNG writer produces a file.
func TestSaveImage(t *testing.T) {
	v := NewViewer(testGrid(t), testBins, 8)
	path := filepath.Join(t.TempDir(), "glyphs.png")
	if err := v.SaveImage(v.RenderGlyphs(), path); err != nil {
		t.Fatalf("SaveImage: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("saved PNG is empty")
	}
}
