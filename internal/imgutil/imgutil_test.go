package imgutil

import (
	"image"
	"image/color"
	"testing"
)

func TestToGrayPassThrough(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	if ToGray(src) != src {
		t.Error("origin-anchored gray image should pass through unchanged")
	}

	// A gray sub-image with a shifted origin must be re-anchored.
	shifted := src.SubImage(image.Rect(1, 1, 4, 4)).(*image.Gray)
	out := ToGray(shifted)
	if out == shifted {
		t.Error("shifted gray image must be copied")
	}
	if out.Rect.Min != (image.Point{}) || out.Rect.Dx() != 3 || out.Rect.Dy() != 3 {
		t.Errorf("re-anchored bounds = %v; want 3x3 at origin", out.Rect)
	}
}

func TestToGrayConverts(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	src.Set(1, 0, color.RGBA{A: 255})
	out := ToGray(src)
	if out.Pix[0] != 255 || out.Pix[1] != 0 {
		t.Errorf("converted pixels = %v; want [255 0]", out.Pix[:2])
	}
}

func TestCloneGray(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 2))
	src.Pix[0] = 9
	dst := CloneGray(src)
	dst.Pix[0] = 1
	if src.Pix[0] != 9 {
		t.Error("clone shares pixel storage with the source")
	}
}

func TestIsEmpty(t *testing.T) {
	if !IsEmpty(nil) {
		t.Error("nil image should be empty")
	}
	if !IsEmpty(image.NewGray(image.Rect(0, 0, 0, 7))) {
		t.Error("zero-width image should be empty")
	}
	if IsEmpty(image.NewGray(image.Rect(0, 0, 1, 1))) {
		t.Error("1x1 image should not be empty")
	}
}
