package overlay

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/menta2k/ui-locator/pkg/geometry"
	"github.com/menta2k/ui-locator/pkg/grid"
)

// createTestImage creates a uniform gray test image
func createTestImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{64, 64, 64, 255})
		}
	}
	return img
}

func TestRenderDoesNotMutateSource(t *testing.T) {
	src := createTestImage(400, 400)
	footprint := geometry.ImageRect(0, 0, 400, 400)

	before := make([]uint8, len(src.Pix))
	copy(before, src.Pix)

	_, err := Render(src, footprint, footprint, 4)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for i := range src.Pix {
		if src.Pix[i] != before[i] {
			t.Fatal("Render mutated the source image")
		}
	}
}

func TestRenderDrawsGridLines(t *testing.T) {
	src := createTestImage(400, 400)
	footprint := geometry.ImageRect(0, 0, 400, 400)

	annotated, err := Render(src, footprint, footprint, 4)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// A vertical grid line sits at x=100; sample away from labels.
	c := annotated.NRGBAAt(100, 10)
	if c != gridColor {
		t.Errorf("pixel at (100,10) = %v, want grid color %v", c, gridColor)
	}
	// And a horizontal one at y=300.
	c = annotated.NRGBAAt(10, 300)
	if c != gridColor {
		t.Errorf("pixel at (10,300) = %v, want grid color %v", c, gridColor)
	}
	// Pixels inside a cell, away from lines and labels, stay untouched.
	c = annotated.NRGBAAt(50, 85)
	if (c != color.NRGBA{64, 64, 64, 255}) {
		t.Errorf("pixel at (50,85) = %v, want background", c)
	}
}

func TestRenderGridCoversOnlyRoi(t *testing.T) {
	// Crop is 400x400 but the roi is the central 200x200: grid lines must
	// stay inside the roi while the padding ring keeps its pixels except
	// for the roi outline.
	src := createTestImage(400, 400)
	footprint := geometry.ImageRect(1000, 2000, 400, 400)
	roi := geometry.ImageRect(1100, 2100, 200, 200)

	annotated, err := Render(src, footprint, roi, 2)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// Vertical center line of the 2x2 grid: x=200 in crop pixels, spanning
	// y 100..300 only.
	if c := annotated.NRGBAAt(200, 150); c != gridColor {
		t.Errorf("pixel at (200,150) = %v, want grid color", c)
	}
	if c := annotated.NRGBAAt(200, 40); c == gridColor {
		t.Error("grid line leaked above the roi")
	}
	if c := annotated.NRGBAAt(200, 360); c == gridColor {
		t.Error("grid line leaked below the roi")
	}

	// The roi outline is drawn just outside the roi in a distinct color.
	if c := annotated.NRGBAAt(97, 200); c != roiColor {
		t.Errorf("pixel at (97,200) = %v, want roi outline", c)
	}
}

func TestRenderScaledFootprint(t *testing.T) {
	// A 200x200 sub-image representing a 400x400 footprint: grid geometry
	// must scale by 0.5.
	src := createTestImage(200, 200)
	footprint := geometry.ImageRect(0, 0, 400, 400)

	annotated, err := Render(src, footprint, footprint, 4)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if c := annotated.NRGBAAt(50, 5); c != gridColor {
		t.Errorf("pixel at (50,5) = %v, want grid color (scaled line)", c)
	}
}

func TestRenderErrors(t *testing.T) {
	src := createTestImage(100, 100)
	footprint := geometry.ImageRect(0, 0, 100, 100)

	_, err := Render(src, footprint, geometry.ImageRect(0, 0, 0, 100), 4)
	if !errors.Is(err, ErrDegenerateRegion) {
		t.Errorf("zero-area roi error = %v, want ErrDegenerateRegion", err)
	}

	_, err = Render(src, geometry.Rect{}, footprint, 4)
	if !errors.Is(err, ErrDegenerateRegion) {
		t.Errorf("empty footprint error = %v, want ErrDegenerateRegion", err)
	}

	_, err = Render(src, footprint, footprint, 0)
	if !errors.Is(err, grid.ErrInvalidCellIndex) {
		t.Errorf("zero grid error = %v, want ErrInvalidCellIndex", err)
	}
}
