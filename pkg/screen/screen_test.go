package screen

import (
	"errors"
	"math"
	"testing"

	"github.com/menta2k/ui-locator/pkg/geometry"
)

func TestToScreen(t *testing.T) {
	// A 2976x1850 capture of a window whose logical bounds are 1496x928 at
	// (8,46): roughly a 2x density display.
	imageSize := geometry.Size{W: 2976, H: 1850}
	window := geometry.NewRect(geometry.FrameScreen, 8, 46, 1496, 928)
	p := geometry.Point{X: 936.75, Y: 1721.02, Frame: geometry.FrameImage}

	got, err := ToScreen(p, imageSize, window)
	if err != nil {
		t.Fatalf("ToScreen failed: %v", err)
	}

	if math.Abs(got.X-478.89) > 0.01 || math.Abs(got.Y-909.30) > 0.01 {
		t.Errorf("ToScreen = (%f,%f), want (478.89,909.30)", got.X, got.Y)
	}
	if got.Frame != geometry.FrameScreen {
		t.Errorf("frame = %v, want screen", got.Frame)
	}
}

func TestToScreenIdentityScale(t *testing.T) {
	imageSize := geometry.Size{W: 800, H: 600}
	window := geometry.NewRect(geometry.FrameScreen, 100, 50, 800, 600)
	p := geometry.Point{X: 400, Y: 300, Frame: geometry.FrameImage}

	got, err := ToScreen(p, imageSize, window)
	if err != nil {
		t.Fatalf("ToScreen failed: %v", err)
	}
	if got.X != 500 || got.Y != 350 {
		t.Errorf("ToScreen = (%f,%f), want (500,350)", got.X, got.Y)
	}
}

func TestToScreenDegenerateWindow(t *testing.T) {
	imageSize := geometry.Size{W: 800, H: 600}
	p := geometry.Point{X: 1, Y: 1, Frame: geometry.FrameImage}

	_, err := ToScreen(p, imageSize, geometry.NewRect(geometry.FrameScreen, 0, 0, 0, 600))
	if !errors.Is(err, ErrDegenerateWindow) {
		t.Errorf("zero-width window error = %v, want ErrDegenerateWindow", err)
	}

	_, err = ToScreen(p, geometry.Size{W: 0, H: 600}, geometry.NewRect(geometry.FrameScreen, 0, 0, 800, 600))
	if !errors.Is(err, ErrDegenerateWindow) {
		t.Errorf("zero-width image error = %v, want ErrDegenerateWindow", err)
	}
}
