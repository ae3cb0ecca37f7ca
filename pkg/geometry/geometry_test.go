package geometry

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRectBasics(t *testing.T) {
	r := ImageRect(10, 20, 100, 50)

	if r.Area() != 5000 {
		t.Errorf("Area() = %f, want 5000", r.Area())
	}
	if r.Empty() {
		t.Error("Empty() = true for non-empty rect")
	}
	if r.MaxX() != 110 || r.MaxY() != 70 {
		t.Errorf("MaxX/MaxY = %f/%f, want 110/70", r.MaxX(), r.MaxY())
	}

	c := r.Center()
	if !almostEqual(c.X, 60) || !almostEqual(c.Y, 45) {
		t.Errorf("Center() = (%f,%f), want (60,45)", c.X, c.Y)
	}
	if c.Frame != FrameImage {
		t.Errorf("Center() frame = %v, want image", c.Frame)
	}
}

func TestRectEmpty(t *testing.T) {
	tests := []struct {
		name string
		rect Rect
		want bool
	}{
		{"positive area", ImageRect(0, 0, 10, 10), false},
		{"zero width", ImageRect(0, 0, 0, 10), true},
		{"zero height", ImageRect(0, 0, 10, 0), true},
		{"negative width", ImageRect(0, 0, -5, 10), true},
		{"zero rect", Rect{}, true},
	}

	for _, tt := range tests {
		if got := tt.rect.Empty(); got != tt.want {
			t.Errorf("%s: Empty() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIntersect(t *testing.T) {
	a := ImageRect(0, 0, 100, 100)
	b := ImageRect(50, 50, 100, 100)

	got := a.Intersect(b)
	want := ImageRect(50, 50, 50, 50)
	if got != want {
		t.Errorf("Intersect = %v, want %v", got, want)
	}

	// Disjoint rectangles yield an empty result.
	c := ImageRect(200, 200, 10, 10)
	if !a.Intersect(c).Empty() {
		t.Error("Intersect of disjoint rects should be empty")
	}

	// Cross-frame intersection is always empty.
	d := NewRect(FrameScreen, 0, 0, 100, 100)
	if !a.Intersect(d).Empty() {
		t.Error("Intersect across frames should be empty")
	}
}

func TestContains(t *testing.T) {
	outer := ImageRect(0, 0, 100, 100)

	if !outer.Contains(ImageRect(10, 10, 50, 50)) {
		t.Error("Contains() = false for inner rect")
	}
	if outer.Contains(ImageRect(90, 90, 20, 20)) {
		t.Error("Contains() = true for overflowing rect")
	}
	if !outer.Contains(outer) {
		t.Error("Contains() = false for itself")
	}
	if outer.Contains(NewRect(FrameCrop, 10, 10, 50, 50)) {
		t.Error("Contains() = true across frames")
	}
}

func TestContainsPoint(t *testing.T) {
	r := ImageRect(10, 10, 20, 20)

	if !r.ContainsPoint(Point{X: 10, Y: 10, Frame: FrameImage}) {
		t.Error("top-left corner should be inside")
	}
	if r.ContainsPoint(Point{X: 30, Y: 30, Frame: FrameImage}) {
		t.Error("bottom-right corner should be outside")
	}
	if r.ContainsPoint(Point{X: 15, Y: 15, Frame: FrameScreen}) {
		t.Error("point in another frame should be outside")
	}
}

func TestFrameConversion(t *testing.T) {
	footprint := ImageRect(100, 200, 400, 300)
	r := ImageRect(150, 250, 40, 30)

	cropRel := r.ToCrop(footprint)
	if cropRel.Frame != FrameCrop {
		t.Errorf("ToCrop frame = %v, want crop", cropRel.Frame)
	}
	if cropRel.X != 50 || cropRel.Y != 50 {
		t.Errorf("ToCrop origin = (%f,%f), want (50,50)", cropRel.X, cropRel.Y)
	}

	back := cropRel.ToImage(footprint)
	if back != r {
		t.Errorf("round-trip = %v, want %v", back, r)
	}
}

func TestClampTo(t *testing.T) {
	bounds := ImageRect(0, 0, 100, 100)
	r := ImageRect(-10, 50, 50, 100)

	got := r.ClampTo(bounds)
	want := ImageRect(0, 50, 40, 50)
	if got != want {
		t.Errorf("ClampTo = %v, want %v", got, want)
	}
}

func TestPointScale(t *testing.T) {
	p := Point{X: 10, Y: 20, Frame: FrameCrop}
	got := p.Scale(2, 0.5)
	if got.X != 20 || got.Y != 10 || got.Frame != FrameCrop {
		t.Errorf("Scale = %v", got)
	}
}

func TestFrameString(t *testing.T) {
	if FrameImage.String() != "image" || FrameCrop.String() != "crop" || FrameScreen.String() != "screen" {
		t.Error("unexpected frame names")
	}
}
