package grid

import (
	"errors"
	"math"
	"testing"

	"github.com/menta2k/ui-locator/pkg/geometry"
)

func TestCellRect(t *testing.T) {
	roi := geometry.ImageRect(0, 0, 400, 400)

	tests := []struct {
		name      string
		gridWidth int
		cell      int
		want      geometry.Rect
	}{
		{"first cell", 4, 1, geometry.ImageRect(0, 0, 100, 100)},
		{"end of first row", 4, 4, geometry.ImageRect(300, 0, 100, 100)},
		{"start of second row", 4, 5, geometry.ImageRect(0, 100, 100, 100)},
		{"last cell", 4, 16, geometry.ImageRect(300, 300, 100, 100)},
		{"single cell grid", 1, 1, geometry.ImageRect(0, 0, 400, 400)},
		{"2x2 bottom left", 2, 3, geometry.ImageRect(0, 200, 200, 200)},
	}

	for _, tt := range tests {
		got, err := CellRect(roi, tt.gridWidth, tt.cell)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: CellRect = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCellRectOffsetOrigin(t *testing.T) {
	// The roi origin must offset the cell, and fractional cell sizes must
	// be preserved exactly.
	roi := geometry.ImageRect(0, 0, 2976, 1850)

	got, err := CellRect(roi, 4, 14)
	if err != nil {
		t.Fatalf("CellRect failed: %v", err)
	}

	want := geometry.ImageRect(744, 1387.5, 744, 462.5)
	if got != want {
		t.Errorf("CellRect = %v, want %v", got, want)
	}
}

func TestCellRectInvalid(t *testing.T) {
	roi := geometry.ImageRect(0, 0, 100, 100)

	tests := []struct {
		name      string
		gridWidth int
		cell      int
	}{
		{"zero cell", 4, 0},
		{"negative cell", 4, -3},
		{"cell past last", 4, 17},
		{"zero grid", 0, 1},
		{"negative grid", -1, 1},
	}

	for _, tt := range tests {
		_, err := CellRect(roi, tt.gridWidth, tt.cell)
		if !errors.Is(err, ErrInvalidCellIndex) {
			t.Errorf("%s: error = %v, want ErrInvalidCellIndex", tt.name, err)
		}
	}
}

func TestCellNumberingRoundTrip(t *testing.T) {
	// For every cell of several grid widths, resolving the cell and asking
	// which cell its center belongs to must return the original number.
	roi := geometry.ImageRect(37, 91, 1003, 577)

	for _, gridWidth := range []int{1, 2, 4, 10} {
		for cell := 1; cell <= gridWidth*gridWidth; cell++ {
			rect, err := CellRect(roi, gridWidth, cell)
			if err != nil {
				t.Fatalf("grid %d cell %d: CellRect failed: %v", gridWidth, cell, err)
			}

			// Re-derive (row, col) from the rectangle's position.
			col := int(math.Round((rect.X - roi.X) / rect.W))
			row := int(math.Round((rect.Y - roi.Y) / rect.H))
			wantRow := (cell - 1) / gridWidth
			wantCol := (cell - 1) % gridWidth
			if row != wantRow || col != wantCol {
				t.Errorf("grid %d cell %d: derived (%d,%d), want (%d,%d)", gridWidth, cell, row, col, wantRow, wantCol)
			}

			got, err := CellAt(roi, gridWidth, rect.Center())
			if err != nil {
				t.Fatalf("grid %d cell %d: CellAt failed: %v", gridWidth, cell, err)
			}
			if got != cell {
				t.Errorf("grid %d: round-trip gave %d, want %d", gridWidth, got, cell)
			}
		}
	}
}

func TestCellAtOutside(t *testing.T) {
	roi := geometry.ImageRect(0, 0, 100, 100)

	_, err := CellAt(roi, 4, geometry.Point{X: 150, Y: 50, Frame: geometry.FrameImage})
	if !errors.Is(err, ErrInvalidCellIndex) {
		t.Errorf("error = %v, want ErrInvalidCellIndex", err)
	}

	_, err = CellAt(roi, 0, geometry.Point{X: 50, Y: 50, Frame: geometry.FrameImage})
	if !errors.Is(err, ErrInvalidCellIndex) {
		t.Errorf("zero grid width error = %v, want ErrInvalidCellIndex", err)
	}
}
