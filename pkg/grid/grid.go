// Package grid maps between 1-based cell numbers and the sub-rectangles
// those cells occupy inside a region of interest.
//
// Numbering is row-major starting at the top-left cell, so for a grid of
// width N cell k sits at row (k-1)/N, column (k-1)%N. The overlay renderer
// and the cell resolver both derive geometry from this package, which keeps
// the labels the oracle sees and the rectangles the locator computes in
// exact agreement.
package grid

import (
	"errors"
	"fmt"

	"github.com/menta2k/ui-locator/pkg/geometry"
)

// ErrInvalidCellIndex is returned when a cell number falls outside
// [1, gridWidth*gridWidth] or the grid width itself is not positive.
// Callers decide the fallback policy; nothing is silently clamped.
var ErrInvalidCellIndex = errors.New("invalid cell index")

// CellRect returns the rectangle that cell number cell occupies inside roi
// for a gridWidth x gridWidth grid. The result is in roi's frame.
func CellRect(roi geometry.Rect, gridWidth, cell int) (geometry.Rect, error) {
	if gridWidth < 1 {
		return geometry.Rect{}, fmt.Errorf("grid width %d: %w", gridWidth, ErrInvalidCellIndex)
	}
	if cell < 1 || cell > gridWidth*gridWidth {
		return geometry.Rect{}, fmt.Errorf("cell %d not in [1,%d]: %w", cell, gridWidth*gridWidth, ErrInvalidCellIndex)
	}

	row := (cell - 1) / gridWidth
	col := (cell - 1) % gridWidth
	cellW := roi.W / float64(gridWidth)
	cellH := roi.H / float64(gridWidth)

	return geometry.Rect{
		X:     roi.X + float64(col)*cellW,
		Y:     roi.Y + float64(row)*cellH,
		W:     cellW,
		H:     cellH,
		Frame: roi.Frame,
	}, nil
}

// CellAt is the inverse of CellRect: it returns the 1-based cell number of
// the grid cell containing p. The point must lie inside roi.
func CellAt(roi geometry.Rect, gridWidth int, p geometry.Point) (int, error) {
	if gridWidth < 1 {
		return 0, fmt.Errorf("grid width %d: %w", gridWidth, ErrInvalidCellIndex)
	}
	if !roi.ContainsPoint(p) {
		return 0, fmt.Errorf("point %v outside region %v: %w", p, roi, ErrInvalidCellIndex)
	}

	col := int((p.X - roi.X) / (roi.W / float64(gridWidth)))
	row := int((p.Y - roi.Y) / (roi.H / float64(gridWidth)))
	// Points exactly on the far edge of the last cell stay in that cell.
	if col >= gridWidth {
		col = gridWidth - 1
	}
	if row >= gridWidth {
		row = gridWidth - 1
	}

	return row*gridWidth + col + 1, nil
}
