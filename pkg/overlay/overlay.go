// Package overlay renders the numbered grid the oracle is asked about.
//
// The grid covers exactly the region of interest, not the whole sub-image,
// so padding context stays visible but unlabeled. Cell numbers follow the
// row-major 1-based convention from the grid package, which keeps what the
// oracle sees and what the resolver computes in lockstep.
package overlay

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/menta2k/ui-locator/pkg/geometry"
	"github.com/menta2k/ui-locator/pkg/grid"
)

// ErrDegenerateRegion is returned when the region of interest has zero area.
var ErrDegenerateRegion = errors.New("degenerate region of interest")

// Colors used for the annotation. Red numbering is what the oracle prompt
// refers to, so these are part of the contract with the prompt text.
var (
	gridColor  = color.NRGBA{255, 40, 40, 255}
	labelColor = color.NRGBA{255, 40, 40, 255}
	roiColor   = color.NRGBA{255, 204, 0, 255}
)

var (
	fontOnce sync.Once
	fontSFNT *opentype.Font
	fontErr  error
)

func labelFace(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		fontSFNT, fontErr = opentype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fmt.Errorf("parse label font: %w", fontErr)
	}
	return opentype.NewFace(fontSFNT, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Render draws a gridWidth x gridWidth numbered grid over the roi portion of
// src and outlines the roi itself. footprint is the image-frame rectangle
// src represents; roi is the image-frame rectangle the grid must cover and
// has to lie inside footprint. src is never mutated.
func Render(src image.Image, footprint, roi geometry.Rect, gridWidth int) (*image.NRGBA, error) {
	if roi.Empty() {
		return nil, fmt.Errorf("roi %v: %w", roi, ErrDegenerateRegion)
	}
	if footprint.Empty() {
		return nil, fmt.Errorf("footprint %v: %w", footprint, ErrDegenerateRegion)
	}
	if gridWidth < 1 {
		return nil, fmt.Errorf("grid width %d: %w", gridWidth, grid.ErrInvalidCellIndex)
	}

	dst := imaging.Clone(src)
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()

	// The sub-image's pixels may not map 1:1 onto the footprint if the crop
	// was snapped or resized; scale the roi into pixel space accordingly.
	sx := float64(w) / footprint.W
	sy := float64(h) / footprint.H
	rx0 := (roi.X - footprint.X) * sx
	ry0 := (roi.Y - footprint.Y) * sy
	rw := roi.W * sx
	rh := roi.H * sy

	cellW := rw / float64(gridWidth)
	cellH := rh / float64(gridWidth)
	stroke := int(math.Max(1, 0.002*float64(minInt(w, h))))

	// Grid lines, gridWidth+1 in each direction, spanning only the roi.
	for i := 0; i <= gridWidth; i++ {
		x := int(rx0 + float64(i)*cellW + 0.5)
		y := int(ry0 + float64(i)*cellH + 0.5)
		for s := 0; s < stroke; s++ {
			drawVLine(dst, x+s, int(ry0+0.5), int(ry0+rh+0.5), gridColor)
			drawHLine(dst, y+s, int(rx0+0.5), int(rx0+rw+0.5), gridColor)
		}
	}

	// Distinct roi outline so the oracle can tell scope from padding.
	outline := stroke + 2
	for s := 0; s < outline; s++ {
		drawHLine(dst, int(ry0+0.5)-s-1, int(rx0+0.5)-outline, int(rx0+rw+0.5)+outline, roiColor)
		drawHLine(dst, int(ry0+rh+0.5)+s+1, int(rx0+0.5)-outline, int(rx0+rw+0.5)+outline, roiColor)
		drawVLine(dst, int(rx0+0.5)-s-1, int(ry0+0.5)-outline, int(ry0+rh+0.5)+outline, roiColor)
		drawVLine(dst, int(rx0+rw+0.5)+s+1, int(ry0+0.5)-outline, int(ry0+rh+0.5)+outline, roiColor)
	}

	// Cell numbers at each cell's visual center, sized to the cell.
	size := math.Max(10, math.Min(48, 0.3*math.Min(cellW, cellH)))
	face, err := labelFace(size)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(labelColor),
		Face: face,
	}
	metrics := face.Metrics()
	for cell := 1; cell <= gridWidth*gridWidth; cell++ {
		row := (cell - 1) / gridWidth
		col := (cell - 1) % gridWidth
		cx := rx0 + (float64(col)+0.5)*cellW
		cy := ry0 + (float64(row)+0.5)*cellH

		label := strconv.Itoa(cell)
		width := drawer.MeasureString(label)
		drawer.Dot = fixed.Point26_6{
			X: fixed.I(int(cx+0.5)) - width/2,
			Y: fixed.I(int(cy+0.5)) + (metrics.Ascent-metrics.Descent)/2,
		}
		drawer.DrawString(label)
	}

	return dst, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func drawHLine(img *image.NRGBA, y, x0, x1 int, c color.NRGBA) {
	if y < 0 || y >= img.Bounds().Dy() {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if x1 <= 0 || x0 >= img.Bounds().Dx() {
		return
	}
	if x0 < 0 {
		x0 = 0
	}
	if x1 > img.Bounds().Dx() {
		x1 = img.Bounds().Dx()
	}
	i := y*img.Stride + x0*4
	for x := x0; x < x1; x++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += 4
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	if x < 0 || x >= img.Bounds().Dx() {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if y1 <= 0 || y0 >= img.Bounds().Dy() {
		return
	}
	if y0 < 0 {
		y0 = 0
	}
	if y1 > img.Bounds().Dy() {
		y1 = img.Bounds().Dy()
	}
	i := y0*img.Stride + x*4
	for y := y0; y < y1; y++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += img.Stride
	}
}
