// Package cropper computes and extracts the padded context crops used
// between refinement rounds.
//
// The padded crop keeps surrounding pixels visible to the oracle without
// ever widening the region being searched: padding is a rendering aid, not
// a localization aid. Near an image boundary overflow is redistributed to
// the opposite edge rather than discarded, so the crop keeps as much of the
// requested context as the source allows.
package cropper

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/menta2k/ui-locator/pkg/geometry"
)

var (
	// ErrEmptyTarget is returned when the target rectangle has zero area.
	ErrEmptyTarget = errors.New("empty target rectangle")
	// ErrOutOfBounds is returned when the target lies entirely outside the
	// source bounds.
	ErrOutOfBounds = errors.New("target outside source bounds")
)

// CropResult is the outcome of extracting a sub-image. Footprint is the
// rectangle the sub-image actually covers in the image frame, snapped to
// whole pixels; it may differ from the requested rectangle and callers must
// persist it rather than the ideal one.
type CropResult struct {
	Image     *image.NRGBA
	Footprint geometry.Rect
}

// PaddedCrop computes the context crop for target inside sourceBounds.
//
// The ideal crop is target scaled by paddingFactor about its own center.
// Each edge is then handled in turn: overflow past a source edge shifts the
// whole rectangle toward the opposite edge, up to that edge's own limit, and
// the result is finally clamped to sourceBounds. Factors below 1 behave
// like 1 so the crop never shrinks below the target.
func PaddedCrop(sourceBounds, target geometry.Rect, paddingFactor float64) (geometry.Rect, error) {
	if target.Empty() {
		return geometry.Rect{}, fmt.Errorf("target %v: %w", target, ErrEmptyTarget)
	}
	if sourceBounds.Intersect(target).Empty() {
		return geometry.Rect{}, fmt.Errorf("target %v vs source %v: %w", target, sourceBounds, ErrOutOfBounds)
	}
	if paddingFactor < 1 {
		paddingFactor = 1
	}

	w := target.W * paddingFactor
	h := target.H * paddingFactor
	c := target.Center()

	x0 := c.X - w/2
	x1 := c.X + w/2
	if x0 < sourceBounds.X {
		x1 = math.Min(sourceBounds.MaxX(), x1+(sourceBounds.X-x0))
		x0 = sourceBounds.X
	}
	if x1 > sourceBounds.MaxX() {
		x0 = math.Max(sourceBounds.X, x0-(x1-sourceBounds.MaxX()))
		x1 = sourceBounds.MaxX()
	}

	y0 := c.Y - h/2
	y1 := c.Y + h/2
	if y0 < sourceBounds.Y {
		y1 = math.Min(sourceBounds.MaxY(), y1+(sourceBounds.Y-y0))
		y0 = sourceBounds.Y
	}
	if y1 > sourceBounds.MaxY() {
		y0 = math.Max(sourceBounds.Y, y0-(y1-sourceBounds.MaxY()))
		y1 = sourceBounds.MaxY()
	}

	crop := geometry.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0, Frame: target.Frame}
	return crop.ClampTo(sourceBounds), nil
}

// Extract cuts the pixels covered by footprint out of src. The footprint is
// snapped outward to whole pixels and intersected with the image bounds;
// the snapped rectangle is reported back in the result.
//
// Extraction always runs against the original capture, never a previous
// crop, so repeated rounds do not compound resampling error.
func Extract(src image.Image, footprint geometry.Rect) (CropResult, error) {
	if footprint.Empty() {
		return CropResult{}, fmt.Errorf("footprint %v: %w", footprint, ErrEmptyTarget)
	}

	bounds := src.Bounds()
	px := image.Rect(
		int(math.Floor(footprint.X)),
		int(math.Floor(footprint.Y)),
		int(math.Ceil(footprint.MaxX())),
		int(math.Ceil(footprint.MaxY())),
	).Intersect(bounds)
	if px.Empty() {
		return CropResult{}, fmt.Errorf("footprint %v vs image %v: %w", footprint, bounds, ErrOutOfBounds)
	}

	return CropResult{
		Image: imaging.Crop(src, px),
		Footprint: geometry.Rect{
			X:     float64(px.Min.X),
			Y:     float64(px.Min.Y),
			W:     float64(px.Dx()),
			H:     float64(px.Dy()),
			Frame: footprint.Frame,
		},
	}, nil
}
