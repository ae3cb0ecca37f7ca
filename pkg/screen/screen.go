// Package screen provides capture and the mapping from captured pixels to
// logical screen points.
package screen

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-vgo/robotgo"

	"github.com/menta2k/ui-locator/pkg/geometry"
)

// ErrDegenerateWindow is returned when a window's logical bounds have zero
// extent, which would make the pixel-to-point scale undefined.
var ErrDegenerateWindow = errors.New("degenerate window bounds")

// ToScreen maps an image-frame point to the logical screen frame.
// imageSize is the capture's pixel size and window the captured window's
// logical bounds; on high-density displays the two differ, so each axis
// gets its own scale.
func ToScreen(p geometry.Point, imageSize geometry.Size, window geometry.Rect) (geometry.Point, error) {
	if window.W <= 0 || window.H <= 0 {
		return geometry.Point{}, fmt.Errorf("window %v: %w", window, ErrDegenerateWindow)
	}
	if imageSize.W <= 0 || imageSize.H <= 0 {
		return geometry.Point{}, fmt.Errorf("image size %gx%g: %w", imageSize.W, imageSize.H, ErrDegenerateWindow)
	}

	scaleX := imageSize.W / window.W
	scaleY := imageSize.H / window.H
	return geometry.Point{
		X:     window.X + p.X/scaleX,
		Y:     window.Y + p.Y/scaleY,
		Frame: geometry.FrameScreen,
	}, nil
}

// Capture grabs the whole primary display at physical resolution.
func Capture() (image.Image, error) {
	img, err := robotgo.CaptureImg()
	if err != nil {
		return nil, fmt.Errorf("screen capture failed: %w", err)
	}
	return img, nil
}

// CaptureRegion grabs a logical-coordinate region of the display.
func CaptureRegion(bounds geometry.Rect) (image.Image, error) {
	if bounds.Empty() {
		return nil, fmt.Errorf("capture region %v: %w", bounds, ErrDegenerateWindow)
	}
	img, err := robotgo.CaptureImg(int(bounds.X), int(bounds.Y), int(bounds.W), int(bounds.H))
	if err != nil {
		return nil, fmt.Errorf("region capture failed: %w", err)
	}
	return img, nil
}

// LogicalSize returns the primary display's logical size.
func LogicalSize() geometry.Size {
	w, h := robotgo.GetScreenSize()
	return geometry.Size{W: float64(w), H: float64(h)}
}
