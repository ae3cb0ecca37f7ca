package geometry

import "fmt"

// Frame identifies the coordinate frame a Rect or Point is expressed in.
// Mixing frames is the classic bug in this domain, so every value carries
// its frame and conversions go through explicit functions only.
type Frame int

const (
	// FrameImage is the pixel frame of the original full-resolution capture.
	FrameImage Frame = iota
	// FrameCrop is the pixel frame of a cropped sub-image, origin at the
	// crop's top-left corner.
	FrameCrop
	// FrameScreen is the logical point frame used for input injection.
	FrameScreen
)

// String returns a short name for the frame.
func (f Frame) String() string {
	switch f {
	case FrameImage:
		return "image"
	case FrameCrop:
		return "crop"
	case FrameScreen:
		return "screen"
	default:
		return fmt.Sprintf("frame(%d)", int(f))
	}
}

// Point is a location in a named coordinate frame.
type Point struct {
	X     float64
	Y     float64
	Frame Frame
}

// Size holds pixel or logical dimensions without a position.
type Size struct {
	W float64
	H float64
}

// Rect is an axis-aligned rectangle in a named coordinate frame.
// Coordinates are float64 because grid subdivision produces fractional
// positions that must survive multiple refinement rounds without drift.
type Rect struct {
	X     float64
	Y     float64
	W     float64
	H     float64
	Frame Frame
}

// NewRect builds a rectangle in the given frame.
func NewRect(frame Frame, x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h, Frame: frame}
}

// ImageRect builds a rectangle in the absolute image frame.
func ImageRect(x, y, w, h float64) Rect {
	return NewRect(FrameImage, x, y, w, h)
}

// Area returns width times height.
func (r Rect) Area() float64 {
	return r.W * r.H
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// MaxX returns the right edge coordinate.
func (r Rect) MaxX() float64 { return r.X + r.W }

// MaxY returns the bottom edge coordinate.
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Center returns the rectangle's center point in the same frame.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2, Frame: r.Frame}
}

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size {
	return Size{W: r.W, H: r.H}
}

// Contains reports whether other lies fully inside r. Rectangles in
// different frames never contain each other.
func (r Rect) Contains(other Rect) bool {
	if r.Frame != other.Frame {
		return false
	}
	return other.X >= r.X && other.Y >= r.Y &&
		other.MaxX() <= r.MaxX() && other.MaxY() <= r.MaxY()
}

// ContainsPoint reports whether p lies inside r (right/bottom edges
// exclusive, matching pixel-grid semantics).
func (r Rect) ContainsPoint(p Point) bool {
	if r.Frame != p.Frame {
		return false
	}
	return p.X >= r.X && p.Y >= r.Y && p.X < r.MaxX() && p.Y < r.MaxY()
}

// Intersect returns the overlap of two same-frame rectangles. A
// non-overlapping or cross-frame pair yields an empty rectangle.
func (r Rect) Intersect(other Rect) Rect {
	if r.Frame != other.Frame {
		return Rect{Frame: r.Frame}
	}
	x0 := max(r.X, other.X)
	y0 := max(r.Y, other.Y)
	x1 := min(r.MaxX(), other.MaxX())
	y1 := min(r.MaxY(), other.MaxY())
	if x1 <= x0 || y1 <= y0 {
		return Rect{Frame: r.Frame}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0, Frame: r.Frame}
}

// ClampTo shifts and shrinks r as needed so it fits inside bounds.
func (r Rect) ClampTo(bounds Rect) Rect {
	return r.Intersect(bounds)
}

// Translate returns r moved by (dx, dy) in the same frame.
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// ToCrop re-expresses an image-frame rectangle relative to a crop
// footprint, i.e. with the footprint's origin subtracted.
func (r Rect) ToCrop(footprint Rect) Rect {
	return Rect{
		X:     r.X - footprint.X,
		Y:     r.Y - footprint.Y,
		W:     r.W,
		H:     r.H,
		Frame: FrameCrop,
	}
}

// ToImage re-expresses a crop-frame rectangle back in the absolute image
// frame of the given footprint.
func (r Rect) ToImage(footprint Rect) Rect {
	return Rect{
		X:     r.X + footprint.X,
		Y:     r.Y + footprint.Y,
		W:     r.W,
		H:     r.H,
		Frame: FrameImage,
	}
}

// String formats the rectangle for logs and error messages.
func (r Rect) String() string {
	return fmt.Sprintf("%s[%.2f,%.2f %.2fx%.2f]", r.Frame, r.X, r.Y, r.W, r.H)
}

// Scale multiplies a point's coordinates by independent per-axis factors,
// keeping the frame. Used when a sub-image's pixel size differs from its
// footprint (e.g. after downscaling for the model).
func (p Point) Scale(sx, sy float64) Point {
	p.X *= sx
	p.Y *= sy
	return p
}

// String formats the point for logs and error messages.
func (p Point) String() string {
	return fmt.Sprintf("%s(%.2f,%.2f)", p.Frame, p.X, p.Y)
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
