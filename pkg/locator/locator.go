// Package locator implements progressive grid-refinement localization.
//
// One Locate call runs a fixed number of refinement rounds. Each round
// crops the original capture to the current context footprint, renders a
// numbered grid over the region still believed to contain the element, asks
// the oracle which cell holds it, and shrinks the target to that cell. The
// grid is always resolved against the previous target, never the padded
// crop, so padding adds context for the oracle without ever widening the
// search. The final answer is the last target's center in the capture's
// own pixel frame.
package locator

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/menta2k/ui-locator/pkg/cropper"
	"github.com/menta2k/ui-locator/pkg/geometry"
	"github.com/menta2k/ui-locator/pkg/grid"
	"github.com/menta2k/ui-locator/pkg/overlay"
)

// ErrOracleTimeout is returned when a single oracle query exceeds the
// configured query timeout while the overall call is still live.
var ErrOracleTimeout = errors.New("oracle query timed out")

// QueryFunc asks the oracle which 1-based cell of a gridWidth x gridWidth
// overlay contains the described target. It must honor ctx cancellation;
// the locator bounds each call with Config.QueryTimeout.
type QueryFunc func(ctx context.Context, annotated image.Image, target string, gridWidth int) (int, error)

// SnapshotFunc receives each round's annotated image before it is sent to
// the oracle. Used for debug artifact dumps; errors are the consumer's
// problem and must not affect the refinement.
type SnapshotFunc func(iteration int, annotated image.Image)

// Config holds the refinement parameters. All knobs are caller-supplied;
// the algorithm hardcodes none of them.
type Config struct {
	GridWidth     int
	Iterations    int
	PaddingFactor float64
	// MinTargetSize stops refinement early once both target dimensions are
	// at or below this many pixels. Zero disables the early stop.
	MinTargetSize float64
	// QueryTimeout bounds each oracle query. Zero means no per-query bound
	// beyond the caller's context.
	QueryTimeout time.Duration
}

// DefaultConfig returns the parameters used by the CLI when nothing else is
// configured.
func DefaultConfig() Config {
	return Config{
		GridWidth:     4,
		Iterations:    3,
		PaddingFactor: 2.0,
		QueryTimeout:  120 * time.Second,
	}
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	if c.GridWidth < 1 {
		return fmt.Errorf("grid width must be at least 1, got %d", c.GridWidth)
	}
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1, got %d", c.Iterations)
	}
	if c.PaddingFactor < 1 {
		return fmt.Errorf("padding factor must be at least 1, got %g", c.PaddingFactor)
	}
	if c.MinTargetSize < 0 {
		return fmt.Errorf("min target size must not be negative, got %g", c.MinTargetSize)
	}
	return nil
}

// Iteration records one completed refinement round for diagnostics.
type Iteration struct {
	Index  int
	Cell   int
	Target geometry.Rect // target after resolving the cell
	Crop   geometry.Rect // footprint the oracle saw this round
}

// Result is a successful localization.
type Result struct {
	Point      geometry.Point
	Iterations []Iteration
}

// Error is a failed localization. It carries the rectangles in play when
// the failure happened plus the rounds already completed, so the full
// refinement trail can be reconstructed.
type Error struct {
	Iteration int
	Target    geometry.Rect
	Crop      geometry.Rect
	Trail     []Iteration
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("iteration %d (target %v, crop %v): %v", e.Iteration, e.Target, e.Crop, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Locator drives the refinement loop. It holds no per-call state; a single
// Locator may serve concurrent Locate calls.
type Locator struct {
	cfg      Config
	query    QueryFunc
	snapshot SnapshotFunc
}

// New creates a Locator with the given parameters and oracle query.
func New(cfg Config, query QueryFunc) (*Locator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if query == nil {
		return nil, errors.New("query function must not be nil")
	}
	return &Locator{cfg: cfg, query: query}, nil
}

// SetSnapshot installs a per-iteration annotated-image hook.
func (l *Locator) SetSnapshot(fn SnapshotFunc) {
	l.snapshot = fn
}

// Locate searches the whole capture for the described element.
func (l *Locator) Locate(ctx context.Context, src image.Image, target string) (Result, error) {
	b := src.Bounds()
	region := geometry.ImageRect(float64(b.Min.X), float64(b.Min.Y), float64(b.Dx()), float64(b.Dy()))
	return l.LocateIn(ctx, src, region, target)
}

// LocateIn searches only the given image-frame region of the capture.
func (l *Locator) LocateIn(ctx context.Context, src image.Image, region geometry.Rect, target string) (Result, error) {
	b := src.Bounds()
	bounds := geometry.ImageRect(float64(b.Min.X), float64(b.Min.Y), float64(b.Dx()), float64(b.Dy()))

	// Per-call state; discarded when the call returns.
	cur := region
	crop := region
	var trail []Iteration

	fail := func(k int, err error) (Result, error) {
		return Result{}, &Error{Iteration: k, Target: cur, Crop: crop, Trail: trail, Err: err}
	}

	if cur.Empty() {
		return fail(0, fmt.Errorf("search region %v: %w", region, cropper.ErrEmptyTarget))
	}
	if bounds.Intersect(cur).Empty() {
		return fail(0, fmt.Errorf("search region %v vs capture %v: %w", region, bounds, cropper.ErrOutOfBounds))
	}

	for k := 0; k < l.cfg.Iterations; k++ {
		// Cancellation is checked once per round, before the next query.
		if err := ctx.Err(); err != nil {
			return fail(k, err)
		}

		// Always cut from the original capture so repeated rounds never
		// compound resampling error.
		cr, err := cropper.Extract(src, crop)
		if err != nil {
			return fail(k, err)
		}
		crop = cr.Footprint

		annotated, err := overlay.Render(cr.Image, cr.Footprint, cur, l.cfg.GridWidth)
		if err != nil {
			return fail(k, err)
		}
		if l.snapshot != nil {
			l.snapshot(k, annotated)
		}

		cell, err := l.ask(ctx, annotated, target)
		if err != nil {
			return fail(k, err)
		}

		// The cell shrinks the previous target, not the padded crop.
		next, err := grid.CellRect(cur, l.cfg.GridWidth, cell)
		if err != nil {
			return fail(k, err)
		}
		cur = next
		trail = append(trail, Iteration{Index: k, Cell: cell, Target: cur, Crop: crop})

		if k == l.cfg.Iterations-1 {
			break
		}
		if l.cfg.MinTargetSize > 0 && cur.W <= l.cfg.MinTargetSize && cur.H <= l.cfg.MinTargetSize {
			break
		}

		crop, err = cropper.PaddedCrop(bounds, cur, l.cfg.PaddingFactor)
		if err != nil {
			return fail(k, err)
		}
	}

	return Result{Point: cur.Center(), Iterations: trail}, nil
}

func (l *Locator) ask(ctx context.Context, annotated image.Image, target string) (int, error) {
	qctx := ctx
	if l.cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		qctx, cancel = context.WithTimeout(ctx, l.cfg.QueryTimeout)
		defer cancel()
	}

	cell, err := l.query(qctx, annotated, target, l.cfg.GridWidth)
	if err != nil {
		// Distinguish a per-query timeout from the caller giving up.
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return 0, fmt.Errorf("after %v: %w", l.cfg.QueryTimeout, ErrOracleTimeout)
		}
		return 0, err
	}
	return cell, nil
}
