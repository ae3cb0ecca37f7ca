// Package agent executes a small ordered list of named operations against
// the locator and the input injector. The list is produced elsewhere (a
// planner, a hand-written script); this package only runs it.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/menta2k/ui-locator/pkg/geometry"
	"github.com/menta2k/ui-locator/pkg/input"
	"github.com/menta2k/ui-locator/pkg/locator"
	"github.com/menta2k/ui-locator/pkg/screen"
)

// Step is one operation in a run. Ops: focus, capture, locate, click, type.
type Step struct {
	Op     string `json:"op"`
	Target string `json:"target,omitempty"`
	Text   string `json:"text,omitempty"`
	Window string `json:"window,omitempty"`
}

// LoadSteps reads a JSON step list from a file.
func LoadSteps(path string) ([]Step, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read steps file: %w", err)
	}
	var steps []Step
	if err := json.Unmarshal(data, &steps); err != nil {
		return nil, fmt.Errorf("failed to parse steps file: %w", err)
	}
	return steps, nil
}

// Runner executes steps in order. The collaborator funcs default to the
// real screen and input packages; tests swap them out.
type Runner struct {
	Locator *locator.Locator
	Window  geometry.Rect
	Capture func(bounds geometry.Rect) (image.Image, error)
	Click   func(p geometry.Point) error
	Type    func(text string)
	Focus   func(name string) error

	img   image.Image
	point *geometry.Point
}

// NewRunner wires a runner to the real screen and input collaborators.
// window is the logical bounds of the region being captured and drives the
// pixel-to-point mapping of located elements.
func NewRunner(loc *locator.Locator, window geometry.Rect) *Runner {
	return &Runner{
		Locator: loc,
		Window:  window,
		Capture: screen.CaptureRegion,
		Click:   input.Click,
		Type:    input.Type,
		Focus:   input.Focus,
	}
}

// Run executes the steps in order, stopping at the first failure.
func (r *Runner) Run(ctx context.Context, steps []Step) error {
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.run(ctx, step); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
	}
	return nil
}

func (r *Runner) run(ctx context.Context, step Step) error {
	switch strings.ToLower(step.Op) {
	case "focus":
		if step.Window == "" {
			return fmt.Errorf("focus requires a window name")
		}
		return r.Focus(step.Window)

	case "capture":
		img, err := r.Capture(r.Window)
		if err != nil {
			return err
		}
		r.img = img
		r.point = nil
		return nil

	case "locate":
		if step.Target == "" {
			return fmt.Errorf("locate requires a target description")
		}
		if r.img == nil {
			img, err := r.Capture(r.Window)
			if err != nil {
				return err
			}
			r.img = img
		}
		res, err := r.Locator.Locate(ctx, r.img, step.Target)
		if err != nil {
			return err
		}
		b := r.img.Bounds()
		size := geometry.Size{W: float64(b.Dx()), H: float64(b.Dy())}
		p, err := screen.ToScreen(res.Point, size, r.Window)
		if err != nil {
			return err
		}
		r.point = &p
		return nil

	case "click":
		if r.point == nil {
			return fmt.Errorf("click requires a preceding locate")
		}
		return r.Click(*r.point)

	case "type":
		r.Type(step.Text)
		return nil

	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
}
