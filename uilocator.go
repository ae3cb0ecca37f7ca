// Package uilocator finds named interface elements in window captures and
// resolves them to clickable screen points.
//
// The oracle (a vision language model) cannot report pixel coordinates,
// only which numbered region of an annotated image contains the target. The
// locator turns that weak signal into a point by progressive refinement:
// draw a numbered grid over the region of interest, ask, shrink to the
// chosen cell, crop with surrounding context, and repeat until the region
// is small enough to click.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//		"log"
//
//		uilocator "github.com/menta2k/ui-locator"
//		"github.com/menta2k/ui-locator/pkg/ollama"
//	)
//
//	func main() {
//		oracle, err := ollama.NewClient("http://localhost:11434")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		loc, err := uilocator.New(oracle, "openbmb/minicpm-v4.5")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		img, err := loc.LoadImage("capture.png")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		result, err := loc.LocateInImage(context.Background(), img, "submit text button")
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Printf("found at %v after %d rounds\n", result.Point, len(result.Iterations))
//	}
//
// The heavy lifting happens in three packages: pkg/cropper computes
// boundary-aware padded context crops, pkg/overlay renders the numbered
// grid, and pkg/locator runs the refinement loop and owns its invariants.
package uilocator

import (
	"context"
	"fmt"
	"image"

	"github.com/menta2k/ui-locator/pkg/client"
	"github.com/menta2k/ui-locator/pkg/geometry"
	"github.com/menta2k/ui-locator/pkg/locator"
	"github.com/menta2k/ui-locator/pkg/processing"
	"github.com/menta2k/ui-locator/pkg/screen"
)

// Version of the ui-locator library
const Version = "1.0.0"

// SendOptions control the image payload sent to the vision model.
type SendOptions struct {
	Format  string // jpg or png
	MaxDim  int    // long-side cap in pixels, 0 keeps the original size
	Quality int    // JPEG quality
}

// DefaultSendOptions returns the payload settings used when none are given.
func DefaultSendOptions() SendOptions {
	return SendOptions{Format: "jpg", MaxDim: 1536, Quality: 85}
}

// Locator is the high-level entry point tying image loading, the oracle
// client, the refinement core, and screen mapping together.
type Locator struct {
	processor  *processing.Processor
	classifier client.RegionClassifier
	core       *locator.Locator
	model      string
	send       SendOptions
}

// New creates a Locator with default refinement parameters.
func New(classifier client.RegionClassifier, model string) (*Locator, error) {
	return NewWithConfig(classifier, model, locator.DefaultConfig(), DefaultSendOptions())
}

// NewWithConfig creates a Locator with explicit refinement parameters and
// payload settings.
func NewWithConfig(classifier client.RegionClassifier, model string, cfg locator.Config, send SendOptions) (*Locator, error) {
	if classifier == nil {
		return nil, fmt.Errorf("classifier must not be nil")
	}
	if model == "" {
		return nil, fmt.Errorf("model cannot be empty")
	}

	l := &Locator{
		processor:  processing.NewProcessor(),
		classifier: classifier,
		model:      model,
		send:       send,
	}

	core, err := locator.New(cfg, l.query)
	if err != nil {
		return nil, err
	}
	l.core = core
	return l, nil
}

// SetSnapshot installs a hook receiving each round's annotated image.
func (l *Locator) SetSnapshot(fn locator.SnapshotFunc) {
	l.core.SetSnapshot(fn)
}

// Core exposes the underlying refinement locator, e.g. for the step runner.
func (l *Locator) Core() *locator.Locator {
	return l.core
}

// LoadImage loads a capture from file (jpg, png or webp).
func (l *Locator) LoadImage(path string) (image.Image, error) {
	return l.processor.LoadImage(path)
}

// LocateInImage finds the described element in a capture and returns its
// center in the capture's pixel frame plus the refinement trail.
func (l *Locator) LocateInImage(ctx context.Context, img image.Image, target string) (locator.Result, error) {
	return l.core.Locate(ctx, img, target)
}

// LocateInRegion restricts the search to an image-frame sub-region.
func (l *Locator) LocateInRegion(ctx context.Context, img image.Image, region geometry.Rect, target string) (locator.Result, error) {
	return l.core.LocateIn(ctx, img, region, target)
}

// LocateOnScreen finds the element and maps its center to the logical
// screen frame, given the captured window's logical bounds.
func (l *Locator) LocateOnScreen(ctx context.Context, img image.Image, target string, window geometry.Rect) (geometry.Point, locator.Result, error) {
	result, err := l.core.Locate(ctx, img, target)
	if err != nil {
		return geometry.Point{}, locator.Result{}, err
	}

	b := img.Bounds()
	size := geometry.Size{W: float64(b.Dx()), H: float64(b.Dy())}
	p, err := screen.ToScreen(result.Point, size, window)
	if err != nil {
		return geometry.Point{}, result, err
	}
	return p, result, nil
}

// query adapts the oracle client into the core's QueryFunc: encode the
// annotated image for the model, ask, and hand back the raw cell number.
func (l *Locator) query(ctx context.Context, annotated image.Image, target string, gridWidth int) (int, error) {
	imgB64, err := l.processor.PrepareForModel(annotated, l.send.Format, l.send.MaxDim, l.send.Quality)
	if err != nil {
		return 0, fmt.Errorf("failed to encode image for model: %w", err)
	}
	return l.classifier.ClassifyRegion(ctx, l.model, target, imgB64, gridWidth)
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
