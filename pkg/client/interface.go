package client

import (
	"context"
	"errors"
)

// ErrMalformedResponse is returned when the model's reply cannot be read as
// a single cell number. The locator surfaces it instead of guessing a cell;
// retrying is the caller's decision.
var ErrMalformedResponse = errors.New("malformed classifier response")

// RegionClassifier answers which numbered grid cell contains the described
// target. Implementations return the raw cell number exactly as the model
// stated it; range validation happens at cell resolution.
type RegionClassifier interface {
	ClassifyRegion(ctx context.Context, model, target, imgB64 string, gridWidth int) (int, error)
}
