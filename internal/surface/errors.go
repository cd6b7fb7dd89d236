package surface

import (
	"errors"
	"fmt"
)

// Fatal reconstruction errors. Each aborts the request that raised it.
var (
	// ErrEmptyInput is returned when the input cloud has no points.
	ErrEmptyInput = errors.New("empty input cloud")

	// ErrInsufficientData is returned when smoothing discards every point
	// because all neighbourhoods are too sparse for the search radius.
	ErrInsufficientData = errors.New("insufficient data: smoothing retained no points")

	// ErrDegenerateGeometry is returned when fewer than three non-coincident
	// points remain for hull construction.
	ErrDegenerateGeometry = errors.New("degenerate geometry: fewer than 3 distinct points")
)

// StageError records the pipeline stage in which a fatal error occurred.
type StageError struct {
	Stage string
	Err   error
}

// Error returns "<stage>: <cause>".
func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error kind.
func (e *StageError) Unwrap() error { return e.Err }
