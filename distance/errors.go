package distance

import (
	"errors"
	"fmt"

	"github.com/hupe1980/hclust/internal/errkind"
)

var (
	// ErrMissingValues is returned when the matrix holds NaN cells and
	// WithMissingValues was not given.
	ErrMissingValues = fmt.Errorf("%w: matrix has missing values", errkind.InvalidInput)

	// ErrNilMatrix is returned for a nil feature matrix.
	ErrNilMatrix = fmt.Errorf("%w: nil feature matrix", errkind.InvalidInput)
)

// WeightsError indicates an unusable weights vector.
type WeightsError struct {
	Expected int
	Actual   int
	Reason   string
}

func (e *WeightsError) Error() string {
	if e.Reason != "" {
		return "invalid weights: " + e.Reason
	}
	return fmt.Sprintf("weights length mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *WeightsError) Unwrap() error { return errkind.InvalidInput }

func cancelled(err error) error {
	if errors.Is(err, errkind.Cancelled) {
		return err
	}
	return fmt.Errorf("%w: %w", errkind.Cancelled, err)
}
