package linkage

import (
	"errors"
	"fmt"

	"github.com/hupe1980/hclust/internal/errkind"
)

var (
	// ErrTooFewObservations is returned for fewer than two observations.
	ErrTooFewObservations = fmt.Errorf("%w: at least two observations are required", errkind.InvalidInput)

	// ErrInvalidMethod is returned for an unknown Method value.
	ErrInvalidMethod = fmt.Errorf("%w: invalid linkage method", errkind.InvalidInput)
)

// DistanceError reports an unusable input distance.
type DistanceError struct {
	I, J  int
	Value float32
}

func (e *DistanceError) Error() string {
	return fmt.Sprintf("invalid distance %v between %d and %d", e.Value, e.I, e.J)
}

func (e *DistanceError) Unwrap() error { return errkind.InvalidInput }

// TreeError reports a malformed merge list passed to NewTree.
type TreeError struct {
	Merge  int
	Reason string
}

func (e *TreeError) Error() string {
	return fmt.Sprintf("merge %d: %s", e.Merge, e.Reason)
}

func (e *TreeError) Unwrap() error { return errkind.InvalidInput }

// InvariantError reports a broken post-condition of the clusterer.
type InvariantError struct {
	Reason string
}

func (e *InvariantError) Error() string { return "linkage invariant violated: " + e.Reason }

func (e *InvariantError) Unwrap() error { return errkind.Internal }

func cancelled(err error) error {
	if errors.Is(err, errkind.Cancelled) {
		return err
	}
	return fmt.Errorf("%w: %w", errkind.Cancelled, err)
}
