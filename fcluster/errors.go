package fcluster

import (
	"fmt"

	"github.com/hupe1980/hclust/internal/errkind"
)

var (
	// ErrNilTree is returned when no tree was supplied.
	ErrNilTree = fmt.Errorf("%w: nil merge tree", errkind.InvalidInput)

	// ErrInvalidThreshold is returned for a negative or NaN cut height.
	ErrInvalidThreshold = fmt.Errorf("%w: cut height must be a non-negative number", errkind.InvalidInput)
)

// InvalidKError reports a cluster count outside 1..N.
type InvalidKError struct {
	K int
	N int
}

func (e *InvalidKError) Error() string {
	return fmt.Sprintf("cluster count %d outside 1..%d", e.K, e.N)
}

func (e *InvalidKError) Unwrap() error { return errkind.InvalidInput }
