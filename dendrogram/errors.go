package dendrogram

import (
	"fmt"

	"github.com/hupe1980/hclust/internal/errkind"
)

var (
	// ErrNilTree is returned when no tree was supplied.
	ErrNilTree = fmt.Errorf("%w: nil merge tree", errkind.InvalidInput)

	// ErrInvalidThreshold is returned for a NaN colour threshold.
	ErrInvalidThreshold = fmt.Errorf("%w: colour threshold must be a number", errkind.InvalidInput)

	// ErrInvalidOrder is returned for an unknown child order.
	ErrInvalidOrder = fmt.Errorf("%w: unknown child order", errkind.InvalidInput)
)

// TruncateError reports an out-of-range truncation parameter.
type TruncateError struct {
	Mode string
	P    int
}

func (e *TruncateError) Error() string {
	return fmt.Sprintf("invalid %s truncation parameter %d", e.Mode, e.P)
}

func (e *TruncateError) Unwrap() error { return errkind.InvalidInput }
