package condensed

import (
	"fmt"

	"github.com/hupe1980/hclust/internal/errkind"
)

// LengthError indicates a vector length that is not N(N-1)/2 for any N >= 2.
type LengthError struct {
	Length int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("condensed length %d is not n(n-1)/2 for any n >= 2", e.Length)
}

func (e *LengthError) Unwrap() error { return errkind.InvalidInput }

// AsymmetryError indicates a square matrix that is not symmetric or has a
// non-zero diagonal.
type AsymmetryError struct {
	I, J int
}

func (e *AsymmetryError) Error() string {
	if e.I == e.J {
		return fmt.Sprintf("non-zero diagonal at (%d,%d)", e.I, e.J)
	}
	return fmt.Sprintf("matrix is not symmetric at (%d,%d)", e.I, e.J)
}

func (e *AsymmetryError) Unwrap() error { return errkind.InvalidInput }

// ErrTooSmall is returned for matrices with fewer than two observations.
var ErrTooSmall = fmt.Errorf("%w: at least two observations are required", errkind.InvalidInput)
