package feature

import (
	"errors"
	"fmt"

	"github.com/hupe1980/hclust/internal/errkind"
)

var (
	// ErrTooFewRows is returned when a matrix has fewer than two records.
	ErrTooFewRows = fmt.Errorf("%w: at least two records are required", errkind.InvalidInput)

	// ErrNoColumns is returned when a matrix has no attributes.
	ErrNoColumns = fmt.Errorf("%w: at least one column is required", errkind.InvalidInput)

	// ErrNonFinite is returned for infinite values anywhere and for NaN in
	// matrices that do not allow missing values.
	ErrNonFinite = errors.New("non-finite value")
)

// MaskMismatchError indicates that the categorical mask does not have one
// entry per column.
type MaskMismatchError struct {
	Expected int
	Actual   int
}

func (e *MaskMismatchError) Error() string {
	return fmt.Sprintf("categorical mask length mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *MaskMismatchError) Unwrap() error { return errkind.InvalidInput }

// RaggedRowError indicates a record whose width differs from the first one.
type RaggedRowError struct {
	Row      int
	Expected int
	Actual   int
}

func (e *RaggedRowError) Error() string {
	return fmt.Sprintf("row %d has %d columns, expected %d", e.Row, e.Actual, e.Expected)
}

func (e *RaggedRowError) Unwrap() error { return errkind.InvalidInput }

// ValueError reports an unusable cell.
type ValueError struct {
	Row    int
	Col    int
	Reason error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("value at row %d column %d: %v", e.Row, e.Col, e.Reason)
}

func (e *ValueError) Unwrap() []error { return []error{e.Reason, errkind.InvalidInput} }
