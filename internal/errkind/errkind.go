// Package errkind defines the error kinds shared by every hclust package.
//
// Subpackages wrap one of these so callers can classify any failure with
// errors.Is, regardless of which package produced it.
package errkind

import "errors"

var (
	// InvalidInput marks malformed dimensions, mismatched masks, too few
	// observations or out-of-range parameters.
	InvalidInput = errors.New("invalid input")

	// Cancelled marks a computation stopped by its context.
	Cancelled = errors.New("cancelled")

	// Internal marks a violated invariant. It always indicates a bug.
	Internal = errors.New("internal error")
)
