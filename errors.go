package hclust

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/hclust/internal/errkind"
	"github.com/hupe1980/hclust/internal/resource"
)

var (
	// ErrInvalidInput classifies malformed inputs and out-of-range
	// parameters from every package.
	ErrInvalidInput = errkind.InvalidInput

	// ErrCancelled is returned when a context stops a computation.
	ErrCancelled = errkind.Cancelled

	// ErrInternal indicates a violated invariant.
	ErrInternal = errkind.Internal

	// ErrMemoryLimitExceeded is the cause of runs refused by WithMemoryLimit.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded

	// ErrNilMatrix is returned when no feature matrix was supplied.
	ErrNilMatrix = fmt.Errorf("%w: nil feature matrix", errkind.InvalidInput)

	// ErrNilDistances is returned when no distance matrix was supplied.
	ErrNilDistances = fmt.Errorf("%w: nil distance matrix", errkind.InvalidInput)
)

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, errkind.Cancelled) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	if errors.Is(err, resource.ErrMemoryLimitExceeded) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return err
}
