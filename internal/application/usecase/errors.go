package usecase

import (
	"errors"
	"fmt"
)

// Operation failures surfaced to callers as structured results. None are
// retried automatically, and none crash the process; the messaging layer
// maps each sentinel to a stable wire code.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrWindowTooSmall   = errors.New("window too small to split")
	ErrTabNotFound      = errors.New("tab not found")
	ErrInsufficientTabs = errors.New("not enough tabs to split")
	ErrReferenceLimit   = errors.New("reference window limit reached")
	ErrNotTracked       = errors.New("window is not a tracked reference window")
	ErrHostOperation    = errors.New("host operation failed")
)

// hostErr wraps an unexpected host failure at the operation boundary,
// preserving the underlying message for diagnostics.
func hostErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrHostOperation, op, err)
}
