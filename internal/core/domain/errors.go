package domain

import (
	"context"
	"errors"
	"fmt"
)

// Error kinds surfaced by the provider boundaries. Providers must return a
// typed kind on failure, never an empty result plus a log line.
var (
	ErrProviderUnavailable  = errors.New("provider unavailable")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrRateLimited          = errors.New("rate limited")
	ErrTimeout              = errors.New("timeout")
	ErrContentFiltered      = errors.New("content filtered")
	ErrInputTooLarge        = errors.New("input too large")
	ErrCollectionNotFound   = errors.New("collection not found")
	ErrDimensionMismatch    = errors.New("dimension mismatch")
	ErrCancelled            = errors.New("cancelled")
	ErrMalformed            = errors.New("malformed request")
	ErrSessionNotFound      = errors.New("session not found")
	ErrNotFound             = errors.New("not found")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// KindOf reduces an arbitrary error to one of the taxonomy kinds. Context
// cancellation maps to Cancelled, a blown deadline to Timeout, anything
// untyped to ProviderUnavailable.
func KindOf(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, ErrCancelled):
		return ErrCancelled
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, ErrTimeout):
		return ErrTimeout
	case errors.Is(err, ErrAuthenticationFailed):
		return ErrAuthenticationFailed
	case errors.Is(err, ErrRateLimited):
		return ErrRateLimited
	case errors.Is(err, ErrContentFiltered):
		return ErrContentFiltered
	case errors.Is(err, ErrInputTooLarge):
		return ErrInputTooLarge
	case errors.Is(err, ErrCollectionNotFound):
		return ErrCollectionNotFound
	case errors.Is(err, ErrDimensionMismatch):
		return ErrDimensionMismatch
	case errors.Is(err, ErrMalformed):
		return ErrMalformed
	case errors.Is(err, ErrSessionNotFound):
		return ErrSessionNotFound
	case errors.Is(err, ErrNotFound):
		return ErrNotFound
	default:
		return ErrProviderUnavailable
	}
}

// PipelineError reports which stage of a pipeline run failed and why.
type PipelineError struct {
	Stage   Stage
	Kind    error
	Message string
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline stage %s failed: %s", e.Stage, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Kind
}

func NewPipelineError(stage Stage, err error) *PipelineError {
	return &PipelineError{
		Stage:   stage,
		Kind:    KindOf(err),
		Message: err.Error(),
	}
}
