package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stratlab/strategic-agent/internal/core/domain"
)

func TestWithRetryStopsOnTerminalError(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), testRetry, func(context.Context) error {
		calls++
		return domain.WrapError(domain.ErrAuthenticationFailed, "call", fmt.Errorf("bad key"))
	})
	if !domain.IsKind(err, domain.ErrAuthenticationFailed) {
		t.Fatalf("err = %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestWithRetryRecoversWithinBudget(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), testRetry, func(context.Context) error {
		calls++
		if calls < 3 {
			return domain.WrapError(domain.ErrTimeout, "call", fmt.Errorf("slow"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("withRetry: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestWithRetryExhaustsBudget(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), testRetry, func(context.Context) error {
		calls++
		return domain.WrapError(domain.ErrRateLimited, "call", fmt.Errorf("429"))
	})
	if !domain.IsKind(err, domain.ErrRateLimited) {
		t.Fatalf("err = %v", err)
	}
	if calls != testRetry.MaxAttempts {
		t.Fatalf("calls = %d, want %d", calls, testRetry.MaxAttempts)
	}
}

func TestWithRetryDoesNotRetryCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := withRetry(ctx, testRetry, func(context.Context) error {
		calls++
		cancel()
		return ctx.Err()
	})
	if err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestWithRetryCancelledDuringBackoffReportsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := withRetry(ctx, testRetry, func(context.Context) error {
		calls++
		cancel()
		return domain.WrapError(domain.ErrRateLimited, "call", fmt.Errorf("429"))
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want cancellation to dominate", err)
	}
	if !domain.IsKind(err, domain.ErrRateLimited) {
		t.Fatalf("err = %v, want the last attempt's failure preserved", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestJitterStaysWithinBounds(t *testing.T) {
	base := testRetry.InitialBackoff * 8
	for i := 0; i < 100; i++ {
		wait := jitter(base)
		if wait < base/2 || wait > base {
			t.Fatalf("jitter(%s) = %s, outside [%s, %s]", base, wait, base/2, base)
		}
	}
}
