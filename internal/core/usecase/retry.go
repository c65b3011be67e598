package usecase

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/stratlab/strategic-agent/internal/core/domain"
)

// RetryPolicy bounds retries on provider calls. Only RateLimited and
// Timeout are retried; everything else fails the attempt immediately.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

func (p RetryPolicy) normalize() RetryPolicy {
	out := p
	if out.MaxAttempts <= 0 {
		out.MaxAttempts = 3
	}
	if out.InitialBackoff <= 0 {
		out.InitialBackoff = 200 * time.Millisecond
	}
	if out.MaxBackoff < out.InitialBackoff {
		out.MaxBackoff = 4 * out.InitialBackoff
	}
	return out
}

func retryable(err error) bool {
	if domain.IsKind(err, domain.ErrCancelled) || domain.IsKind(err, context.Canceled) {
		return false
	}
	return domain.IsKind(err, domain.ErrRateLimited) || domain.IsKind(err, domain.ErrTimeout)
}

// withRetry runs fn with exponential backoff and jitter per the policy.
func withRetry(ctx context.Context, policy RetryPolicy, fn func(context.Context) error) error {
	policy = policy.normalize()
	backoff := policy.InitialBackoff

	var err error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		err = fn(ctx)
		if err == nil {
			return nil
		}
		if !retryable(err) || attempt == policy.MaxAttempts {
			return err
		}

		wait := jitter(backoff)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			// The cancellation must dominate: callers distinguish an
			// aborted run from a provider failure by the returned kind.
			return errors.Join(ctx.Err(), err)
		case <-timer.C:
		}

		backoff *= 2
		if backoff > policy.MaxBackoff {
			backoff = policy.MaxBackoff
		}
	}
	return err
}

// jitter spreads waits across [backoff/2, backoff] so concurrent runs do not
// hammer a rate-limited provider in lockstep.
func jitter(backoff time.Duration) time.Duration {
	half := backoff / 2
	if half <= 0 {
		return backoff
	}
	return half + time.Duration(rand.Int63n(int64(half)+1))
}
