package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RetryConfig controls retry behavior for one logical upstream call.
type RetryConfig struct {
	Retries   int           // retries after the first attempt
	BaseDelay time.Duration // wait before retry n is BaseDelay * 2^n
	Timeout   time.Duration // per-attempt bound; 0 = none
}

// DefaultRetryConfig is suitable for most upstream calls.
var DefaultRetryConfig = RetryConfig{
	Retries:   3,
	BaseDelay: 500 * time.Millisecond,
	Timeout:   10 * time.Second,
}

// RetryDo runs op, retrying retryable failures with exponential backoff.
// Each attempt gets its own deadline; an attempt that overruns it fails with a
// timeout NetworkError and is retried. The last error is returned unchanged.
func RetryDo[T any](ctx context.Context, rc RetryConfig, op func(context.Context) (T, error)) (T, error) {
	if rc.Retries < 0 {
		rc.Retries = 0
	}
	attempt := 0
	operation := func() (T, error) {
		attempt++
		metrics.UpstreamAttempts.Add(1)
		if attempt > 1 {
			metrics.Retries.Add(1)
		}

		res, err := runAttempt(ctx, rc.Timeout, op)
		if err == nil {
			return res, nil
		}
		if ctx.Err() != nil {
			return res, backoff.Permanent(ctx.Err())
		}
		if !IsRetryable(err) {
			return res, backoff.Permanent(err)
		}
		return res, err
	}

	res, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(exponential(rc)),
		backoff.WithMaxTries(uint(rc.Retries+1)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, wait time.Duration) {
			slog.Debug("retrying", slog.Int("attempt", attempt), slog.Duration("wait", wait), slog.Any("error", err))
		}),
	)
	if err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			err = perm.Err
		}
		var zero T
		return zero, err
	}
	return res, nil
}

func runAttempt[T any](ctx context.Context, timeout time.Duration, op func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return op(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := op(attemptCtx)
	if err != nil && ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		var netErr *NetworkError
		if !errors.As(err, &netErr) {
			err = &NetworkError{Op: "attempt", Timeout: true, Err: err}
		}
	}
	return res, err
}

// exponential returns a jitter-free backoff yielding BaseDelay, 2*BaseDelay, 4*BaseDelay...
func exponential(rc RetryConfig) *backoff.ExponentialBackOff {
	base := rc.BaseDelay
	if base <= 0 {
		base = DefaultRetryConfig.BaseDelay
	}
	maxWait := base
	for i := 0; i < rc.Retries && maxWait < time.Hour; i++ {
		maxWait *= 2
	}
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = base
	bo.RandomizationFactor = 0
	bo.Multiplier = 2
	bo.MaxInterval = maxWait
	return bo
}

// IsRetryable reports whether err is worth another attempt.
// Errors carrying an HTTP status below 500 are terminal, as are caller
// mistakes and policy outcomes. Transport failures, timeouts and 5xx retry.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var (
		valErr      *ValidationError
		disabledErr *DisabledError
		notFoundErr *NotFoundError
	)
	if errors.As(err, &valErr) || errors.As(err, &disabledErr) || errors.As(err, &notFoundErr) {
		return false
	}
	if code := StatusCode(err); code > 0 && code < 500 {
		return false
	}
	return true
}
