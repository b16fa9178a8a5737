package llm

import (
	"context"
	"errors"
	"time"
)

const (
	// defaultRateLimitRetries is the number of retries after a 429.
	defaultRateLimitRetries = 3

	// defaultTransientRetries is the number of retries after any other
	// failing response.
	defaultTransientRetries = 2

	// defaultBackoffBase is the initial backoff delay after a 429.
	// The delay doubles on each subsequent rate-limited attempt.
	defaultBackoffBase = time.Second

	// defaultTransientDelay is the fixed delay between transient retries.
	defaultTransientDelay = 500 * time.Millisecond
)

// retryPolicy controls how failed model API calls are retried. Retries are
// transparent to callers: only final exhaustion surfaces an error.
type retryPolicy struct {
	rateLimitRetries int
	transientRetries int
	backoffBase      time.Duration
	transientDelay   time.Duration
}

func defaultRetryPolicy() retryPolicy {
	return retryPolicy{
		rateLimitRetries: defaultRateLimitRetries,
		transientRetries: defaultTransientRetries,
		backoffBase:      defaultBackoffBase,
		transientDelay:   defaultTransientDelay,
	}
}

// do invokes call, retrying rate-limited responses with exponential backoff
// and other failing responses with a fixed delay. Timeouts and context
// cancellation surface immediately.
func (p retryPolicy) do(ctx context.Context, call func(context.Context) error) error {
	rateLimited := 0
	transient := 0

	for {
		err := call(ctx)
		if err == nil {
			return nil
		}

		var delay time.Duration
		switch {
		case IsTimeout(err) || errors.Is(err, context.Canceled):
			return err
		case IsRateLimited(err):
			if rateLimited >= p.rateLimitRetries {
				return err
			}
			delay = p.backoffBase << rateLimited
			rateLimited++
		case isRetryable(err):
			if transient >= p.transientRetries {
				return err
			}
			delay = p.transientDelay
			transient++
		default:
			return err
		}

		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
}

// isRetryable reports whether an error is worth another attempt: any
// upstream status other than a timeout, plus transport-level failures.
func isRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return true
	}
	var netErr *transportError
	return errors.As(err, &netErr)
}

// transportError wraps a network-level failure so the retry policy can
// distinguish it from request construction or decoding errors.
type transportError struct {
	err error
}

func (e *transportError) Error() string {
	return "sending request: " + e.err.Error()
}

func (e *transportError) Unwrap() error {
	return e.err
}

// sleep waits for the given duration or until the context is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
