// Package retry provides exponential backoff for calls that may fail
// transiently, plus helpers for reading retry hints from HTTP responses.
//
// The helpers never inspect error kinds on their own. Callers decide what
// is worth retrying:
//
//	products, err := retry.WithBackoffIf(ctx, func(ctx context.Context) (*bsale.Page[bsale.Product], error) {
//	    return client.Products.List(ctx, nil)
//	}, 3, time.Second, bsale.IsRetryable)
package retry

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// DefaultMaxAttempts is the number of attempts used when maxAttempts < 1.
	DefaultMaxAttempts = 3
	// DefaultBaseDelay is the delay before the first retry when baseDelay <= 0.
	DefaultBaseDelay = 1 * time.Second
)

// Operation is a call that can be attempted more than once.
type Operation[T any] func(ctx context.Context) (T, error)

// WithBackoff calls op up to maxAttempts times and returns the first success.
//
// Before retry i (counting from 0) it waits baseDelay * 2^i. There is no
// wait after the final attempt. When every attempt fails the last error is
// returned exactly as op returned it. Any error triggers a retry.
//
// A canceled ctx stops the loop during a wait and returns ctx.Err(). When the
// final attempt has already run, its error wins over ctx.Err().
func WithBackoff[T any](ctx context.Context, op Operation[T], maxAttempts int, baseDelay time.Duration) (T, error) {
	return WithBackoffIf(ctx, op, maxAttempts, baseDelay, nil)
}

// WithBackoffIf is WithBackoff with a predicate. A failure for which
// retryable returns false is returned immediately. A nil predicate retries
// every failure.
func WithBackoffIf[T any](
	ctx context.Context,
	op Operation[T],
	maxAttempts int,
	baseDelay time.Duration,
	retryable func(error) bool,
) (T, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(newExponential(baseDelay), uint64(maxAttempts-1)),
		ctx,
	)

	var (
		attempts int
		lastErr  error
	)

	result, err := backoff.RetryWithData[T](func() (T, error) {
		attempts++
		result, err := op(ctx)
		lastErr = err
		if err != nil && retryable != nil && !retryable(err) {
			return result, backoff.Permanent(err)
		}
		return result, err
	}, policy)

	// backoff reports ctx.Err() when the context ends during the last attempt.
	if err != nil && attempts >= maxAttempts && lastErr != nil {
		return result, lastErr
	}

	//nolint:wrapcheck // the last failure is surfaced unmodified
	return result, err
}

// newExponential returns a policy yielding base, 2*base, 4*base, ... with
// no jitter and no cap.
func newExponential(base time.Duration) *backoff.ExponentialBackOff {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     base,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         time.Duration(math.MaxInt64),
		MaxElapsedTime:      0,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}
	b.Reset()
	return b
}

// ShouldRetry returns true if the HTTP status code indicates a retryable error.
// Retryable errors include:
//   - 429 (Too Many Requests) - rate limit exceeded
//   - 5xx (Server Errors) - temporary server-side issues
func ShouldRetry(statusCode int) bool {
	return statusCode >= http.StatusInternalServerError || statusCode == http.StatusTooManyRequests
}

// ParseRetryAfter parses the Retry-After HTTP header and returns the duration to wait.
// Only the integer-seconds form is understood; HTTP-date values, empty
// headers and non-positive numbers all yield 0.
func ParseRetryAfter(retryAfterHeader string) time.Duration {
	if retryAfterHeader == "" {
		return 0
	}

	seconds, err := strconv.Atoi(retryAfterHeader)
	if err != nil || seconds <= 0 {
		return 0
	}

	return time.Duration(seconds) * time.Second
}
