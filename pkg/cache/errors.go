package cache

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/codexray/pkg/httputil"
)

// ErrUnavailable is returned when a remote cache cannot be reached.
var ErrUnavailable = errors.New("cache unavailable")

// Retryable marks err as transient. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &httputil.RetryableError{Err: err}
}

// IsRetryable reports whether err is wrapped with Retryable.
func IsRetryable(err error) bool {
	return httputil.IsRetryable(err)
}

// RetryDelay is the wait before the first retry; it doubles on each attempt.
var RetryDelay = 100 * time.Millisecond

// RetryWithBackoff calls fn up to three times. Only errors wrapped with
// Retryable trigger another attempt.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return httputil.Retry(ctx, 3, RetryDelay, fn)
}
