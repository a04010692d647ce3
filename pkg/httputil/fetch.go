package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/codexray/pkg/buildinfo"
	"github.com/matzehuels/codexray/pkg/errors"
)

const (
	// MaxBodySize bounds a fetched file. cloc reports of very large
	// monorepos stay well below it.
	MaxBodySize = 64 << 20

	// Attempts and InitialDelay configure the retries of [Fetch].
	Attempts     = 3
	InitialDelay = 500 * time.Millisecond

	requestTimeout = 30 * time.Second
)

// NewClient returns the HTTP client used for remote inputs.
func NewClient() *http.Client {
	return &http.Client{Timeout: requestTimeout}
}

// IsURL reports whether s names a remote input rather than a local path.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Fetch downloads url and returns its body.
func Fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	var data []byte
	err := Retry(ctx, Attempts, InitialDelay, func() error {
		var err error
		data, err = get(ctx, client, url)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func get(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "bad url %q", url)
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Err: fmt.Errorf("get %s: %w", url, err)}
	}
	defer resp.Body.Close()

	if err := checkStatus(url, resp.StatusCode); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("read %s: %w", url, err)}
	}
	if len(data) > MaxBodySize {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s is larger than %d bytes", url, MaxBodySize)
	}
	return data, nil
}

func checkStatus(url string, code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound || code == http.StatusGone:
		return errors.New(errors.ErrCodeFileNotFound, "%s: status %d", url, code)
	case code == http.StatusTooManyRequests || code >= 500:
		return &RetryableError{Err: fmt.Errorf("%s: status %d", url, code)}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "%s: status %d", url, code)
	}
}
