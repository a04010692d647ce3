// Package httputil fetches remote input files, such as cloc reports
// published as CI artifacts, with retries for transient failures.
//
// [Fetch] downloads a URL into memory. Network errors and 5xx responses are
// retried through [Retry] with a doubling delay; other statuses fail at once
// and map onto the codexray error codes, so a 404 reads as
// [errors.ErrCodeFileNotFound] just like a missing local file.
//
//	data, err := httputil.Fetch(ctx, httputil.NewClient(), "https://ci.example.com/api.json")
package httputil
