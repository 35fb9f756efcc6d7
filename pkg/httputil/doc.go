// Package httputil provides retry helpers for outbound HTTP calls.
//
// Wrap transient failures (connection errors, 5xx responses) in
// [RetryableError] and run the request through [Retry] or
// [RetryWithBackoff]:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return fetchManifest(ctx)
//	})
//
// Errors that are not wrapped, such as a 404, are returned on the first
// attempt.
package httputil
