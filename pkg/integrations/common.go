package integrations

import (
	"errors"
	"net/http"
	"time"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when the remote resource doesn't exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, non-200 responses).
	ErrNetwork = errors.New("network error")

	// ErrTooLarge is returned when a response body exceeds the read limit.
	ErrTooLarge = errors.New("response body too large")
)

// NewHTTPClient creates an HTTP client with a standard timeout for outbound requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}
