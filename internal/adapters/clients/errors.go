// Package clients provides HTTP client adapters for downstream services.
package clients

import (
	"errors"
	"fmt"
	"net/http"
)

// Client errors are infrastructure failures. ACL adapters translate them to
// domain errors.
var (
	// ErrCircuitOpen is returned when the circuit breaker rejects a request.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last failure once every attempt failed.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

// StatusError is an attempt that reached the service but got a response the
// client treats as a failure (5xx or 429).
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("downstream responded %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func isRetryableStatus(code int) bool {
	return code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
}
