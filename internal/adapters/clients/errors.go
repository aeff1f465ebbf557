// Package clients fetches remote assets, such as the company logo, over HTTP
// with retries and a circuit breaker.
package clients

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrCircuitOpen means the host failed too often recently and was not
	// contacted.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last failure once every attempt is used.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

// StatusError is a retryable HTTP status that was still returned by the last
// attempt.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("logo host answered %d %s", e.Code, http.StatusText(e.Code))
}
