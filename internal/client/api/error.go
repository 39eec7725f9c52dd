package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a server-side rejection carrying the HTTP status. A zero
// StatusCode means the request never reached the server.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Retryable reports whether the failure is transient. Network failures,
// timeouts and server-side errors are worth retrying; other client errors
// mean the request itself is bad and will never succeed as-is.
func (e *Error) Retryable() bool {
	switch {
	case e.StatusCode == 0:
		return true
	case e.StatusCode == http.StatusRequestTimeout:
		return true
	case e.StatusCode == http.StatusTooManyRequests:
		return true
	case e.StatusCode >= 500:
		return true
	default:
		return false
	}
}

// Retryable classifies any error from this package. Errors that are not a
// server rejection (transport failures, cancelled contexts) are transient.
func Retryable(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	return true
}
