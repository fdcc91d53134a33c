package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError reports a non-2xx response from the backend. The response body is not inspected.
type StatusError struct {
	Operation  string
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog: %s: backend error (%d): %s", e.Operation, e.StatusCode, http.StatusText(e.StatusCode))
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}

// StatusCode extracts the backend status code from err, or 0 when err did not come from a response.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}
