package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized is matched by any 401 response.
var ErrUnauthorized = errors.New("unauthorized")

// HTTPError is a non-2xx backend response. Message is the backend's own
// message field and is meant to be shown to the user as is.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return e.Message
}

func (e *HTTPError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// TransportError wraps timeouts, refused connections and undecodable bodies.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
