package client

import (
	"errors"
	"fmt"
)

// ErrAuthRejected means the credential probe reached the server and the
// server refused the pair. Transport-level failures surface as *NetworkError
// instead, so callers can tell "wrong password" from "backend down".
var ErrAuthRejected = errors.New("auth_rejected")

// NetworkError wraps a transport failure: the request never produced an HTTP
// response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("%s: network error: %v", e.Op, e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx response, carrying the status code.
type HTTPError struct {
	Op         string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
}
