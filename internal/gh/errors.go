package gh

import (
	"encoding/json"
	"errors"
	"fmt"
)

// TransportError is returned when a call to the API fails: network faults,
// non-2xx responses and GraphQL error lists all end up here.
type TransportError struct {
	StatusCode int // HTTP status, 0 when the failure was not an HTTP status
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("transport error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when a response does not fit the typed schema of
// the query that produced it.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// StatusError carries a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Body)
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
