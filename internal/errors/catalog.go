// Package errors defines the error kinds returned by the catalog client and
// the helpers used to classify them after wrapping.
package errors

import (
	"context"
	stdErrors "errors"
	"fmt"
)

// ErrCancelled reports a lookup that was superseded or torn down before it
// finished. It is never shown to the user.
var ErrCancelled = stdErrors.New("lookup cancelled")

// InvalidRequestError represents a search request that could not be built.
type InvalidRequestError struct {
	Err error
}

func (e *InvalidRequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid search request: %v", e.Err)
	}
	return "invalid search request"
}

func (e *InvalidRequestError) Unwrap() error {
	return e.Err
}

// NewInvalidRequestError wraps the cause of a request construction failure.
func NewInvalidRequestError(err error) *InvalidRequestError {
	return &InvalidRequestError{Err: err}
}

// IsInvalidRequestError checks if err is an InvalidRequestError
func IsInvalidRequestError(err error) bool {
	var reqErr *InvalidRequestError
	return stdErrors.As(err, &reqErr)
}

// ServerError represents a catalog response with a non-2xx status code.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("catalog returned HTTP %d", e.StatusCode)
}

// NewServerError creates a ServerError for the given status code
func NewServerError(statusCode int) *ServerError {
	return &ServerError{StatusCode: statusCode}
}

// IsServerError checks if err is a ServerError
func IsServerError(err error) bool {
	var serverErr *ServerError
	return stdErrors.As(err, &serverErr)
}

// DecodingError represents a response body that did not match the search schema.
type DecodingError struct {
	Err error
}

func (e *DecodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decoding search response: %v", e.Err)
	}
	return "decoding search response"
}

func (e *DecodingError) Unwrap() error {
	return e.Err
}

// NewDecodingError wraps the cause of a decoding failure.
func NewDecodingError(err error) *DecodingError {
	return &DecodingError{Err: err}
}

// IsDecodingError checks if err is a DecodingError
func IsDecodingError(err error) bool {
	var decodeErr *DecodingError
	return stdErrors.As(err, &decodeErr)
}

// TransportError represents a request that never produced a response
// (DNS failure, refused connection, deadline exceeded).
type TransportError struct {
	Err     error
	Timeout bool
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("catalog request timed out: %v", e.Err)
	}
	return fmt.Sprintf("catalog request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps a transport failure.
func NewTransportError(err error, timeout bool) *TransportError {
	return &TransportError{Err: err, Timeout: timeout}
}

// IsTransportError checks if err is a TransportError
func IsTransportError(err error) bool {
	var transportErr *TransportError
	return stdErrors.As(err, &transportErr)
}

// IsCancelled reports whether err is a cancellation, either ErrCancelled or
// a bare context.Canceled that escaped wrapping.
func IsCancelled(err error) bool {
	return stdErrors.Is(err, ErrCancelled) || stdErrors.Is(err, context.Canceled)
}
