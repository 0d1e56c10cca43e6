package errors

import (
	stdErrors "errors"
	"fmt"
)

const (
	msgInvalidRequest = "Failed to build the search request."
	msgDecoding       = "Could not understand the response from the server."
	msgTimeout        = "The search request timed out."
	msgTransport      = "Could not reach the catalog. Check your connection."
	msgUnknown        = "Something went wrong."
)

// Describe maps an error to the one-line message shown to the user.
// Cancellations map to the empty string since they are never displayed.
func Describe(err error) string {
	if err == nil || IsCancelled(err) {
		return ""
	}

	var serverErr *ServerError
	if stdErrors.As(err, &serverErr) {
		return fmt.Sprintf("Search failed with status code %d.", serverErr.StatusCode)
	}

	var transportErr *TransportError
	if stdErrors.As(err, &transportErr) {
		if transportErr.Timeout {
			return msgTimeout
		}
		return msgTransport
	}

	switch {
	case IsInvalidRequestError(err):
		return msgInvalidRequest
	case IsDecodingError(err):
		return msgDecoding
	default:
		return msgUnknown
	}
}
