package client

import (
	"errors"
	"fmt"
)

// ErrMalformedJSON is the Cause of a TransportError whose response body could
// not be parsed as JSON.
var ErrMalformedJSON = errors.New("malformed JSON response")

// TransportError reports that a call never produced a usable response:
// the network failed, the server answered with a non-2xx status, or the body
// was not JSON.
type TransportError struct {
	Endpoint   string
	StatusCode int    // zero when no HTTP response was received
	StatusText string // e.g. "Internal Server Error"
	Cause      error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API Error: %s", e.StatusText)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Endpoint, e.Cause)
	}
	return e.Endpoint + ": transport failure"
}

func (e *TransportError) Unwrap() error { return e.Cause }

// IsTransportError reports whether err is or wraps a *TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
