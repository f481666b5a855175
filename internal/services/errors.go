package services

import (
	"errors"
	"fmt"
)

// ErrTransport marks any failure to get a usable response from an external
// service.
var ErrTransport = errors.New("external service unavailable")

// StatusError describes a failed call. StatusCode is zero when no HTTP
// response was received.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *StatusError) Error() string {
	msg := e.Op
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.StatusCode == 0 && e.Err == nil {
		msg += ": " + ErrTransport.Error()
	}
	return msg
}

// Unwrap exposes both ErrTransport and the underlying cause to errors.Is.
func (e *StatusError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTransport}
	}
	return []error{ErrTransport, e.Err}
}
