package router

import (
	"errors"
	"fmt"
)

// ErrInvalidRoute is returned for malformed registrations.
var ErrInvalidRoute = errors.New("invalid route")

// ConfigurationError reports a defect in the route configuration: an
// unsupported method, a malformed path, an unknown middleware or handler.
// It is fatal at startup and is never turned into an HTTP response.
type ConfigurationError struct {
	Method string
	Path   string
	Detail string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("route %s %s", e.Method, e.Path)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
