// Package apierror provides the plain-text error responses the front
// controller writes itself.
//
// Business controllers render their own pages; only routing and access
// control failures (404, 403, 429, 500) come from here.
package apierror

import (
	"io"
	"log/slog"
	"net/http"
)

// Code constants classify the responses written by this package.
const (
	CodeNotFound       = "route_not_found"
	CodeForbidden      = "forbidden"
	CodeRateLimit      = "rate_limited"
	CodeInvalidRequest = "invalid_request"
	CodeInternal       = "internal_error"
)

// Error is an HTTP error produced directly by the front controller.
type Error struct {
	Status  int
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Write sends an Error as a plain-text HTTP response.
func Write(w http.ResponseWriter, err *Error) {
	h := w.Header()
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(err.Status)

	if _, wErr := io.WriteString(w, err.Message+"\n"); wErr != nil {
		slog.Error("failed to write error response", "err", wErr, "code", err.Code)
	}
}

// NotFound returns a 404 for requests that match no registered route.
func NotFound() *Error {
	return &Error{
		Status:  http.StatusNotFound,
		Code:    CodeNotFound,
		Message: "404 Not Found",
	}
}

// Forbidden returns a 403 for callers whose role is not allowed on a route.
func Forbidden() *Error {
	return &Error{
		Status:  http.StatusForbidden,
		Code:    CodeForbidden,
		Message: "403 Forbidden: no tiene permisos para acceder a este recurso",
	}
}

// TooManyRequests returns a 429 when a caller exceeds the rate limit.
func TooManyRequests() *Error {
	return &Error{
		Status:  http.StatusTooManyRequests,
		Code:    CodeRateLimit,
		Message: "429 Too Many Requests: intente nuevamente en unos segundos",
	}
}

// InvalidRequest returns a 400 for malformed form submissions.
func InvalidRequest(msg string) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Code:    CodeInvalidRequest,
		Message: msg,
	}
}

// Internal returns a 500 for unexpected server failures.
func Internal(msg string) *Error {
	return &Error{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternal,
		Message: msg,
	}
}
