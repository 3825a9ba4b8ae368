package middleware

import (
	"context"
	"net/http"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const requestInfoContextKey contextKey = "request_info"

// RequestInfo collects facts discovered deep in the pipeline (matched route,
// caller) so that outer stages such as Logging and Metrics can report them
// after next returns.
type RequestInfo struct {
	Route  string
	UserID string
	Role   string
}

// Annotate records the matched route pattern and caller on the RequestInfo
// carried by ctx. It is a no-op when no outer stage installed one.
func Annotate(ctx context.Context, route, userID, role string) {
	info, ok := ctx.Value(requestInfoContextKey).(*RequestInfo)
	if !ok {
		return
	}
	info.Route = route
	info.UserID = userID
	info.Role = role
}

// withRequestInfo returns r carrying a RequestInfo, reusing one installed by
// an outer stage.
func withRequestInfo(r *http.Request) (*http.Request, *RequestInfo) {
	if info, ok := r.Context().Value(requestInfoContextKey).(*RequestInfo); ok {
		return r, info
	}
	info := &RequestInfo{}
	return r.WithContext(context.WithValue(r.Context(), requestInfoContextKey, info)), info
}
