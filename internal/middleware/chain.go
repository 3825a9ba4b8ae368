// Package middleware provides the request pipeline of the front controller:
// the composition kernel, access-control stages (auth, role), the registry
// that resolves route middleware specs, and the ambient stages (request id,
// recovery, metrics, logging, rate limiting).
package middleware

import "net/http"

// Middleware wraps an http.Handler with additional behavior. A middleware
// short-circuits the pipeline by not calling next.
type Middleware func(http.Handler) http.Handler

// Chain composes middleware in the order given. The first middleware
// in the list is the outermost (runs first on request, last on response).
// With no middleware, h is returned unchanged.
//
//	Chain(handler, auth, role)
//	// Request order:  auth → role → handler
//	// Response order: handler → role → auth
func Chain(h http.Handler, mw ...Middleware) http.Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}
