// Package session holds the authenticated identity of a request and the
// stores that persist it between requests.
//
// The identity is written by the login flow and read by the router at the
// start of every dispatch; middleware only ever sees it through the request
// context.
package session

import (
	"context"
	"strings"
)

// Identity is the authenticated user attached to a session.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// NormalizedRole returns the role trimmed and case-folded.
func (id Identity) NormalizedRole() string {
	return strings.ToLower(strings.TrimSpace(id.Role))
}

type contextKey string

const identityContextKey contextKey = "identity"

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// IdentityFromContext returns the identity stored in ctx, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(Identity)
	if !ok || id.ID == "" {
		return Identity{}, false
	}
	return id, true
}
