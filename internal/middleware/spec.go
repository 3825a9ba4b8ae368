package middleware

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies the variant of a Spec.
type Kind int

const (
	// KindAuth requires an authenticated identity.
	KindAuth Kind = iota + 1
	// KindRoleIn requires the identity's role to be one of Spec.Roles.
	KindRoleIn
	// KindNamed refers to a middleware added to the Registry by name.
	KindNamed
)

// ErrInvalidSpec is returned for spec strings that cannot be parsed.
var ErrInvalidSpec = errors.New("invalid middleware spec")

// Spec is the parsed form of a route middleware entry such as "auth" or
// "role:comercial,administrador". Specs are built once when routes are
// registered.
type Spec struct {
	Kind  Kind
	Roles []string
	Name  string
}

// Authenticated returns the spec for the auth middleware.
func Authenticated() Spec {
	return Spec{Kind: KindAuth, Name: "auth"}
}

// RoleIn returns the spec for a role check accepting any of roles.
func RoleIn(roles ...string) Spec {
	return Spec{Kind: KindRoleIn, Name: "role", Roles: roles}
}

// Named returns the spec for a middleware added to the Registry under name.
func Named(name string) Spec {
	return Spec{Kind: KindNamed, Name: name}
}

// ParseSpec parses a middleware spec string.
//
//	"auth"                          → Authenticated()
//	"role:comercial,administrador"  → RoleIn("comercial", "administrador")
//	"throttle"                      → Named("throttle")
//
// Role tokens are trimmed and empty tokens dropped; a role spec with no
// tokens left is invalid.
func ParseSpec(s string) (Spec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Spec{}, fmt.Errorf("%w: empty", ErrInvalidSpec)
	}

	name, params, hasParams := strings.Cut(s, ":")
	name = strings.ToLower(strings.TrimSpace(name))

	switch name {
	case "auth":
		if hasParams {
			return Spec{}, fmt.Errorf("%w: %q takes no parameters", ErrInvalidSpec, s)
		}
		return Authenticated(), nil
	case "role":
		var roles []string
		for _, tok := range strings.Split(params, ",") {
			if tok = strings.TrimSpace(tok); tok != "" {
				roles = append(roles, tok)
			}
		}
		if len(roles) == 0 {
			return Spec{}, fmt.Errorf("%w: %q names no roles", ErrInvalidSpec, s)
		}
		return RoleIn(roles...), nil
	default:
		if hasParams {
			return Spec{}, fmt.Errorf("%w: %q", ErrUnknownMiddleware, s)
		}
		return Named(name), nil
	}
}

// String renders the spec back to its configuration form.
func (s Spec) String() string {
	switch s.Kind {
	case KindAuth:
		return "auth"
	case KindRoleIn:
		return "role:" + strings.Join(s.Roles, ",")
	default:
		return s.Name
	}
}
