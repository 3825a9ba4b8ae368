package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// ErrUnknownMiddleware is returned when a spec names no known middleware.
var ErrUnknownMiddleware = errors.New("unknown middleware")

// Registry resolves route middleware specs to Middleware values.
// "auth" and "role:..." are built in; other names must be added with Add
// before routes referencing them are registered.
type Registry struct {
	mu        sync.RWMutex
	loginPath string
	logger    *slog.Logger
	named     map[string]Middleware
}

// NewRegistry creates a Registry whose auth middleware redirects
// unauthenticated requests to loginPath.
func NewRegistry(loginPath string, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		loginPath: loginPath,
		logger:    logger,
		named:     make(map[string]Middleware),
	}
}

// Add makes mw available under name. It panics if name is empty or
// shadows a built-in, both of which are programming errors.
func (reg *Registry) Add(name string, mw Middleware) {
	if name == "" || name == "auth" || name == "role" {
		panic(fmt.Sprintf("middleware.Registry: cannot add %q", name))
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.named[name] = mw
}

// Resolve returns the middleware described by spec.
func (reg *Registry) Resolve(spec Spec) (Middleware, error) {
	switch spec.Kind {
	case KindAuth:
		return Auth(reg.loginPath), nil
	case KindRoleIn:
		roles := make([]string, 0, len(spec.Roles))
		for _, role := range spec.Roles {
			if role = strings.TrimSpace(role); role != "" {
				roles = append(roles, role)
			}
		}
		if len(roles) == 0 {
			return nil, fmt.Errorf("%w: role spec names no roles", ErrInvalidSpec)
		}
		return RequireRoles(reg.logger, roles...), nil
	case KindNamed:
		reg.mu.RLock()
		mw, ok := reg.named[spec.Name]
		reg.mu.RUnlock()
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMiddleware, spec.Name)
		}
		return mw, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMiddleware, spec.Name)
	}
}

// ResolveString parses s and resolves the result.
func (reg *Registry) ResolveString(s string) (Middleware, error) {
	spec, err := ParseSpec(s)
	if err != nil {
		return nil, err
	}
	return reg.Resolve(spec)
}

// LoginPath returns the redirect target of the auth middleware.
func (reg *Registry) LoginPath() string {
	return reg.loginPath
}
