package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/menezmethod/helpdesk/internal/apierror"
	"github.com/menezmethod/helpdesk/internal/session"
)

// RequireRoles returns middleware that admits only identities whose role is
// one of roles. Comparison is case-insensitive. Callers outside the set, or
// with no identity at all, receive 403 and next is not called.
// Panics if roles holds no non-blank entry (catches config errors at startup).
func RequireRoles(logger *slog.Logger, roles ...string) Middleware {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		if role = strings.ToLower(strings.TrimSpace(role)); role != "" {
			allowed[role] = struct{}{}
		}
	}
	if len(allowed) == 0 {
		panic("RequireRoles: no roles given")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, _ := session.IdentityFromContext(r.Context())
			if _, ok := allowed[id.NormalizedRole()]; !ok {
				logger.Warn("role check denied",
					"path", r.URL.Path,
					"method", r.Method,
					"allowed_roles", roles,
					"user_role", id.Role,
					"user_id", id.ID,
				)
				AccessDenials.WithLabelValues("forbidden").Inc()
				apierror.Write(w, apierror.Forbidden())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
