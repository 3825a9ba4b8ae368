package middleware

import (
	"net/http"

	"github.com/menezmethod/helpdesk/internal/session"
)

// Auth returns middleware that lets a request through only when the router
// attached a session identity to it. Anonymous requests are redirected to
// loginPath with 302 Found and never reach the next stage.
func Auth(loginPath string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := session.IdentityFromContext(r.Context()); !ok {
				AccessDenials.WithLabelValues("unauthenticated").Inc()
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
