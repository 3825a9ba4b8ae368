package handler

import (
	"context"
	"errors"
	"html"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/menezmethod/helpdesk/internal/account"
	"github.com/menezmethod/helpdesk/internal/apierror"
	"github.com/menezmethod/helpdesk/internal/middleware"
	"github.com/menezmethod/helpdesk/internal/session"
)

// Authenticator verifies login credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (session.Identity, error)
}

const loginPage = `<!DOCTYPE html>
<html lang="es">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>HelpDesk · Ingresar</title>
</head>
<body>
  <main>
    <h1>HelpDesk</h1>
    <form method="post" action="{{action}}">
      <label>Correo <input type="email" name="email" autocomplete="username" required></label>
      <label>Contraseña <input type="password" name="password" autocomplete="current-password" required></label>
      <button type="submit">Ingresar</button>
    </form>
  </main>
</body>
</html>
`

// LoginForm serves the login page. A caller that already has a session is
// sent to the landing page of their role instead.
//
//	GET /login
func LoginForm(loginPath string) http.HandlerFunc {
	page := strings.Replace(loginPage, "{{action}}", html.EscapeString(loginPath), 1)
	return func(w http.ResponseWriter, r *http.Request) {
		if id, ok := session.IdentityFromContext(r.Context()); ok {
			http.Redirect(w, r, account.HomeFor(id.Role), http.StatusFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = io.WriteString(w, page)
	}
}

// Login verifies the submitted credentials, starts a session and redirects
// to the landing page of the user's role. Bad credentials go back to the
// form with ?error=1.
//
//	POST /login
func Login(auth Authenticator, sessions *session.Manager, loginPath string, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			apierror.Write(w, apierror.InvalidRequest("400 Bad Request: formulario inválido"))
			return
		}
		email := r.PostForm.Get("email")

		id, err := auth.Authenticate(r.Context(), email, r.PostForm.Get("password"))
		if errors.Is(err, account.ErrInvalidCredentials) {
			middleware.LoginAttempts.WithLabelValues("invalid").Inc()
			logger.Info("login rejected", "email", maskEmail(email), "remote_addr", r.RemoteAddr)
			http.Redirect(w, r, loginPath+"?error=1", http.StatusFound)
			return
		}
		if err != nil {
			middleware.LoginAttempts.WithLabelValues("error").Inc()
			logger.Error("login failed", "email", maskEmail(email), "err", err)
			apierror.Write(w, apierror.Internal("500 Internal Server Error"))
			return
		}

		if _, err := sessions.Start(r.Context(), w, id); err != nil {
			middleware.LoginAttempts.WithLabelValues("error").Inc()
			logger.Error("session start failed", "user_id", id.ID, "err", err)
			apierror.Write(w, apierror.Internal("500 Internal Server Error"))
			return
		}

		middleware.LoginAttempts.WithLabelValues("success").Inc()
		logger.Info("login", "user_id", id.ID, "role", id.Role)
		http.Redirect(w, r, account.HomeFor(id.Role), http.StatusFound)
	}
}

// Logout ends the session and returns to the login page.
//
//	POST /logout
func Logout(sessions *session.Manager, loginPath string, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sessions.End(r.Context(), w, r); err != nil {
			logger.Error("session end failed", "err", err)
			apierror.Write(w, apierror.Internal("500 Internal Server Error"))
			return
		}
		http.Redirect(w, r, loginPath, http.StatusFound)
	}
}

// Home sends callers to the landing page of their role, or to the login
// page when they have no session. A role with no landing area gets 403:
// redirecting it would point back at this page.
//
//	GET /
func Home(loginPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := session.IdentityFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, loginPath, http.StatusFound)
			return
		}
		if !account.KnownRole(id.Role) {
			middleware.AccessDenials.WithLabelValues("forbidden").Inc()
			apierror.Write(w, apierror.Forbidden())
			return
		}
		http.Redirect(w, r, account.HomeFor(id.Role), http.StatusFound)
	}
}

// maskEmail keeps the first character of the local part and the domain:
// "ana@coop.test" becomes "a***@coop.test".
func maskEmail(email string) string {
	local, domain, ok := strings.Cut(strings.TrimSpace(email), "@")
	if !ok || local == "" {
		return "***"
	}
	return string([]rune(local)[:1]) + "***@" + domain
}
