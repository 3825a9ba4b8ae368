// Package server configures and runs the HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/menezmethod/helpdesk/internal/config"
	"github.com/menezmethod/helpdesk/internal/handler"
	"github.com/menezmethod/helpdesk/internal/middleware"
	"github.com/menezmethod/helpdesk/internal/router"
	"github.com/menezmethod/helpdesk/internal/routes"
	"github.com/menezmethod/helpdesk/internal/session"
)

// Deps are the collaborators the route handlers need.
type Deps struct {
	Sessions  *session.Manager
	Directory handler.Authenticator
	// Limiter backs the "throttle" middleware. Nil disables throttling.
	Limiter *middleware.RateLimiter
	// Checks are pinged by GET /health/ready.
	Checks []handler.Check
}

// NewRouter builds the front controller: the middleware registry, the
// handler table and the route table named by cfg.RoutesFile (or the
// embedded default). Any configuration defect is returned and should stop
// the process.
func NewRouter(cfg config.Config, deps Deps, logger *slog.Logger) (*router.Router, error) {
	reg := middleware.NewRegistry(cfg.Auth.LoginPath, logger)
	throttle := func(next http.Handler) http.Handler { return next }
	if deps.Limiter != nil {
		throttle = middleware.RateLimit(deps.Limiter, nil)
	}
	reg.Add("throttle", throttle)

	table, err := routes.Load(cfg.RoutesFile)
	if err != nil {
		return nil, fmt.Errorf("load routes: %w", err)
	}

	rt := router.New(reg, deps.Sessions, logger)
	if err := routes.Apply(rt, table, handlers(cfg, deps, logger)); err != nil {
		return nil, err
	}
	if err := requireLoginRoutes(rt, cfg.Auth.LoginPath); err != nil {
		return nil, err
	}
	for _, r := range rt.Routes() {
		logger.Debug("route registered", "route", r.String())
	}
	return rt, nil
}

// ErrMissingLoginRoute is returned when the route table does not serve the
// configured login path, which the auth middleware redirects to.
var ErrMissingLoginRoute = errors.New("login path is not routed")

// requireLoginRoutes checks that GET and POST loginPath are registered.
func requireLoginRoutes(rt *router.Router, loginPath string) error {
	found := map[string]bool{}
	for _, r := range rt.Routes() {
		if r.Path == loginPath {
			found[r.Method] = true
		}
	}
	var errs []error
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		if !found[method] {
			errs = append(errs, &router.ConfigurationError{
				Method: method,
				Path:   loginPath,
				Detail: "auth.login_path",
				Err:    ErrMissingLoginRoute,
			})
		}
	}
	return errors.Join(errs...)
}

// handlers names every terminal handler a route table may reference.
func handlers(cfg config.Config, deps Deps, logger *slog.Logger) routes.Handlers {
	loginPath := cfg.Auth.LoginPath
	return routes.Handlers{
		"home":       router.Bound(handler.Home(loginPath)),
		"login_form": router.Bound(handler.LoginForm(loginPath)),
		"login":      router.Bound(handler.Login(deps.Directory, deps.Sessions, loginPath, logger)),
		"logout":     router.Bound(handler.Logout(deps.Sessions, loginPath, logger)),

		"area.admin":        func() http.Handler { return handler.Area("Administración") },
		"area.comercial":    func() http.Handler { return handler.Area("Comercial") },
		"area.sistemas":     func() http.Handler { return handler.Area("Sistemas") },
		"area.contabilidad": func() http.Handler { return handler.Area("Contabilidad") },
		"entidad.show":      func() http.Handler { return handler.Entity() },

		"health":  router.Bound(handler.Health()),
		"ready":   router.Bound(handler.Ready(logger, deps.Checks...)),
		"version": router.Bound(handler.VersionInfo()),
	}
}

// New creates a configured *http.Server serving h behind the global
// middleware stack, with /metrics mounted beside it.
func New(cfg config.Config, h http.Handler, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()

	// Order (outermost → innermost): RequestID → Recover → Metrics → Logging.
	// The router annotates the request info these stages read after it returns.
	mux.Handle("/", middleware.Chain(h,
		middleware.RequestID(),
		middleware.Recover(logger),
		middleware.Metrics(),
		middleware.Logging(logger),
	))
	mux.Handle("GET /metrics", promhttp.Handler())

	return &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}

// Shutdown gracefully shuts down the server with the given context.
func Shutdown(ctx context.Context, srv *http.Server, logger *slog.Logger) {
	logger.Info("shutting down server")
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "err", err)
	}
}
