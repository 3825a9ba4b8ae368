// Package router implements the HelpDesk front controller: a route table per
// HTTP method and a dispatcher that runs each matched route through its
// middleware pipeline.
//
// Routes are registered once at startup and the table is read-only while
// serving, so lookups need no locking.
//
// Paths match literally. A path may also contain {name} segments; such a
// route matches any request path with the same number of segments whose
// literal segments are equal, and the values are exposed through
// (*http.Request).PathValue. A literal route always wins over a pattern
// route, and pattern routes are tried in registration order.
package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/menezmethod/helpdesk/internal/apierror"
	"github.com/menezmethod/helpdesk/internal/middleware"
	"github.com/menezmethod/helpdesk/internal/session"
)

// Factory builds the terminal handler of a route. It is called on every
// dispatch, so handlers that keep per-request state get a fresh value.
type Factory func() http.Handler

// Bound adapts a pre-built handler to a Factory returning it every time.
func Bound(h http.Handler) Factory {
	return func() http.Handler { return h }
}

// Options configures a route.
type Options struct {
	// Middleware lists the stages wrapped around the handler, outermost first.
	Middleware []middleware.Spec
}

// Route is one entry of the route table.
type Route struct {
	Method     string
	Path       string
	Middleware []middleware.Spec

	factory  Factory
	pipeline []middleware.Middleware
	pattern  *pattern
}

// IdentityLoader reads the session identity for a request. A nil identity
// with a nil error means the request is anonymous.
type IdentityLoader interface {
	Load(r *http.Request) (*session.Identity, error)
}

// Router holds the route tables and dispatches requests.
type Router struct {
	registry *middleware.Registry
	loader   IdentityLoader
	logger   *slog.Logger

	literal  map[string]map[string]*Route
	patterns map[string][]*Route
}

// New creates an empty Router. loader may be nil, in which case every
// request is anonymous.
func New(registry *middleware.Registry, loader IdentityLoader, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		registry: registry,
		loader:   loader,
		logger:   logger,
		literal:  make(map[string]map[string]*Route),
		patterns: make(map[string][]*Route),
	}
}

var supportedMethods = map[string]bool{
	http.MethodGet:  true,
	http.MethodPost: true,
}

// Register adds a route. Middleware specs are resolved here, once, so an
// unknown spec fails registration rather than a request. Registering the
// same method and path twice replaces the earlier route.
func (rt *Router) Register(method, path string, factory Factory, opts Options) error {
	method = strings.ToUpper(strings.TrimSpace(method))
	cfgErr := func(detail string, err error) error {
		return &ConfigurationError{Method: method, Path: path, Detail: detail, Err: err}
	}

	if !supportedMethods[method] {
		return cfgErr("method must be GET or POST", ErrInvalidRoute)
	}
	if path == "" || path[0] != '/' {
		return cfgErr("path must start with /", ErrInvalidRoute)
	}
	if factory == nil {
		return cfgErr("handler is nil", ErrInvalidRoute)
	}

	route := &Route{
		Method:     method,
		Path:       path,
		Middleware: opts.Middleware,
		factory:    factory,
	}
	for _, spec := range opts.Middleware {
		mw, err := rt.registry.Resolve(spec)
		if err != nil {
			return cfgErr("middleware "+spec.String(), err)
		}
		route.pipeline = append(route.pipeline, mw)
	}

	if isPattern(path) {
		p, err := parsePattern(path)
		if err != nil {
			return cfgErr("", err)
		}
		route.pattern = p
		rt.addPattern(route)
		return nil
	}

	table, ok := rt.literal[method]
	if !ok {
		table = make(map[string]*Route)
		rt.literal[method] = table
	}
	if _, dup := table[path]; dup {
		rt.logger.Warn("route registered twice, last registration wins", "method", method, "path", path)
	}
	table[path] = route
	return nil
}

func (rt *Router) addPattern(route *Route) {
	list := rt.patterns[route.Method]
	for i, existing := range list {
		if existing.pattern.sameShape(route.pattern) {
			rt.logger.Warn("route registered twice, last registration wins",
				"method", route.Method, "path", route.Path, "replaces", existing.Path)
			list[i] = route
			return
		}
	}
	rt.patterns[route.Method] = append(list, route)
}

// Handle registers a pre-built handler with middleware given as spec strings.
func (rt *Router) Handle(method, path string, h http.Handler, middlewareSpecs ...string) error {
	specs := make([]middleware.Spec, 0, len(middlewareSpecs))
	for _, s := range middlewareSpecs {
		spec, err := middleware.ParseSpec(s)
		if err != nil {
			return &ConfigurationError{Method: method, Path: path, Detail: "middleware " + s, Err: err}
		}
		specs = append(specs, spec)
	}
	return rt.Register(method, path, Bound(h), Options{Middleware: specs})
}

// Routes returns the registered routes: literal routes sorted by path, then
// pattern routes in match order.
func (rt *Router) Routes() []Route {
	var out []Route
	for _, table := range rt.literal {
		for _, r := range table {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	for _, list := range rt.patterns {
		for _, r := range list {
			out = append(out, *r)
		}
	}
	return out
}

// lookup finds the route for method and path, returning pattern parameter
// values when a pattern route matched.
func (rt *Router) lookup(method, path string) (*Route, []string) {
	if route, ok := rt.literal[method][path]; ok {
		return route, nil
	}
	for _, route := range rt.patterns[method] {
		if values, ok := route.pattern.match(path); ok {
			return route, values
		}
	}
	return nil, nil
}

// ServeHTTP implements http.Handler.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.Dispatch(w, r)
}

// Dispatch runs one request: it attaches the session identity, looks the
// route up, and runs the route's pipeline around a freshly built handler.
// Unmatched requests get a plain-text 404 and no handler runs.
func (rt *Router) Dispatch(w http.ResponseWriter, r *http.Request) {
	var id session.Identity
	if rt.loader != nil {
		loaded, err := rt.loader.Load(r)
		if err != nil {
			rt.logger.Error("identity load failed", "method", r.Method, "path", r.URL.Path, "err", err)
			apierror.Write(w, apierror.Internal("500 Internal Server Error"))
			return
		}
		if loaded != nil {
			id = *loaded
			r = r.WithContext(session.WithIdentity(r.Context(), id))
		}
	}

	route, values := rt.lookup(r.Method, r.URL.Path)
	if route == nil {
		middleware.Annotate(r.Context(), "", id.ID, id.Role)
		apierror.Write(w, apierror.NotFound())
		return
	}
	middleware.Annotate(r.Context(), route.Path, id.ID, id.Role)

	if route.pattern != nil {
		i := 0
		for _, seg := range route.pattern.segments {
			if seg.param != "" {
				r.SetPathValue(seg.param, values[i])
				i++
			}
		}
	}

	terminal := route.factory()
	if terminal == nil {
		panic(&ConfigurationError{Method: route.Method, Path: route.Path, Detail: "handler factory returned nil"})
	}
	middleware.Chain(terminal, route.pipeline...).ServeHTTP(w, r)
}

// String renders the route as "METHOD path [mw, ...]".
func (r Route) String() string {
	specs := make([]string, len(r.Middleware))
	for i, s := range r.Middleware {
		specs[i] = s.String()
	}
	return fmt.Sprintf("%s %s [%s]", r.Method, r.Path, strings.Join(specs, ", "))
}
