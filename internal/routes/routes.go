// Package routes loads the static route table and applies it to a router.
//
// The table is read once at startup, either from the copy embedded in the
// binary or from a YAML file named in the configuration.
package routes

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/menezmethod/helpdesk/internal/middleware"
	"github.com/menezmethod/helpdesk/internal/router"
)

//go:embed routes.yaml
var defaultTable []byte

// ErrUnknownHandler is returned when an entry names a handler that was not
// provided to Apply.
var ErrUnknownHandler = errors.New("unknown handler")

// Entry is one row of the route table.
type Entry struct {
	Method     string   `yaml:"method"`
	Path       string   `yaml:"path"`
	Handler    string   `yaml:"handler"`
	Middleware []string `yaml:"middleware"`
}

// Table is an ordered list of route entries.
type Table struct {
	Routes []Entry `yaml:"routes"`
}

// Handlers maps handler names used in the table to terminal handler factories.
type Handlers map[string]router.Factory

// Default returns the embedded route table.
func Default() (Table, error) {
	return Parse(defaultTable)
}

// Load reads the route table at path, or the embedded default when path is
// empty.
func Load(path string) (Table, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("read routes file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML route table.
func Parse(data []byte) (Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Table{}, fmt.Errorf("parse routes: %w", err)
	}
	if len(t.Routes) == 0 {
		return Table{}, errors.New("parse routes: table is empty")
	}
	return t, nil
}

// Apply registers every entry of t on rt. All entries are attempted; the
// returned error joins every configuration defect found.
func Apply(rt *router.Router, t Table, hs Handlers) error {
	var errs []error
	for _, e := range t.Routes {
		factory, ok := hs[e.Handler]
		if !ok {
			errs = append(errs, &router.ConfigurationError{
				Method: strings.ToUpper(e.Method),
				Path:   e.Path,
				Detail: fmt.Sprintf("handler %q", e.Handler),
				Err:    ErrUnknownHandler,
			})
			continue
		}

		specs := make([]middleware.Spec, 0, len(e.Middleware))
		var bad bool
		for _, s := range e.Middleware {
			spec, err := middleware.ParseSpec(s)
			if err != nil {
				errs = append(errs, &router.ConfigurationError{
					Method: strings.ToUpper(e.Method),
					Path:   e.Path,
					Detail: fmt.Sprintf("middleware %q", s),
					Err:    err,
				})
				bad = true
				continue
			}
			specs = append(specs, spec)
		}
		if bad {
			continue
		}

		if err := rt.Register(e.Method, e.Path, factory, router.Options{Middleware: specs}); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
