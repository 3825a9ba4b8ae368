// Package handler implements the terminal handlers the front controller
// owns itself: health probes, login and logout, and the landing pages that
// stand in for each business area.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/menezmethod/helpdesk/internal/version"
)

// Pinger is a dependency that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Check names a dependency probed by Ready.
type Check struct {
	Name   string
	Pinger Pinger
}

// Health handles liveness checks. It always returns 200 if the server is running.
// Response includes "version" so you can see which build is running.
//
//	GET /health
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "ok",
			"version": version.Version,
		})
	}
}

// Ready handles readiness checks. It returns 200 only if every dependency
// (session store, database) answers within two seconds. The route is public,
// so a failure names the dependency and the error itself is only logged.
//
//	GET /health/ready
func Ready(logger *slog.Logger, checks ...Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		for _, c := range checks {
			if err := c.Pinger.Ping(ctx); err != nil {
				logger.Warn("readiness check failed", "dependency", c.Name, "err", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"status":     "unavailable",
					"dependency": c.Name,
					"version":    version.Version,
				})
				return
			}
		}

		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "ready",
			"version": version.Version,
		})
	}
}

// VersionInfo handles version info. Returns JSON with version and optional commit.
//
//	GET /version
func VersionInfo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		out := map[string]string{"version": version.Version}
		if version.Commit != "" {
			out["commit"] = version.Commit
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}
