package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Options configures the session cookie.
type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Manager binds a Store to the session cookie of incoming requests.
type Manager struct {
	store Store
	opts  Options
}

// NewManager creates a Manager. Zero option values fall back to the
// "HELPDESKSESSID" cookie and an eight hour lifetime.
func NewManager(store Store, opts Options) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = "HELPDESKSESSID"
	}
	if opts.TTL <= 0 {
		opts.TTL = 8 * time.Hour
	}
	return &Manager{store: store, opts: opts}
}

// Load returns the identity bound to the request's session cookie. A missing
// cookie or an unknown token yields (nil, nil); only store failures are
// reported as errors.
func (m *Manager) Load(r *http.Request) (*Identity, error) {
	cookie, err := r.Cookie(m.opts.CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	id, err := m.store.Get(r.Context(), cookie.Value)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &id, nil
}

// Start creates a new session for id and sets its cookie on w.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter, id Identity) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	if err := m.store.Save(ctx, token, id, m.opts.TTL); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return token, nil
}

// End deletes the request's session, if any, and expires its cookie.
func (m *Manager) End(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if cookie, err := r.Cookie(m.opts.CookieName); err == nil && cookie.Value != "" {
		if err := m.store.Delete(ctx, cookie.Value); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Ping reports whether the underlying store is reachable.
func (m *Manager) Ping(ctx context.Context) error {
	return m.store.Ping(ctx)
}

// CookieName returns the name of the session cookie.
func (m *Manager) CookieName() string {
	return m.opts.CookieName
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
