package handler

import (
	"context"
	"io"
	"log/slog"

	"github.com/menezmethod/helpdesk/internal/account"
	"github.com/menezmethod/helpdesk/internal/session"
)

// discardLogger returns a logger that writes to /dev/null.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeAuthenticator accepts exactly one email/password pair.
type fakeAuthenticator struct {
	email    string
	password string
	identity session.Identity
	err      error
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, email, password string) (session.Identity, error) {
	if f.err != nil {
		return session.Identity{}, f.err
	}
	if email != f.email || password != f.password {
		return session.Identity{}, account.ErrInvalidCredentials
	}
	return f.identity, nil
}

// pingFunc adapts a function to Pinger.
type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }
