package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a session token is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Store persists identities keyed by an opaque session token.
//
// Implementations do not serialize concurrent requests for the same token.
type Store interface {
	Get(ctx context.Context, token string) (Identity, error)
	Save(ctx context.Context, token string, id Identity, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
	Ping(ctx context.Context) error
}
