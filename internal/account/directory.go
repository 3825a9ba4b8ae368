// Package account authenticates HelpDesk users against the usuarios table
// and maps their role to a landing area.
package account

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/menezmethod/helpdesk/internal/session"
)

// ErrInvalidCredentials is returned for an unknown email, an inactive user,
// or a wrong password. Callers cannot tell which.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Querier is the subset of *pgxpool.Pool used by Directory.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Directory looks users up in PostgreSQL.
type Directory struct {
	db Querier
}

// NewDirectory creates a Directory over db.
func NewDirectory(db Querier) *Directory {
	return &Directory{db: db}
}

const userByEmail = `
	SELECT id, nombre, email, rol, password_hash, activo
	FROM usuarios
	WHERE lower(email) = lower($1)`

// Authenticate verifies email and password and returns the identity to store
// in the session.
func (d *Directory) Authenticate(ctx context.Context, email, password string) (session.Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return session.Identity{}, ErrInvalidCredentials
	}

	var (
		id     int64
		name   string
		stored string
		role   string
		hash   string
		active bool
	)
	err := d.db.QueryRow(ctx, userByEmail, email).Scan(&id, &name, &stored, &role, &hash, &active)
	if errors.Is(err, pgx.ErrNoRows) {
		return session.Identity{}, ErrInvalidCredentials
	}
	if err != nil {
		return session.Identity{}, fmt.Errorf("query user: %w", err)
	}
	if !active {
		return session.Identity{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return session.Identity{}, ErrInvalidCredentials
		}
		return session.Identity{}, fmt.Errorf("compare password: %w", err)
	}

	return session.Identity{
		ID:    strconv.FormatInt(id, 10),
		Name:  name,
		Email: stored,
		Role:  strings.ToLower(strings.TrimSpace(role)),
	}, nil
}
