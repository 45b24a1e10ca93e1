// Package session persists authenticated sessions server-side. The
// browser only holds an opaque session id cookie; the bearer token and
// user profile never leave the gateway.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"
)

// DefaultTTL is how long a session stays valid without re-login.
const DefaultTTL = 30 * 24 * time.Hour

// ErrNotFound is returned when a session id is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Session holds everything a signed-in user needs per request: the
// backend bearer token plus the profile fields shown in the UI.
type Session struct {
	ID        string
	Token     string
	UserID    string
	Name      string
	Email     string
	CreatedAt time.Time
}

// Store is the persistence port for sessions.
type Store interface {
	Put(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// NewID generates a 128-bit random session identifier.
func NewID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(b)
}
