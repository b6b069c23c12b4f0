// store.go — Persistence interface for access codes and sessions.
//
// The service needs exactly three exact-match operations; anything fancier
// (range queries, mutation of codes, session cleanup) is deliberately absent.
// Access codes are read-only here — they are provisioned out-of-band by
// cmd/seed. Sessions are insert-only; expiry is enforced by timestamp
// comparison at authentication time, never by deletion.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Store lookups when no row matches.
var ErrNotFound = errors.New("auth: not found")

// AccessCode is a shared secret redeemable for sessions until valid_until.
type AccessCode struct {
	ID         uuid.UUID
	Code       string
	ValidUntil time.Time
	CreatedAt  time.Time
}

// Session is a minted bearer credential. AccessCodeID is nullable: the
// referenced code may be deleted by an operator without cascading to
// sessions already minted from it.
type Session struct {
	ID           uuid.UUID
	Token        string
	AccessCodeID uuid.NullUUID
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// Store is the persistence boundary of the access control service.
// Implemented by PostgresStore in production and MemoryStore in tests.
type Store interface {
	// FindAccessCodeByCode returns the access code with exactly this code
	// string, or ErrNotFound.
	FindAccessCodeByCode(ctx context.Context, code string) (*AccessCode, error)
	// InsertSession persists a newly minted session.
	InsertSession(ctx context.Context, s *Session) error
	// FindSessionByToken returns the session with exactly this token string,
	// or ErrNotFound.
	FindSessionByToken(ctx context.Context, token string) (*Session, error)
}
