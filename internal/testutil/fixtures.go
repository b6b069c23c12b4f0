// fixtures.go — test data seed helpers for access codes and sessions.
package testutil

import (
	"database/sql"
	"fmt"
	"testing"
	"time"
)

// AccessCode is a minimal seeded access code.
type AccessCode struct {
	ID         string
	Code       string
	ValidUntil time.Time
}

// SeedAccessCode inserts an access code valid for the given duration
// (negative durations produce an already-expired code).
func SeedAccessCode(t *testing.T, db *sql.DB, validFor time.Duration) *AccessCode {
	t.Helper()
	ac := &AccessCode{
		Code:       fmt.Sprintf("test-code-%d", time.Now().UnixNano()),
		ValidUntil: time.Now().Add(validFor).UTC(),
	}
	err := db.QueryRow(`
		INSERT INTO access_codes (code, valid_until)
		VALUES ($1, $2)
		RETURNING id
	`, ac.Code, ac.ValidUntil).Scan(&ac.ID)
	if err != nil {
		t.Fatalf("seed access code: %v", err)
	}
	return ac
}

// ExpireSession backdates a session row so it reads as expired.
func ExpireSession(t *testing.T, db *sql.DB, token string) {
	t.Helper()
	res, err := db.Exec(`
		UPDATE sessions SET expires_at = NOW() - INTERVAL '1 hour' WHERE token = $1
	`, token)
	if err != nil {
		t.Fatalf("expire session: %v", err)
	}
	if n, _ := res.RowsAffected(); n != 1 {
		t.Fatalf("expire session: %d rows affected, want 1", n)
	}
}

// CleanupAccessCode removes a seeded access code and its sessions.
func CleanupAccessCode(db *sql.DB, accessCodeID string) {
	_, _ = db.Exec(`DELETE FROM sessions WHERE access_code_id = $1`, accessCodeID)
	_, _ = db.Exec(`DELETE FROM access_codes WHERE id = $1`, accessCodeID)
}
