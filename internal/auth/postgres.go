// postgres.go — database/sql implementation of the Store interface.
package auth

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore implements Store on a *sql.DB (lib/pq).
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an open connection pool.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) FindAccessCodeByCode(ctx context.Context, code string) (*AccessCode, error) {
	var ac AccessCode
	err := p.db.QueryRowContext(ctx, `
		SELECT id, code, valid_until, created_at
		FROM access_codes
		WHERE code = $1
	`, code).Scan(&ac.ID, &ac.Code, &ac.ValidUntil, &ac.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find access code: %w", err)
	}
	return &ac, nil
}

func (p *PostgresStore) InsertSession(ctx context.Context, s *Session) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO sessions (id, token, access_code_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`, s.ID, s.Token, s.AccessCodeID, s.CreatedAt, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (p *PostgresStore) FindSessionByToken(ctx context.Context, token string) (*Session, error) {
	var s Session
	err := p.db.QueryRowContext(ctx, `
		SELECT id, token, access_code_id, created_at, expires_at
		FROM sessions
		WHERE token = $1
	`, token).Scan(&s.ID, &s.Token, &s.AccessCodeID, &s.CreatedAt, &s.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &s, nil
}
