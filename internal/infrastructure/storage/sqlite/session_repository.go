package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dayboard/internal/domain/session"
	"dayboard/internal/infrastructure/storage"
)

// SessionRepository stores session token hashes in SQLite.
type SessionRepository struct {
	s *Storage
}

// NewSessionRepository uses the connection of s.
func NewSessionRepository(s *Storage) *SessionRepository {
	return &SessionRepository{s: s}
}

func (r *SessionRepository) Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	_, err := r.s.db.ExecContext(ctx,
		`INSERT INTO sessions (token_hash, user_id, expires_at) VALUES (?, ?, ?)`,
		tokenHash, userID, storage.FormatTime(expiresAt))
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Validate(ctx context.Context, tokenHash string) (string, error) {
	var userID string
	err := r.s.db.QueryRowContext(ctx,
		`SELECT user_id FROM sessions WHERE token_hash = ? AND revoked = 0 AND expires_at > ?`,
		tokenHash, storage.FormatTime(time.Now())).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", session.ErrInvalidToken
	}
	if err != nil {
		return "", fmt.Errorf("find session: %w", err)
	}
	return userID, nil
}

func (r *SessionRepository) Revoke(ctx context.Context, tokenHash string) error {
	if _, err := r.s.db.ExecContext(ctx, `UPDATE sessions SET revoked = 1 WHERE token_hash = ?`, tokenHash); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
