package postgres

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"dayboard/internal/domain/session"
)

// SessionRepository stores session token hashes in PostgreSQL.
type SessionRepository struct {
	s   *Storage
	log *slog.Logger
}

// NewSessionRepository uses the connection of s.
func NewSessionRepository(s *Storage, log *slog.Logger) *SessionRepository {
	return &SessionRepository{s: s, log: log.With("component", "session_repository")}
}

func (r *SessionRepository) Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	_, err := r.s.pool.Exec(ctx,
		`INSERT INTO sessions (token_hash, user_id, expires_at) VALUES ($1, $2, $3)`,
		tokenHash, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Validate(ctx context.Context, tokenHash string) (string, error) {
	var userID string
	err := r.s.pool.QueryRow(ctx,
		`SELECT user_id FROM sessions
		 WHERE token_hash = $1 AND revoked_at IS NULL AND expires_at > now()`,
		tokenHash).Scan(&userID)
	if isNoRows(err) {
		return "", session.ErrInvalidToken
	}
	if err != nil {
		return "", fmt.Errorf("find session: %w", err)
	}
	return userID, nil
}

func (r *SessionRepository) Revoke(ctx context.Context, tokenHash string) error {
	if _, err := r.s.pool.Exec(ctx, `UPDATE sessions SET revoked_at = now() WHERE token_hash = $1`, tokenHash); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
