package session

import (
	"context"
	"time"
)

// Repository records issued tokens by hash. Validate returns ErrInvalidToken
// for unknown, expired or revoked hashes.
type Repository interface {
	Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	Validate(ctx context.Context, tokenHash string) (string, error)
	Revoke(ctx context.Context, tokenHash string) error
}
