package user

import (
	"context"
)

// Repository persists users. Lookups of unknown users return ErrNotFound and
// Create returns ErrAlreadyExists for a taken email.
type Repository interface {
	Create(ctx context.Context, email, passwordHash string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
}
