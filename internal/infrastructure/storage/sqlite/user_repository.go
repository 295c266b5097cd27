package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"dayboard/internal/domain/user"
	"dayboard/internal/infrastructure/storage"
)

// UserRepository stores users in SQLite.
type UserRepository struct {
	s *Storage
}

// NewUserRepository uses the connection of s.
func NewUserRepository(s *Storage) *UserRepository {
	return &UserRepository{s: s}
}

func (r *UserRepository) Create(ctx context.Context, email, passwordHash string) (user.User, error) {
	u := user.User{ID: uuid.NewString(), Email: email, PasswordHash: passwordHash, CreatedAt: r.s.clock.Now()}
	_, err := r.s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, storage.FormatTime(u.CreatedAt))
	if isUniqueViolation(err) {
		return user.User{}, user.ErrAlreadyExists
	}
	if err != nil {
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (user.User, error) {
	return r.find(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE email = ?`, email)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (user.User, error) {
	return r.find(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE id = ?`, id)
}

func (r *UserRepository) find(ctx context.Context, query string, arg string) (user.User, error) {
	var (
		u         user.User
		createdAt string
	)
	err := r.s.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, user.ErrNotFound
	}
	if err != nil {
		return user.User{}, fmt.Errorf("find user: %w", err)
	}
	if u.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
		return user.User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}
