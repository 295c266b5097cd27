package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"dayboard/internal/domain/user"
)

// UserRepository stores users in PostgreSQL.
type UserRepository struct {
	s   *Storage
	log *slog.Logger
}

// NewUserRepository uses the connection of s.
func NewUserRepository(s *Storage, log *slog.Logger) *UserRepository {
	return &UserRepository{s: s, log: log.With("component", "user_repository")}
}

func (r *UserRepository) Create(ctx context.Context, email, passwordHash string) (user.User, error) {
	u := user.User{ID: uuid.NewString(), Email: email, PasswordHash: passwordHash}
	err := r.s.pool.QueryRow(ctx,
		`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3) RETURNING created_at`,
		u.ID, u.Email, u.PasswordHash).Scan(&u.CreatedAt)
	if isUniqueViolation(err) {
		return user.User{}, user.ErrAlreadyExists
	}
	if err != nil {
		r.log.Error("failed to create user", "error", err)
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (user.User, error) {
	return r.find(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE email = $1`, email)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (user.User, error) {
	if !validID(id) {
		return user.User{}, user.ErrNotFound
	}
	return r.find(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE id = $1`, id)
}

func (r *UserRepository) find(ctx context.Context, query, arg string) (user.User, error) {
	var u user.User
	err := r.s.pool.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if isNoRows(err) {
		return user.User{}, user.ErrNotFound
	}
	if err != nil {
		return user.User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}
