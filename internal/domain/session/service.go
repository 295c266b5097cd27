package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"dayboard/internal/domain/user"
)

// DefaultTTL is used when no lifetime is configured.
const DefaultTTL = 24 * time.Hour

// Servicer issues and checks access tokens.
type Servicer interface {
	Create(ctx context.Context, u user.User) (*Session, error)
	Validate(ctx context.Context, token string) (*Session, error)
	Revoke(ctx context.Context, token string) error
}

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Service issues HS256 access tokens and keeps their hashes so that a
// token can be revoked before it expires.
type Service struct {
	repo   Repository
	secret []byte
	ttl    time.Duration
	parser *jwt.Parser
	log    *slog.Logger
}

// NewService signs tokens with secret. Only token hashes reach repo.
func NewService(repo Repository, secret []byte, ttl time.Duration, log *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		repo:   repo,
		secret: secret,
		ttl:    ttl,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
		log:    log.With("component", "session_service"),
	}
}

// Create issues a token for u valid for the configured TTL.
func (s *Service) Create(ctx context.Context, u user.User) (*Session, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl).Truncate(time.Second)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	if err := s.repo.Create(ctx, u.ID, hashToken(token), expiresAt); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.log.Debug("session created", "user_id", u.ID, "expires_at", expiresAt)
	return &Session{UserID: u.ID, Email: u.Email, AccessToken: token, ExpiresAt: expiresAt}, nil
}

// Validate returns ErrInvalidToken or ErrExpired for tokens that cannot be used.
func (s *Service) Validate(ctx context.Context, token string) (*Session, error) {
	var c claims
	if _, err := s.parser.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.Subject == "" || c.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing claims", ErrInvalidToken)
	}

	userID, err := s.repo.Validate(ctx, hashToken(token))
	if err != nil {
		return nil, fmt.Errorf("validate session: %w", err)
	}
	if userID != c.Subject {
		return nil, fmt.Errorf("%w: subject mismatch", ErrInvalidToken)
	}

	return &Session{UserID: userID, Email: c.Email, AccessToken: token, ExpiresAt: c.ExpiresAt.Time}, nil
}

// Revoke makes token invalid. Revoking an unknown token is not an error.
func (s *Service) Revoke(ctx context.Context, token string) error {
	if err := s.repo.Revoke(ctx, hashToken(token)); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
