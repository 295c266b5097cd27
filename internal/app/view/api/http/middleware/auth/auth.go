package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"dayboard/internal/domain/session"
)

// Authorizer accepts only the access token of the session the view serves.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (*session.Session, error)
}

// Auth rejects requests without the current session's bearer token.
type Auth struct {
	authorizer Authorizer
	api        huma.API
	log        *slog.Logger
}

// New checks tokens with authorizer and writes errors through api.
func New(api huma.API, authorizer Authorizer, log *slog.Logger) *Auth {
	return &Auth{
		authorizer: authorizer,
		api:        api,
		log:        log.With("component", "auth_middleware"),
	}
}

type contextKey string

const sessionKey contextKey = "session"

// Middleware stores the authorized session in the request context.
func (a *Auth) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		token, ok := bearerToken(ctx.Header("Authorization"))
		if !ok {
			a.log.Debug("missing bearer token", "path", ctx.URL().Path)
			huma.WriteErr(a.api, ctx, http.StatusUnauthorized, "Unauthorized")
			return
		}

		sess, err := a.authorizer.Authorize(ctx.Context(), token)
		if err != nil {
			a.log.Warn("rejected token", "path", ctx.URL().Path, "error", err)
			huma.WriteErr(a.api, ctx, http.StatusUnauthorized, "Unauthorized")
			return
		}

		next(huma.WithValue(ctx, sessionKey, sess))
	}
}

func bearerToken(header string) (string, bool) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}

// SessionFrom returns the session the request was authorized for.
func SessionFrom(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*session.Session)
	return sess, ok && sess != nil
}

// WithSession is used by tests that call handlers directly.
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}
