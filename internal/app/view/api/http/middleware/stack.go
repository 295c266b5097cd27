// Package middleware groups the huma middlewares of the view's routes.
package middleware

import (
	"github.com/danielgtaylor/huma/v2"
)

// Func is a huma router middleware.
type Func = func(ctx huma.Context, next func(huma.Context))

// Stack hands each route group its middlewares in order: request logging
// first, then the session check.
type Stack struct {
	logger Func
	auth   Func
}

// NewStack builds the groups from the request logger and the session check.
func NewStack(logger, auth Func) *Stack {
	return &Stack{logger: logger, auth: auth}
}

// Public routes are logged but answer without a token.
func (s *Stack) Public() huma.Middlewares {
	return huma.Middlewares{s.logger}
}

// Private routes are logged and need the current session's token.
func (s *Stack) Private() huma.Middlewares {
	return huma.Middlewares{s.logger, s.auth}
}

// Stream routes need the token. They are not logged since the request lasts
// as long as the client listens.
func (s *Stack) Stream() huma.Middlewares {
	return huma.Middlewares{s.auth}
}
