// Package apiutil holds what every view handler shares: access to the
// session scope and the mapping of domain errors to HTTP errors.
package apiutil

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"dayboard/internal/app/client"
	"dayboard/internal/app/view/api/http/middleware/auth"
	"dayboard/internal/domain/collection"
	"dayboard/internal/domain/record"
	"dayboard/internal/domain/session"
)

// Scopes gives access to the active session scope.
type Scopes interface {
	Scope() (*client.Scope, error)
}

// Scope returns the active scope if it belongs to the authorized session.
func Scope(ctx context.Context, scopes Scopes) (*client.Scope, error) {
	sess, ok := auth.SessionFrom(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}
	scope, err := scopes.Scope()
	if err != nil || scope.Session.UserID != sess.UserID {
		return nil, huma.Error401Unauthorized("session has ended")
	}
	return scope, nil
}

// Error maps a store error to its HTTP status.
func Error(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, collection.ErrAuthRequired),
		errors.Is(err, session.ErrInvalidToken),
		errors.Is(err, session.ErrExpired):
		return huma.Error401Unauthorized("authentication required", err)
	case errors.Is(err, collection.ErrNotFound):
		return huma.Error404NotFound("record not found")
	case errors.Is(err, collection.ErrDeclined):
		return huma.Error409Conflict("action not confirmed, repeat with confirm=true")
	case errors.Is(err, record.ErrInvalidData):
		return huma.Error422UnprocessableEntity(err.Error())
	case collection.IsRemote(err):
		return huma.Error502BadGateway("backend request failed", err)
	default:
		return huma.Error500InternalServerError("internal error", err)
	}
}
