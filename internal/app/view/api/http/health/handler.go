// Package health reports whether the view is up and what it currently holds.
// The route is public, so it carries counts but no user data.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"dayboard/internal/app/view/api/http/apiutil"
	"dayboard/internal/domain/dashboard"
)

// Status is the health payload. The counts are zero while signed out.
type Status struct {
	Status    string    `json:"status" enum:"OK" doc:"OK whenever the view answers"`
	SignedIn  bool      `json:"signed_in" doc:"Whether a session is active"`
	Tasks     int       `json:"tasks" doc:"Tasks held for the signed-in user"`
	OpenTasks int       `json:"open_tasks" doc:"Tasks not completed yet"`
	Notes     int       `json:"notes" doc:"Notes held for the signed-in user"`
	StartedAt time.Time `json:"started_at" doc:"When the view started serving"`
}

type output struct {
	Body Status
}

// Handler serves GET /api/v1/health.
type Handler struct {
	scopes     apiutil.Scopes
	startedAt  time.Time
	log        *slog.Logger
	middleware huma.Middlewares
}

// NewHandler records now as the start time.
func NewHandler(scopes apiutil.Scopes, now time.Time, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		scopes:     scopes,
		startedAt:  now,
		log:        log,
		middleware: mws,
	}
}

// SetupRoutes registers the health operation on api.
func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/v1/health",
		Summary:     "Health check",
		Description: "Reports whether a session is active and how many records the view holds for it",
		Tags:        []string{"health"},
		Middlewares: h.middleware,
	}, h.status)
}

func (h *Handler) status(_ context.Context, _ *struct{}) (*output, error) {
	st := Status{Status: "OK", StartedAt: h.startedAt}

	scope, err := h.scopes.Scope()
	if err != nil {
		h.log.Debug("health check while signed out")
		return &output{Body: st}, nil
	}

	stats := dashboard.Completion(scope.Tasks.Snapshot())
	st.SignedIn = true
	st.Tasks = stats.Total
	st.OpenTasks = stats.Total - stats.Completed
	st.Notes = scope.Notes.Len()
	return &output{Body: st}, nil
}
