// Package api serves the signed-in session's stores over HTTP:
//
//	GET    /api/v1/health
//	GET    /api/v1/tasks            POST /api/v1/tasks
//	GET    /api/v1/tasks/{id}       PATCH /api/v1/tasks/{id}     DELETE /api/v1/tasks/{id}?confirm=true
//	PUT    /api/v1/tasks/{id}/completion
//	POST   /api/v1/tasks/archive?confirm=true
//	GET    /api/v1/notes            POST /api/v1/notes
//	GET    /api/v1/notes/{id}       PATCH /api/v1/notes/{id}     DELETE /api/v1/notes/{id}?confirm=true
//	GET    /api/v1/dashboard?month=YYYY-MM&offset=N
//	GET    /api/v1/events           (server-sent events)
//
// Every route but health needs the session's access token as a bearer token.
package api

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"

	dashboardAPI "dayboard/internal/app/view/api/http/dashboard"
	eventsAPI "dayboard/internal/app/view/api/http/events"
	healthAPI "dayboard/internal/app/view/api/http/health"
	"dayboard/internal/app/view/api/http/apiutil"
	"dayboard/internal/app/view/api/http/middleware"
	"dayboard/internal/app/view/api/http/middleware/auth"
	"dayboard/internal/app/view/api/http/middleware/logger"
	noteAPI "dayboard/internal/app/view/api/http/note"
	taskAPI "dayboard/internal/app/view/api/http/task"
)

// Handlers are the route groups mounted under /api/v1.
type Handlers struct {
	Health    *healthAPI.Handler
	Tasks     *taskAPI.Handler
	Notes     *noteAPI.Handler
	Dashboard *dashboardAPI.Handler
	Events    *eventsAPI.Handler
}

// Options tune the router for tests.
type Options struct {
	// Now is the dashboard clock. Defaults to time.Now.
	Now func() time.Time
}

// New mounts every route group on a chi router. authorizer checks the bearer
// token of every route but health.
func New(scopes apiutil.Scopes, authorizer auth.Authorizer, log *slog.Logger, opts Options) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("Dayboard API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, config)

	h := handlers(API, scopes, authorizer, log, opts)
	h.Health.SetupRoutes(API)
	h.Tasks.SetupRoutes(API)
	h.Notes.SetupRoutes(API)
	h.Dashboard.SetupRoutes(API)
	h.Events.SetupRoutes(API)

	return mux
}

func handlers(API huma.API, scopes apiutil.Scopes, authorizer auth.Authorizer, log *slog.Logger, opts Options) *Handlers {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	stack := middleware.NewStack(logger.New(log).Middleware(), auth.New(API, authorizer, log).Middleware())

	return &Handlers{
		Health:    healthAPI.NewHandler(scopes, now(), log, stack.Public()),
		Tasks:     taskAPI.NewHandler(scopes, log, stack.Private()),
		Notes:     noteAPI.NewHandler(scopes, log, stack.Private()),
		Dashboard: dashboardAPI.NewHandler(scopes, now, log, stack.Private()),
		Events:    eventsAPI.NewHandler(scopes, log, stack.Stream()),
	}
}
