package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"dayboard/internal/app/view/api/http/apiutil"
	"dayboard/internal/domain/dashboard"
)

// Handler serves the dashboard.
type Handler struct {
	scopes     apiutil.Scopes
	now        func() time.Time
	log        *slog.Logger
	middleware huma.Middlewares
}

// NewHandler uses now as the clock, time.Now when nil.
func NewHandler(scopes apiutil.Scopes, now func() time.Time, log *slog.Logger, mws huma.Middlewares) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{
		scopes:     scopes,
		now:        now,
		log:        log,
		middleware: mws,
	}
}

// SetupRoutes registers the dashboard operation on api.
func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.summaryOp(), h.summary)
}

func (h *Handler) summary(ctx context.Context, input *Input) (*Output, error) {
	scope, err := apiutil.Scope(ctx, h.scopes)
	if err != nil {
		return nil, err
	}

	now := h.now()
	tasks := scope.Tasks.Snapshot()
	board := dashboard.Summary(tasks, now)

	if input.Month != "" {
		year, month, err := ParseMonth(input.Month)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		board.Calendar = dashboard.Month(tasks, year, month, now)
	}
	board.Navigate(tasks, input.Offset, now)
	return &Output{Body: board}, nil
}

// ParseMonth parses a YYYY-MM month.
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q, want YYYY-MM", s)
	}
	return t.Year(), t.Month(), nil
}
