package events

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"golang.org/x/exp/slog"

	"dayboard/internal/app/view/api/http/apiutil"
	"dayboard/internal/domain/collection"
	"dayboard/internal/domain/record"
)

// Change tells a view which collection changed; it re-fetches what it shows.
type Change struct {
	Collection record.Kind `json:"collection"`
	Kind       string      `json:"kind" enum:"loaded,load-failed,inserted,updated,removed,cleared"`
	ID         string      `json:"id,omitempty"`
	Len        int         `json:"len"`
}

// ChangeOf converts a store notification into its wire form.
func ChangeOf(n collection.Notification) Change {
	return Change{Collection: n.Collection, Kind: n.Kind.String(), ID: n.ID, Len: n.Len}
}

// Handler streams store notifications as server-sent events.
type Handler struct {
	scopes     apiutil.Scopes
	log        *slog.Logger
	middleware huma.Middlewares
}

// NewHandler resolves the active scope through scopes.
func NewHandler(scopes apiutil.Scopes, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		scopes:     scopes,
		log:        log.With("component", "events_handler"),
		middleware: mws,
	}
}

// SetupRoutes registers the event stream on api.
func (h *Handler) SetupRoutes(api huma.API) {
	sse.Register(api, huma.Operation{
		OperationID: "events",
		Method:      http.MethodGet,
		Path:        "/api/v1/events",
		Summary:     "Stream of store changes",
		Description: "Server-sent events, one per change of either collection. The stream ends with the session.",
		Tags:        []string{"events"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}, map[string]any{
		"change": Change{},
	}, h.stream)
}

func (h *Handler) stream(ctx context.Context, _ *struct{}, send sse.Sender) {
	scope, err := apiutil.Scope(ctx, h.scopes)
	if err != nil {
		return
	}

	// Logout clears the stores; the stream ends with it.
	for n := range scope.Watch(ctx) {
		if n.Kind == collection.Cleared {
			send.Data(ChangeOf(n))
			return
		}
		if err := send.Data(ChangeOf(n)); err != nil {
			h.log.Debug("client went away", "error", err)
			return
		}
	}
}
