package note

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"dayboard/internal/app/view/api/http/apiutil"
	"dayboard/internal/domain/collection"
	"dayboard/internal/domain/record"
)

// Handler serves the note routes.
type Handler struct {
	scopes     apiutil.Scopes
	log        *slog.Logger
	middleware huma.Middlewares
}

// NewHandler resolves the active scope through scopes.
func NewHandler(scopes apiutil.Scopes, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		scopes:     scopes,
		log:        log.With("component", "note_handler"),
		middleware: mws,
	}
}

// SetupRoutes registers the note operations on api.
func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.findOp(), h.find)
	huma.Register(api, h.updateOp(), h.update)
	huma.Register(api, h.deleteOp(), h.delete)
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	scope, err := apiutil.Scope(ctx, h.scopes)
	if err != nil {
		return nil, err
	}

	notes := scope.Notes.Filter(input.Search)
	if notes == nil {
		notes = []record.Note{}
	}
	return &listOutput{Body: notes}, nil
}

func (h *Handler) create(ctx context.Context, input *createInput) (*output, error) {
	scope, err := apiutil.Scope(ctx, h.scopes)
	if err != nil {
		return nil, err
	}

	created, err := scope.Notes.Create(ctx, record.Note{Title: input.Body.Title, Content: input.Body.Content})
	if err != nil {
		return nil, apiutil.Error(err)
	}
	return &output{Body: created}, nil
}

func (h *Handler) find(ctx context.Context, input *idInput) (*output, error) {
	scope, err := apiutil.Scope(ctx, h.scopes)
	if err != nil {
		return nil, err
	}

	n, ok := scope.Notes.Get(input.ID)
	if !ok {
		return nil, apiutil.Error(collection.ErrNotFound)
	}
	return &output{Body: n}, nil
}

func (h *Handler) update(ctx context.Context, input *updateInput) (*output, error) {
	scope, err := apiutil.Scope(ctx, h.scopes)
	if err != nil {
		return nil, err
	}

	patch := record.NotePatch{Title: input.Body.Title, Content: input.Body.Content}
	updated, err := scope.Notes.Update(ctx, input.ID, patch)
	if err != nil {
		return nil, apiutil.Error(err)
	}
	return &output{Body: updated}, nil
}

func (h *Handler) delete(ctx context.Context, input *deleteInput) (*struct{}, error) {
	scope, err := apiutil.Scope(ctx, h.scopes)
	if err != nil {
		return nil, err
	}

	if err := scope.Notes.Delete(ctx, input.ID, collection.Confirmed(input.Confirm)); err != nil {
		return nil, apiutil.Error(err)
	}
	return nil, nil
}
