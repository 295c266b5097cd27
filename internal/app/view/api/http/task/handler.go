package task

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"dayboard/internal/app/view/api/http/apiutil"
	"dayboard/internal/domain/collection"
	"dayboard/internal/domain/record"
)

// Handler serves the task routes.
type Handler struct {
	scopes     apiutil.Scopes
	log        *slog.Logger
	middleware huma.Middlewares
}

// NewHandler resolves the active scope through scopes.
func NewHandler(scopes apiutil.Scopes, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		scopes:     scopes,
		log:        log.With("component", "task_handler"),
		middleware: mws,
	}
}

// SetupRoutes registers the task operations on api.
func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.findOp(), h.find)
	huma.Register(api, h.updateOp(), h.update)
	huma.Register(api, h.completionOp(), h.setCompletion)
	huma.Register(api, h.deleteOp(), h.delete)
	huma.Register(api, h.archiveOp(), h.archive)
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	scope, err := apiutil.Scope(ctx, h.scopes)
	if err != nil {
		return nil, err
	}

	tasks := scope.Tasks.Filter(input.Search)
	if tasks == nil {
		tasks = []record.Task{}
	}
	return &listOutput{Body: tasks}, nil
}

func (h *Handler) create(ctx context.Context, input *createInput) (*output, error) {
	scope, err := apiutil.Scope(ctx, h.scopes)
	if err != nil {
		return nil, err
	}

	created, err := scope.Tasks.Create(ctx, record.Task{
		Title:    input.Body.Title,
		Category: input.Body.Category,
		DueDate:  input.Body.DueDate,
	})
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

	t, ok := scope.Tasks.Get(input.ID)
	if !ok {
		return nil, apiutil.Error(collection.ErrNotFound)
	}
	return &output{Body: t}, nil
}

func (h *Handler) update(ctx context.Context, input *updateInput) (*output, error) {
	scope, err := apiutil.Scope(ctx, h.scopes)
	if err != nil {
		return nil, err
	}

	updated, err := scope.Tasks.Update(ctx, input.ID, input.Body.patch())
	if err != nil {
		return nil, apiutil.Error(err)
	}
	return &output{Body: updated}, nil
}

func (h *Handler) setCompletion(ctx context.Context, input *completionInput) (*output, error) {
	scope, err := apiutil.Scope(ctx, h.scopes)
	if err != nil {
		return nil, err
	}

	updated, err := scope.Tasks.SetCompletion(ctx, input.ID, input.Body.IsComplete)
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

	if err := scope.Tasks.Delete(ctx, input.ID, collection.Confirmed(input.Confirm)); err != nil {
		return nil, apiutil.Error(err)
	}
	return nil, nil
}

func (h *Handler) archive(ctx context.Context, input *archiveInput) (*archiveOutput, error) {
	scope, err := apiutil.Scope(ctx, h.scopes)
	if err != nil {
		return nil, err
	}

	n, err := scope.Tasks.ArchiveCompleted(ctx, collection.Confirmed(input.Confirm))
	if err != nil {
		h.log.Warn("archive incomplete", "archived", n, "error", err)
		return nil, apiutil.Error(err)
	}

	out := &archiveOutput{}
	out.Body.Archived = n
	return out, nil
}
