package task

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

var bearer = []map[string][]string{{"bearer": {}}}

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "tasks-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/tasks",
		Summary:     "List tasks, newest first",
		Tags:        []string{"tasks"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID:   "tasks-create",
		Method:        http.MethodPost,
		Path:          "/api/v1/tasks",
		Summary:       "Create a task",
		Tags:          []string{"tasks"},
		DefaultStatus: http.StatusCreated,
		Security:      bearer,
		Middlewares:   h.middleware,
	}
}

func (h *Handler) findOp() huma.Operation {
	return huma.Operation{
		OperationID: "tasks-find",
		Method:      http.MethodGet,
		Path:        "/api/v1/tasks/{id}",
		Summary:     "Get a task",
		Tags:        []string{"tasks"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}

func (h *Handler) updateOp() huma.Operation {
	return huma.Operation{
		OperationID: "tasks-update",
		Method:      http.MethodPatch,
		Path:        "/api/v1/tasks/{id}",
		Summary:     "Update a task",
		Description: "Only the fields present in the body are changed.",
		Tags:        []string{"tasks"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}

func (h *Handler) completionOp() huma.Operation {
	return huma.Operation{
		OperationID: "tasks-set-completion",
		Method:      http.MethodPut,
		Path:        "/api/v1/tasks/{id}/completion",
		Summary:     "Mark a task complete or incomplete",
		Tags:        []string{"tasks"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID:   "tasks-delete",
		Method:        http.MethodDelete,
		Path:          "/api/v1/tasks/{id}",
		Summary:       "Delete a task",
		Description:   "Requires confirm=true. Deleting an absent task succeeds.",
		Tags:          []string{"tasks"},
		DefaultStatus: http.StatusNoContent,
		Security:      bearer,
		Middlewares:   h.middleware,
	}
}

func (h *Handler) archiveOp() huma.Operation {
	return huma.Operation{
		OperationID: "tasks-archive",
		Method:      http.MethodPost,
		Path:        "/api/v1/tasks/archive",
		Summary:     "Delete every completed task",
		Description: "Requires confirm=true.",
		Tags:        []string{"tasks"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}
