package task

import (
	"dayboard/internal/domain/record"
)

type listInput struct {
	Search string `query:"search" doc:"Case-insensitive filter over title and category"`
}

type listOutput struct {
	Body []record.Task
}

type createRequest struct {
	Title    string       `json:"title" minLength:"1" doc:"Task title"`
	Category string       `json:"category,omitempty" doc:"Category, General when empty"`
	DueDate  *record.Date `json:"due_date,omitempty" doc:"Due date"`
}

type createInput struct {
	Body createRequest
}

type idInput struct {
	ID string `path:"id" doc:"Task ID"`
}

type updateRequest struct {
	Title      *string      `json:"title,omitempty"`
	Category   *string      `json:"category,omitempty"`
	DueDate    *record.Date `json:"due_date,omitempty"`
	ClearDue   bool         `json:"clear_due,omitempty" doc:"Remove the due date"`
	IsComplete *bool        `json:"is_complete,omitempty"`
}

func (r updateRequest) patch() record.TaskPatch {
	return record.TaskPatch{
		Title:      r.Title,
		Category:   r.Category,
		DueDate:    r.DueDate,
		ClearDue:   r.ClearDue,
		IsComplete: r.IsComplete,
	}
}

type updateInput struct {
	ID   string `path:"id" doc:"Task ID"`
	Body updateRequest
}

type completionInput struct {
	ID   string `path:"id" doc:"Task ID"`
	Body struct {
		IsComplete bool `json:"is_complete"`
	}
}

type deleteInput struct {
	ID      string `path:"id" doc:"Task ID"`
	Confirm bool   `query:"confirm" doc:"Must be true; deleting cannot be undone"`
}

type archiveInput struct {
	Confirm bool `query:"confirm" doc:"Must be true; deleting cannot be undone"`
}

type archiveOutput struct {
	Body struct {
		Archived int `json:"archived"`
	}
}

type output struct {
	Body record.Task
}
