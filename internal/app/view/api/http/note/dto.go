package note

import (
	"dayboard/internal/domain/record"
)

type listInput struct {
	Search string `query:"search" doc:"Case-insensitive filter over title and content"`
}

type listOutput struct {
	Body []record.Note
}

type createInput struct {
	Body struct {
		Title   string `json:"title" minLength:"1" doc:"Note title"`
		Content string `json:"content,omitempty" doc:"Markdown content"`
	}
}

type idInput struct {
	ID string `path:"id" doc:"Note ID"`
}

type updateInput struct {
	ID   string `path:"id" doc:"Note ID"`
	Body struct {
		Title   *string `json:"title,omitempty"`
		Content *string `json:"content,omitempty"`
	}
}

type deleteInput struct {
	ID      string `path:"id" doc:"Note ID"`
	Confirm bool   `query:"confirm" doc:"Must be true; deleting cannot be undone"`
}

type output struct {
	Body record.Note
}
