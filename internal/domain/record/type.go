package record

import (
	"fmt"

	"github.com/danielgtaylor/huma/v2"
)

// Kind names a record collection. Its value doubles as the table name.
type Kind string

const (
	KindTask Kind = "tasks"
	KindNote Kind = "notes"
)

// Schema describes Kind as a string enum in the OpenAPI document.
func (Kind) Schema(_ huma.Registry) *huma.Schema {
	return &huma.Schema{
		Type:        "string",
		Enum:        []any{string(KindTask), string(KindNote)},
		Description: "Record collection",
		Examples:    []any{KindTask},
	}
}

// Validate reports whether k names a known collection.
func (k Kind) Validate() error {
	switch k {
	case KindTask, KindNote:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownKind, string(k))
}

func (k Kind) String() string {
	return string(k)
}

// Singular returns the human name of one record of this kind.
func (k Kind) Singular() string {
	switch k {
	case KindTask:
		return "task"
	case KindNote:
		return "note"
	default:
		return "record"
	}
}
