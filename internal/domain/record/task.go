package record

import (
	"fmt"
	"strings"
	"time"
)

// DefaultCategory is assigned to tasks created without a category.
const DefaultCategory = "General"

// Task is a to-do item with an optional due date.
type Task struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	DueDate    *Date     `json:"due_date"`
	IsComplete bool      `json:"is_complete"`
	CreatedAt  time.Time `json:"created_at"`
}

func (t Task) Key() string        { return t.ID }
func (t Task) Owner() string      { return t.OwnerID }
func (t Task) Created() time.Time { return t.CreatedAt }

// OwnedBy returns a copy of t owned by ownerID.
func (t Task) OwnedBy(ownerID string) Task {
	t.OwnerID = ownerID
	t.Title = strings.TrimSpace(t.Title)
	t.Category = normalizeCategory(t.Category)
	return t
}

// Validate requires a title.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidData)
	}
	return nil
}

// Matches reports whether term occurs in the title or the category, ignoring case.
func (t Task) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), term) ||
		strings.Contains(strings.ToLower(t.Category), term)
}

// DueOn reports whether the task is due on day.
func (t Task) DueOn(day Date) bool {
	return t.DueDate != nil && *t.DueDate == day
}

// TaskPatch carries the fields of a task update. Nil fields are left untouched.
type TaskPatch struct {
	Title      *string
	Category   *string
	DueDate    *Date
	ClearDue   bool
	IsComplete *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Category == nil && p.DueDate == nil && !p.ClearDue && p.IsComplete == nil
}

// Validate rejects a blank title and a due date both set and cleared.
func (p TaskPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidData)
	}
	if p.ClearDue && p.DueDate != nil {
		return fmt.Errorf("%w: due date both set and cleared", ErrInvalidData)
	}
	return nil
}

// Apply returns t with the patch applied.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Category != nil {
		t.Category = normalizeCategory(*p.Category)
	}
	if p.DueDate != nil {
		due := *p.DueDate
		t.DueDate = &due
	}
	if p.ClearDue {
		t.DueDate = nil
	}
	if p.IsComplete != nil {
		t.IsComplete = *p.IsComplete
	}
	return t
}

func normalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return DefaultCategory
	}
	return category
}
