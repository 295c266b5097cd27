package record

import (
	"fmt"
	"strings"
	"time"
)

// Note is a titled markdown document.
type Note struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func (n Note) Key() string        { return n.ID }
func (n Note) Owner() string      { return n.OwnerID }
func (n Note) Created() time.Time { return n.CreatedAt }

// OwnedBy returns a copy of n owned by ownerID.
func (n Note) OwnedBy(ownerID string) Note {
	n.OwnerID = ownerID
	n.Title = strings.TrimSpace(n.Title)
	return n
}

// Validate requires a title.
func (n Note) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidData)
	}
	return nil
}

// Matches reports whether term appears in the title or content, ignoring case.
func (n Note) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(n.Title), term) ||
		strings.Contains(strings.ToLower(n.Content), term)
}

// NotePatch changes the set fields of a note.
type NotePatch struct {
	Title   *string
	Content *string
}

// IsEmpty reports whether the patch changes nothing.
func (p NotePatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil
}

// Validate rejects a blank title.
func (p NotePatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidData)
	}
	return nil
}

// Apply returns n with the patch applied.
func (p NotePatch) Apply(n Note) Note {
	if p.Title != nil {
		n.Title = strings.TrimSpace(*p.Title)
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	return n
}
