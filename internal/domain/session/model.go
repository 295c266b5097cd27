package session

import "time"

// Session is an authenticated user's access to the backend.
type Session struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the session is over at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Event is a change of the signed-in state.
type Event int

const (
	SignedIn Event = iota
	SignedOut
)

func (e Event) String() string {
	if e == SignedIn {
		return "signed-in"
	}
	return "signed-out"
}

// Change is delivered to session listeners. Session is nil for SignedOut.
type Change struct {
	Event   Event
	Session *Session
}
