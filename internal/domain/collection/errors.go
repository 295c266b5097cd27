package collection

import "errors"

var (
	// ErrRemoteFetch means the initial load failed; the store is left empty.
	ErrRemoteFetch = errors.New("remote fetch failed")
	// ErrRemoteWrite means a create, update or delete was rejected; no local change was made.
	ErrRemoteWrite = errors.New("remote write failed")
	// ErrAuthRequired is returned by every operation attempted without an active session.
	ErrAuthRequired = errors.New("authentication required")
	ErrNotFound     = errors.New("record not found")
	// ErrDeclined is returned when the confirmation gate answered no.
	ErrDeclined = errors.New("action not confirmed")
)
