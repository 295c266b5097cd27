package record

import "time"

// Entity is implemented by every record type a collection can hold.
// R is the implementing type itself so that OwnedBy can return a copy.
type Entity[R any] interface {
	Key() string
	Owner() string
	Created() time.Time
	// OwnedBy returns a normalized copy tagged with ownerID, ready for insert.
	OwnedBy(ownerID string) R
	Validate() error
	Matches(term string) bool
}

// Patch is a partial update for records of type R.
type Patch[R any] interface {
	Apply(rec R) R
	Validate() error
	IsEmpty() bool
}
