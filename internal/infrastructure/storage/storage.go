// Package storage holds what the relational adapters share.
package storage

import (
	"sync"
	"time"
)

// TimeLayout is how timestamps are stored as text. The fixed width keeps
// lexical and chronological order the same.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Clock hands out strictly increasing UTC timestamps so that rows inserted by
// one process never share a created_at.
type Clock struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

// NewClock uses now, or time.Now when now is nil.
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

// Now is the current time in UTC. Successive calls are strictly increasing.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC()
	if !t.After(c.last) {
		t = c.last.Add(time.Nanosecond)
	}
	c.last = t
	return t
}

// FormatTime encodes t the way the sqlite tables store it.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime decodes a time written by FormatTime.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}
