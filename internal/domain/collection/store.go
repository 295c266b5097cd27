package collection

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/exp/slog"

	"dayboard/internal/domain/record"
)

// Remote is the part of the backend a store writes through.
type Remote[R record.Entity[R], P record.Patch[R]] interface {
	// FetchAll returns every record of ownerID, newest first.
	FetchAll(ctx context.Context, ownerID string) ([]R, error)
	// Insert stores rec and returns it with the server-assigned id and timestamp.
	Insert(ctx context.Context, rec R) (R, error)
	UpdateByID(ctx context.Context, ownerID, id string, patch P) error
	DeleteByID(ctx context.Context, ownerID, id string) error
}

type entry[R any] struct {
	rec R
	// pending is set for records admitted by a local create whose echo has not arrived yet.
	pending bool
}

// Store holds one collection of the signed-in user's records and keeps it
// consistent across loads, local mutations and the remote change stream.
// All mutations go through its methods.
type Store[R record.Entity[R], P record.Patch[R]] struct {
	kind    record.Kind
	remote  Remote[R, P]
	ownerID string
	log     *slog.Logger

	mu         sync.RWMutex
	items      []entry[R]
	tombstones map[string]struct{}
	closed     bool

	watchMu     sync.Mutex
	watchers    map[int]chan Notification
	nextWatcher int
}

// NewStore returns an empty store for ownerID. Call Load to fill it.
func NewStore[R record.Entity[R], P record.Patch[R]](kind record.Kind, remote Remote[R, P], ownerID string, log *slog.Logger) *Store[R, P] {
	return &Store[R, P]{
		kind:       kind,
		remote:     remote,
		ownerID:    ownerID,
		log:        log.With("component", "collection_store", "collection", kind.String()),
		tombstones: make(map[string]struct{}),
		watchers:   make(map[int]chan Notification),
	}
}

// Kind is the collection the store holds.
func (s *Store[R, P]) Kind() record.Kind {
	return s.kind
}

// OwnerID is the user whose records the store holds.
func (s *Store[R, P]) OwnerID() string {
	return s.ownerID
}

// Load replaces the contents with the owner's records, newest first.
// On failure the store is emptied and watchers get a LoadFailed notification.
func (s *Store[R, P]) Load(ctx context.Context) error {
	if err := s.checkSession(); err != nil {
		return err
	}

	recs, err := s.remote.FetchAll(ctx, s.ownerID)
	if err != nil {
		s.mu.Lock()
		s.items = nil
		s.mu.Unlock()

		s.log.Error("failed to load records", "owner_id", s.ownerID, "error", err)
		s.notify(Notification{Kind: LoadFailed, Err: err})
		return fmt.Errorf("%w: %w", ErrRemoteFetch, err)
	}

	items := make([]entry[R], 0, len(recs))
	seen := make(map[string]struct{}, len(recs))
	for _, rec := range recs {
		if rec.Owner() != s.ownerID {
			s.log.Debug("dropping foreign record from load", "id", rec.Key())
			continue
		}
		if _, dup := seen[rec.Key()]; dup {
			continue
		}
		seen[rec.Key()] = struct{}{}
		items = append(items, entry[R]{rec: rec})
	}
	slices.SortStableFunc(items, func(a, b entry[R]) int {
		return b.rec.Created().Compare(a.rec.Created())
	})

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrAuthRequired
	}
	s.items = items
	n := len(items)
	s.mu.Unlock()

	s.log.Debug("records loaded", "count", n)
	s.notify(Notification{Kind: Loaded, Len: n})
	return nil
}

// Create validates draft, inserts it remotely and admits the returned record at
// the front. The record is visible before its echo arrives; if the echo won
// the race the returned row replaces it in place.
func (s *Store[R, P]) Create(ctx context.Context, draft R) (R, error) {
	var zero R
	if err := s.checkSession(); err != nil {
		return zero, err
	}

	draft = draft.OwnedBy(s.ownerID)
	if err := draft.Validate(); err != nil {
		return zero, err
	}

	created, err := s.remote.Insert(ctx, draft)
	if err != nil {
		s.log.Error("failed to create record", "error", err)
		return zero, fmt.Errorf("%w: %w", ErrRemoteWrite, err)
	}
	if created.Key() == "" || created.Owner() != s.ownerID {
		return zero, fmt.Errorf("%w: backend returned an invalid record", ErrRemoteWrite)
	}

	id := created.Key()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return created, nil
	}
	if _, deleted := s.tombstones[id]; deleted {
		s.mu.Unlock()
		s.log.Debug("created record already deleted", "id", id)
		return created, nil
	}
	kind := Inserted
	if idx := s.indexOf(id); idx >= 0 {
		s.items[idx].rec = created
		kind = Updated
	} else {
		s.items = slices.Insert(s.items, 0, entry[R]{rec: created, pending: true})
	}
	n := len(s.items)
	s.mu.Unlock()

	s.log.Info("record created", "id", id)
	s.notify(Notification{Kind: kind, ID: id, Len: n})
	return created, nil
}

// Update sends patch for an existing record and applies it in place on success.
func (s *Store[R, P]) Update(ctx context.Context, id string, patch P) (R, error) {
	var zero R
	if err := s.checkSession(); err != nil {
		return zero, err
	}
	if patch.IsEmpty() {
		return zero, fmt.Errorf("%w: nothing to update", record.ErrInvalidData)
	}
	if err := patch.Validate(); err != nil {
		return zero, err
	}
	if _, ok := s.Get(id); !ok {
		return zero, ErrNotFound
	}

	if err := s.remote.UpdateByID(ctx, s.ownerID, id, patch); err != nil {
		s.log.Error("failed to update record", "id", id, "error", err)
		return zero, fmt.Errorf("%w: %w", ErrRemoteWrite, err)
	}

	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		// Removed by a remote delete while the request was in flight.
		s.mu.Unlock()
		return zero, ErrNotFound
	}
	updated := patch.Apply(s.items[idx].rec)
	s.items[idx].rec = updated
	n := len(s.items)
	s.mu.Unlock()

	s.notify(Notification{Kind: Updated, ID: id, Len: n})
	return updated, nil
}

// Delete asks gate, deletes the record remotely and drops it locally.
// Deleting an absent record is not an error.
func (s *Store[R, P]) Delete(ctx context.Context, id string, gate Confirmer) error {
	if err := s.checkSession(); err != nil {
		return err
	}
	if err := confirm(ctx, gate, fmt.Sprintf("Delete %s?", s.kind.Singular())); err != nil {
		return err
	}

	if err := s.remote.DeleteByID(ctx, s.ownerID, id); err != nil {
		s.log.Error("failed to delete record", "id", id, "error", err)
		return fmt.Errorf("%w: %w", ErrRemoteWrite, err)
	}

	s.remove(id)
	return nil
}

// ApplyChange merges one remote change event. It reports whether the contents
// changed. Events for other owners, duplicates and records already deleted in
// this session are dropped silently.
func (s *Store[R, P]) ApplyChange(ev ChangeEvent[R]) bool {
	switch ev.Kind {
	case ChangeInsert:
		return s.applyInsert(ev.Record)
	case ChangeUpdate:
		return s.applyUpdate(ev.Record)
	case ChangeDelete:
		id := ev.ID
		if id == "" {
			id = ev.Record.Key()
		}
		return s.remove(id)
	default:
		s.log.Warn("ignoring unknown change", "kind", string(ev.Kind), "id", ev.ID)
		return false
	}
}

// Consume applies events until the channel is closed or ctx is done.
func (s *Store[R, P]) Consume(ctx context.Context, events <-chan ChangeEvent[R]) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			s.ApplyChange(ev)
		}
	}
}

func (s *Store[R, P]) applyInsert(rec R) bool {
	id := rec.Key()
	if id == "" || rec.Owner() != s.ownerID {
		s.log.Debug("dropping foreign insert", "id", id)
		return false
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	if _, deleted := s.tombstones[id]; deleted {
		s.mu.Unlock()
		return false
	}
	if idx := s.indexOf(id); idx >= 0 {
		// Echo of a record we already hold.
		s.items[idx].pending = false
		s.mu.Unlock()
		return false
	}
	s.items = slices.Insert(s.items, 0, entry[R]{rec: rec})
	n := len(s.items)
	s.mu.Unlock()

	s.notify(Notification{Kind: Inserted, ID: id, Len: n})
	return true
}

func (s *Store[R, P]) applyUpdate(rec R) bool {
	id := rec.Key()
	if rec.Owner() != s.ownerID {
		s.log.Debug("dropping foreign update", "id", id)
		return false
	}

	s.mu.Lock()
	idx := s.indexOf(id)
	if s.closed || idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.items[idx].rec = rec
	n := len(s.items)
	s.mu.Unlock()

	s.notify(Notification{Kind: Updated, ID: id, Len: n})
	return true
}

// remove drops id and remembers it so a late insert cannot bring it back.
func (s *Store[R, P]) remove(id string) bool {
	if id == "" {
		return false
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.tombstones[id] = struct{}{}
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.items = slices.Delete(s.items, idx, idx+1)
	n := len(s.items)
	s.mu.Unlock()

	s.notify(Notification{Kind: Removed, ID: id, Len: n})
	return true
}

// Snapshot returns a copy of the contents in display order.
func (s *Store[R, P]) Snapshot() []R {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]R, len(s.items))
	for i, e := range s.items {
		out[i] = e.rec
	}
	return out
}

// Filter returns the records matching term in display order.
func (s *Store[R, P]) Filter(term string) []R {
	var out []R
	for _, rec := range s.Snapshot() {
		if rec.Matches(term) {
			out = append(out, rec)
		}
	}
	return out
}

// Get returns the record with id, if the store holds it.
func (s *Store[R, P]) Get(id string) (R, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexOf(id); idx >= 0 {
		return s.items[idx].rec, true
	}
	var zero R
	return zero, false
}

// Len is the number of records held.
func (s *Store[R, P]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Pending reports whether id was created locally and its echo is still outstanding.
func (s *Store[R, P]) Pending(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexOf(id); idx >= 0 {
		return s.items[idx].pending
	}
	return false
}

// Reset discards the contents and the deletion history.
func (s *Store[R, P]) Reset() {
	s.mu.Lock()
	s.items = nil
	s.tombstones = make(map[string]struct{})
	s.mu.Unlock()

	s.notify(Notification{Kind: Cleared})
}

// Close ends the store's session. Every later operation fails with ErrAuthRequired.
func (s *Store[R, P]) Close() {
	s.mu.Lock()
	s.closed = true
	s.items = nil
	s.tombstones = make(map[string]struct{})
	s.mu.Unlock()

	s.notify(Notification{Kind: Cleared})
}

// Watch streams notifications until ctx is done. Notifications are dropped for
// a watcher that is not keeping up; it can always re-read the snapshot.
func (s *Store[R, P]) Watch(ctx context.Context) <-chan Notification {
	ch := make(chan Notification, 32)

	s.watchMu.Lock()
	id := s.nextWatcher
	s.nextWatcher++
	s.watchers[id] = ch
	s.watchMu.Unlock()

	go func() {
		<-ctx.Done()
		s.watchMu.Lock()
		delete(s.watchers, id)
		close(ch)
		s.watchMu.Unlock()
	}()

	return ch
}

func (s *Store[R, P]) notify(n Notification) {
	n.Collection = s.kind

	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	for _, ch := range s.watchers {
		select {
		case ch <- n:
		default:
		}
	}
}

func (s *Store[R, P]) checkSession() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed || s.ownerID == "" {
		return ErrAuthRequired
	}
	return nil
}

// indexOf must be called with mu held.
func (s *Store[R, P]) indexOf(id string) int {
	for i, e := range s.items {
		if e.rec.Key() == id {
			return i
		}
	}
	return -1
}

// IsRemote reports whether err came from the backend rather than local validation.
func IsRemote(err error) bool {
	return errors.Is(err, ErrRemoteFetch) || errors.Is(err, ErrRemoteWrite)
}
