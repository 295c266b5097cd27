// Package sessionstore keeps the signed-in session between CLI invocations.
package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/peterbourgon/diskv/v3"
	"golang.org/x/exp/slog"

	"dayboard/internal/domain/session"
)

const (
	dirName    = "session"
	tempName   = ".session-tmp"
	currentKey = "current"
)

// ErrNoSession is returned by Load when nobody is signed in.
var ErrNoSession = errors.New("no stored session")

// Store is shared by every dayboard process using the same config dir, so
// reads always go to disk and writes replace the file atomically.
type Store struct {
	d    *diskv.Diskv
	base string
}

// New keeps the session under configDir. Files are readable by the owner only.
func New(configDir string) *Store {
	base := filepath.Join(configDir, dirName)
	return &Store{
		base: base,
		d: diskv.New(diskv.Options{
			BasePath: base,
			TempDir:  filepath.Join(configDir, tempName),
			FilePerm: 0o600,
			PathPerm: 0o700,
		}),
	}
}

// Save replaces the stored session.
func (s *Store) Save(sess *session.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.d.Write(currentKey, data); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Load returns ErrNoSession when nothing is stored.
func (s *Store) Load() (*session.Session, error) {
	data, err := s.d.Read(currentKey)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var sess session.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if sess.AccessToken == "" {
		return nil, ErrNoSession
	}
	return &sess, nil
}

// Clear forgets the stored session. Clearing an empty store is not an error.
func (s *Store) Clear() error {
	if !s.d.Has(currentKey) {
		return nil
	}
	if err := s.d.Erase(currentKey); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("erase session: %w", err)
	}
	return nil
}

// Watch signals whenever another writer saves or clears the session. The
// channel is closed once ctx is done or the watcher fails.
func (s *Store) Watch(ctx context.Context, log *slog.Logger) (<-chan struct{}, error) {
	if err := os.MkdirAll(s.base, 0o700); err != nil {
		return nil, fmt.Errorf("ensure session dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(s.base); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", s.base, err)
	}

	changed := make(chan struct{}, 1)
	go func() {
		defer close(changed)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("session watcher error", "error", err)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(evt.Name) != currentKey {
					continue
				}
				// Pending signals coalesce; the reader reloads the file anyway.
				select {
				case changed <- struct{}{}:
				default:
				}
			}
		}
	}()
	return changed, nil
}
