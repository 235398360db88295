// Package store persists the whole application state as a single
// pretty-printed JSON document on disk. The document is read in full,
// mutated in memory and written back in full on every mutation; a
// process-wide mutex serializes all read-modify-write cycles so two
// requests can never interleave partial writes.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/iliyamo/maison-order-desk/internal/model"
)

// ErrPersistence wraps any disk write failure. Read failures never
// surface: load falls open to the default state instead.
var ErrPersistence = errors.New("persistence error")

// Store owns the on-disk document. All access goes through View and
// Update; nothing outside this package touches the file.
type Store struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// New returns a store backed by the document at path. The file does
// not need to exist; it is created on the first save.
func New(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// NewWithClock is like New but with an injected clock, used by tests
// to drive session expiry.
func NewWithClock(path string, now func() time.Time) *Store {
	return &Store{path: path, now: now}
}

// load reads and parses the document. Missing file, unreadable file
// and unparseable content all fall open to the default state: the
// system must never crash on a corrupt store.
func (s *Store) load() *model.StoreState {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return model.DefaultState()
	}
	var st model.StoreState
	if err := json.Unmarshal(b, &st); err != nil {
		return model.DefaultState()
	}
	st.Normalize()
	return &st
}

// save purges expired sessions, bumps the version counter and writes
// the document pretty-printed. The parent directory is created on
// demand. Write failures come back wrapped in ErrPersistence and are
// never retried.
func (s *Store) save(st *model.StoreState) error {
	now := s.now()
	for token, sess := range st.Sessions {
		if sess == nil || sess.Expired(now) {
			delete(st.Sessions, token)
		}
	}
	st.Version++

	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode state: %v", ErrPersistence, err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create store dir: %v", ErrPersistence, err)
		}
	}
	if err := os.WriteFile(s.path, b, 0o600); err != nil {
		return fmt.Errorf("%w: write store: %v", ErrPersistence, err)
	}
	return nil
}

// View runs fn against a freshly loaded state under the store mutex.
// fn must not retain the state or anything in it past the call;
// repositories copy whatever they return.
func (s *Store) View(fn func(st *model.StoreState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.load())
}

// Update runs fn against a freshly loaded state and, if fn succeeds,
// persists the result. The mutex is held across the whole cycle, so
// concurrent mutations serialize instead of racing. If fn fails the
// mutation is discarded and nothing is written.
func (s *Store) Update(fn func(st *model.StoreState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.load()
	if err := fn(st); err != nil {
		return err
	}
	return s.save(st)
}

// Now exposes the store clock so collaborators stamp times consistently.
func (s *Store) Now() time.Time { return s.now() }
