package repository

import (
	"sync"
	"time"

	"github.com/iliyamo/maison-order-desk/internal/model"
	"github.com/iliyamo/maison-order-desk/internal/store"
)

// SessionStore is the injected session backend. The auth repository
// never touches session state directly; it goes through this
// interface so the backend (persisted document or in-memory map) is a
// configuration choice rather than a hard-coded global.
type SessionStore interface {
	// Get returns a copy of the session for token, or ErrAuthFailed
	// when the token is unknown or the session has expired.
	Get(token string) (*model.Session, error)
	// Put inserts or replaces a session.
	Put(sess *model.Session) error
	// Delete removes a session. Deleting an absent token is not an
	// error; logout is idempotent.
	Delete(token string) error
}

// PersistedSessionStore keeps sessions inside the JSON document, so
// they survive a restart. Expired entries are swept by the store on
// every save.
type PersistedSessionStore struct {
	Store *store.Store
}

// NewPersistedSessionStore wires sessions into the document store.
func NewPersistedSessionStore(s *store.Store) *PersistedSessionStore {
	return &PersistedSessionStore{Store: s}
}

func (p *PersistedSessionStore) Get(token string) (*model.Session, error) {
	var sess *model.Session
	err := p.Store.View(func(st *model.StoreState) error {
		s, ok := st.Sessions[token]
		if !ok || s.Expired(p.Store.Now()) {
			return ErrAuthFailed
		}
		sess = s.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (p *PersistedSessionStore) Put(sess *model.Session) error {
	return p.Store.Update(func(st *model.StoreState) error {
		st.Sessions[sess.Token] = sess.Clone()
		return nil
	})
}

func (p *PersistedSessionStore) Delete(token string) error {
	return p.Store.Update(func(st *model.StoreState) error {
		delete(st.Sessions, token)
		return nil
	})
}

// MemorySessionStore keeps sessions in a process-local map. Sessions
// are lost on restart; some deployments prefer that over writing the
// document on every authenticated request.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
	now      func() time.Time
}

// NewMemorySessionStore returns an empty in-memory session store.
func NewMemorySessionStore(now func() time.Time) *MemorySessionStore {
	if now == nil {
		now = time.Now
	}
	return &MemorySessionStore{sessions: map[string]*model.Session{}, now: now}
}

func (m *MemorySessionStore) Get(token string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil, ErrAuthFailed
	}
	if s.Expired(m.now()) {
		delete(m.sessions, token)
		return nil, ErrAuthFailed
	}
	return s.Clone(), nil
}

func (m *MemorySessionStore) Put(sess *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Opportunistically drop anything already expired; there is no
	// background sweeper.
	now := m.now()
	for token, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, token)
		}
	}
	m.sessions[sess.Token] = sess.Clone()
	return nil
}

func (m *MemorySessionStore) Delete(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}
