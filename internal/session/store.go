package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/viva/internal/i18n"
)

// ErrNotFound is returned when a session id is unknown.
var ErrNotFound = errors.New("session not found")

// Store keeps sessions in memory for the life of the process. Sessions are
// never evicted.
//
// A *Session returned by the store is shared with other readers and must
// not be mutated; mutate a Clone and Save it.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	locks    keyedMutex

	now   func() time.Time
	newID func() string
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides session id generation.
func WithIDGenerator(newID func() string) StoreOption {
	return func(s *Store) { s.newID = newID }
}

// NewStore creates an empty Store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		locks:    keyedMutex{entries: make(map[string]*lockEntry)},
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores and returns a fresh session with a new id.
func (s *Store) Create(lang i18n.Lang) *Session {
	sess := New(s.newID(), lang, s.now())

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns the session with id.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// GetOrCreate returns the session with id, or a new session when id is
// empty or unknown. The new session gets a fresh id, not the one asked for.
func (s *Store) GetOrCreate(id string, lang i18n.Lang) *Session {
	if id != "" {
		if sess, ok := s.Get(id); ok {
			return sess
		}
	}
	return s.Create(lang)
}

// Save upserts sess keyed by its id.
func (s *Store) Save(sess *Session) {
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
}

// Delete removes the session with id. It reports whether one existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

// Reset discards the session with id, if any, and creates a fresh one. It
// waits for an in-flight turn on id to finish first.
func (s *Store) Reset(id string, lang i18n.Lang) *Session {
	if id != "" {
		unlock := s.Lock(id)
		s.Delete(id)
		unlock()
	}
	return s.Create(lang)
}

// Lock acquires the turn lock for id and returns its release function.
// Turns on the same id are serialized; different ids never contend.
func (s *Store) Lock(id string) (unlock func()) {
	return s.locks.lock(id)
}

// Len returns the number of stored sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
