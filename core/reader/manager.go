// ABOUTME: Registry of live reader sessions keyed by generated ids
// ABOUTME: Enforces the session cap under its own lock

package reader

import (
	"context"
	"errors"
	"sync"

	readererrors "pagereader-api/core/errors"

	"github.com/google/uuid"
)

// Manager keeps live sessions by id
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	limit    int
}

// NewManager creates an empty registry holding at most limit sessions.
// A limit of zero or less means no limit.
func NewManager(limit int) *Manager {
	return &Manager{sessions: make(map[string]*Session), limit: limit}
}

// Add registers a session and returns its id. It fails with
// errors.ErrTooManySessions when the registry is full.
func (m *Manager) Add(s *Session) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.full() {
		return "", readererrors.ErrTooManySessions
	}
	id := uuid.New().String()
	m.sessions[id] = s
	return id, nil
}

// Full reports whether Add would currently be rejected
func (m *Manager) Full() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.full()
}

func (m *Manager) full() bool {
	return m.limit > 0 && len(m.sessions) >= m.limit
}

// Get returns the session with id
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, &readererrors.NotFoundError{Resource: "session", ID: id}
	}
	return s, nil
}

// Remove closes and forgets a session
func (m *Manager) Remove(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return &readererrors.NotFoundError{Resource: "session", ID: id}
	}
	return s.Close(ctx)
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CloseAll closes every session
func (m *Manager) CloseAll(ctx context.Context) error {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	var errs []error
	for _, s := range sessions {
		if err := s.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
