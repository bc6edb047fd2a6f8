package editor

import (
	"errors"
	"sync"
)

// ErrSessionNotFound is returned when a session ID does not resolve.
var ErrSessionNotFound = errors.New("editor session not found")

// Manager owns the live editing sessions. Sessions are created on mount,
// looked up per request, and closed on teardown.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

func (m *Manager) Create() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess := NewSession()
	m.sessions[sess.ID] = sess
	return sess
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Dispatch applies an action to a session under the manager's lock, so
// concurrent requests against one session serialize.
func (m *Manager) Dispatch(id string, a Action) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if err := s.Apply(a); err != nil {
		return nil, err
	}
	return s, nil
}

func (m *Manager) Close(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
