package session

import "sync"

// Store gives exclusive per-administrator access to editing sessions.
type Store interface {
	// Get returns a copy of the active session for the administrator.
	Get(adminID int64) (Session, bool)
	// Put stores the session, replacing any previous one for the same admin.
	Put(s Session)
	// Clear removes the administrator's session if present.
	Clear(adminID int64)
	// Active reports whether the administrator has a session in progress.
	Active(adminID int64) bool
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

// NewMemoryStore constructs the in-memory Store implementation.
func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[int64]Session)}
}

func (m *memoryStore) Get(adminID int64) (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[adminID]
	return s, ok
}

func (m *memoryStore) Put(s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.AdminID] = s
}

func (m *memoryStore) Clear(adminID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, adminID)
}

func (m *memoryStore) Active(adminID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.sessions[adminID]
	return ok
}
