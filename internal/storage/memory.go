package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/controlusuario/userbot/internal/domain"
)

// MemoryStore is an in-memory UserStore for tests and development. It keeps
// insertion order so listings are stable like the Postgres implementation.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[int64]*domain.User
	order []int64
	now   func() time.Time
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[int64]*domain.User),
		now:   time.Now,
	}
}

// FindByID returns a copy of the stored record, or ErrNotFound.
func (m *MemoryStore) FindByID(_ context.Context, id int64) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// CreateIfAbsent inserts a fresh unverified record unless one already exists.
func (m *MemoryStore) CreateIfAbsent(_ context.Context, id int64, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; ok {
		return false, nil
	}
	m.users[id] = &domain.User{
		ID:           id,
		Username:     sql.NullString{String: username, Valid: username != ""},
		RegisteredAt: m.now(),
	}
	m.order = append(m.order, id)
	return true, nil
}

// UpdateFields applies a partial update of editable fields.
func (m *MemoryStore) UpdateFields(_ context.Context, id int64, fields map[string]string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return 0, nil
	}
	for name, value := range fields {
		if _, known := columnFor[name]; !known {
			return 0, fmt.Errorf("update user %d: unknown field %q", id, name)
		}
		set := sql.NullString{String: value, Valid: true}
		switch name {
		case domain.FieldFirstName:
			u.FirstName = set
		case domain.FieldLastName:
			u.LastName = set
		case domain.FieldPlan:
			u.Plan = set
		case domain.FieldGroup:
			u.Group = set
		case domain.FieldAcademy:
			u.Academy = set
		case domain.FieldPhone:
			u.Phone = set
		}
	}
	return 1, nil
}

// SetVerified stores the phone and marks the user verified.
func (m *MemoryStore) SetVerified(_ context.Context, id int64, phone string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return 0, nil
	}
	u.Phone = sql.NullString{String: phone, Valid: true}
	u.Verified = true
	return 1, nil
}

// SetPhone stores the shared contact phone number.
func (m *MemoryStore) SetPhone(_ context.Context, id int64, phone string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return 0, nil
	}
	u.Phone = sql.NullString{String: phone, Valid: true}
	return 1, nil
}

// Count returns the number of stored users.
func (m *MemoryStore) Count(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.users)), nil
}

// List returns users in insertion order.
func (m *MemoryStore) List(_ context.Context, offset, limit int) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if offset < 0 {
		offset = 0
	}
	if offset >= len(m.order) || limit <= 0 {
		return nil, nil
	}
	end := offset + limit
	if end > len(m.order) {
		end = len(m.order)
	}
	out := make([]domain.User, 0, end-offset)
	for _, id := range m.order[offset:end] {
		out = append(out, *m.users[id])
	}
	return out, nil
}
