package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkarhu/deduction-api/internal/domain"
)

// memstore is a development-only in-memory store used when no Redis is
// configured.
type memstore struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

func NewMemoryStore() Store {
	return &memstore{users: make(map[string]*domain.User)}
}

func (m *memstore) CreateUser(ctx context.Context, name string) (*domain.User, error) {
	u := &domain.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		CurrentStage: 1,
		JoinedAt:     time.Now().UTC(),
	}
	m.mu.Lock()
	m.users[u.ID] = u
	m.mu.Unlock()
	copy := *u
	return &copy, nil
}

func (m *memstore) GetUser(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	copy := *u
	return &copy, nil
}

func (m *memstore) UpdateUserStage(ctx context.Context, id string, stage int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrUnknownUser
	}
	u.CurrentStage = stage
	return nil
}

func (m *memstore) DeleteUser(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.users, id)
	m.mu.Unlock()
	return nil
}

func (m *memstore) FindUserIDByName(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	m.mu.RLock()
	defer m.mu.RUnlock()
	var oldest *domain.User
	for _, u := range m.users {
		if u.Name != name {
			continue
		}
		if oldest == nil || u.JoinedAt.Before(oldest.JoinedAt) {
			oldest = u
		}
	}
	if oldest == nil {
		return "", nil
	}
	return oldest.ID, nil
}

func (m *memstore) Close() error { return nil }
