package repository

import (
	"context"
	"sync"
	"time"

	"github.com/collabforge/collabforge-backend/internal/search"
	"github.com/collabforge/collabforge-backend/internal/users/domain"
)

// Memory is an in-memory user store. Records iterate in creation order,
// matching the default result ordering of searches.
type Memory struct {
	mu    sync.RWMutex
	users map[string]domain.User
	order []string
}

func NewMemory() *Memory {
	return &Memory{users: make(map[string]domain.User)}
}

func (m *Memory) Create(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[u.UserID]; ok {
		return domain.ErrDuplicate
	}
	m.users[u.UserID] = *u
	m.order = append(m.order, u.UserID)
	return nil
}

func (m *Memory) Get(ctx context.Context, userID string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := u
	return &cp, nil
}

func (m *Memory) Update(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[u.UserID]; !ok {
		return domain.ErrNotFound
	}
	u.UpdatedAt = time.Now().UTC()
	m.users[u.UserID] = *u
	return nil
}

func (m *Memory) Delete(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[userID]; !ok {
		return domain.ErrNotFound
	}
	delete(m.users, userID)
	for i, id := range m.order {
		if id == userID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) Search(ctx context.Context, f domain.Filter) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.User, 0, len(m.order))
	for _, id := range m.order {
		u := m.users[id]
		fields := append([]string{u.DisplayName, u.Bio}, u.Skills...)
		if !search.MatchText(f.Query, fields...) {
			continue
		}
		if !search.MatchAnySkill(f.Skills, u.Skills) {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}
