package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/collabforge/collabforge-backend/internal/collaboration/domain"
)

// Memory is an in-memory collaboration request store. All mutations run
// under the store mutex, so two concurrent responders on the same request
// cannot both observe pending: the second check-and-set fails with
// ErrInvalidTransition.
type Memory struct {
	mu       sync.RWMutex
	requests map[string]domain.Request
	order    []string
}

func NewMemory() *Memory {
	return &Memory{requests: make(map[string]domain.Request)}
}

// Create inserts a pending request. The revalidate callback runs under the
// write lock, so reference checks and the insert commit as one step with
// respect to other operations on this store.
func (m *Memory) Create(ctx context.Context, r *domain.Request, revalidate func(context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if revalidate != nil {
		if err := revalidate(ctx); err != nil {
			return err
		}
	}
	if _, ok := m.requests[r.RequestID]; ok {
		return domain.ErrInvalidArgument
	}
	m.requests[r.RequestID] = *r
	m.order = append(m.order, r.RequestID)
	return nil
}

func (m *Memory) Get(ctx context.Context, requestID string) (*domain.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.requests[requestID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := r
	return &cp, nil
}

// Respond performs the one-way pending → terminal transition.
func (m *Memory) Respond(ctx context.Context, requestID string, decision domain.Status, respondedAt time.Time) (*domain.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.requests[requestID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if r.Status != domain.StatusPending {
		return nil, domain.ErrInvalidTransition
	}

	r.Status = decision
	r.RespondedAt = &respondedAt
	m.requests[requestID] = r

	cp := r
	return &cp, nil
}

// ListForUser returns the user's requests in the given role, most recent
// first, optionally narrowed by status.
func (m *Memory) ListForUser(ctx context.Context, f domain.Filter) ([]domain.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Request, 0, 8)
	for _, id := range m.order {
		r := m.requests[id]
		switch f.Role {
		case domain.RoleSender:
			if r.SenderID != f.UserID {
				continue
			}
		case domain.RoleRecipient:
			if r.RecipientID != f.UserID {
				continue
			}
		default:
			if r.SenderID != f.UserID && r.RecipientID != f.UserID {
				continue
			}
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) HasPendingForUser(ctx context.Context, userID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.requests {
		if r.Status == domain.StatusPending && (r.SenderID == userID || r.RecipientID == userID) {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) HasPendingForProject(ctx context.Context, projectID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.requests {
		if r.Status == domain.StatusPending && r.ProjectID == projectID {
			return true, nil
		}
	}
	return false, nil
}
