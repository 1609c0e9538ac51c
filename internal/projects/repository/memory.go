package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/collabforge/collabforge-backend/internal/projects/domain"
	"github.com/collabforge/collabforge-backend/internal/search"
)

// Memory is an in-memory project store iterating in creation order.
type Memory struct {
	mu       sync.RWMutex
	projects map[string]domain.Project
	order    []string
}

func NewMemory() *Memory {
	return &Memory{projects: make(map[string]domain.Project)}
}

func (m *Memory) Create(ctx context.Context, p *domain.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[p.ProjectID]; ok {
		return domain.ErrInvalidArgument
	}
	m.projects[p.ProjectID] = *p
	m.order = append(m.order, p.ProjectID)
	return nil
}

func (m *Memory) Get(ctx context.Context, projectID string) (*domain.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.projects[projectID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (m *Memory) Update(ctx context.Context, p *domain.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[p.ProjectID]; !ok {
		return domain.ErrNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	m.projects[p.ProjectID] = *p
	return nil
}

func (m *Memory) Delete(ctx context.Context, projectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[projectID]; !ok {
		return domain.ErrNotFound
	}
	delete(m.projects, projectID)
	for i, id := range m.order {
		if id == projectID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// AddCollaborator adds userID to the project's collaborator set, once.
func (m *Memory) AddCollaborator(ctx context.Context, projectID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.projects[projectID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, c := range p.Collaborators {
		if c == userID {
			return nil
		}
	}
	p.Collaborators = append(p.Collaborators, userID)
	p.UpdatedAt = time.Now().UTC()
	m.projects[projectID] = p
	return nil
}

func (m *Memory) Search(ctx context.Context, f domain.Filter) ([]domain.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Project, 0, len(m.order))
	for _, id := range m.order {
		p := m.projects[id]
		if !search.MatchText(f.Query, p.Name, p.Description) {
			continue
		}
		if !search.MatchAnySkill(f.Skills, p.RequiredSkills) {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.OwnerID != "" && p.OwnerID != f.OwnerID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// ListByOwner returns the owner's projects, most recent first.
func (m *Memory) ListByOwner(ctx context.Context, ownerID string) ([]domain.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Project, 0, 8)
	for _, id := range m.order {
		if p := m.projects[id]; p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// OwnerHasProjects reports whether any project is owned by ownerID.
func (m *Memory) OwnerHasProjects(ctx context.Context, ownerID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.projects {
		if p.OwnerID == ownerID {
			return true, nil
		}
	}
	return false, nil
}
