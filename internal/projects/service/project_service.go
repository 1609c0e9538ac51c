package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/collabforge/collabforge-backend/internal/ids"
	"github.com/collabforge/collabforge-backend/internal/projects/domain"
	usersdomain "github.com/collabforge/collabforge-backend/internal/users/domain"
)

// ProjectService handles project business logic
type ProjectService struct {
	store Store
	users UserDirectory
	refs  ReferenceChecker
}

// NewProjectService creates a new project service. refs is optional; without
// it, deletes are not blocked on referencing collaboration requests.
func NewProjectService(store Store, users UserDirectory, refs ReferenceChecker) *ProjectService {
	return &ProjectService{
		store: store,
		users: users,
		refs:  refs,
	}
}

type CreateProjectInput struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	RequiredSkills []string `json:"required_skills"`
	Budget         string   `json:"budget"`
	Deadline       string   `json:"deadline"`
}

// Create registers a new project owned by ownerID. New projects start active.
func (s *ProjectService) Create(ctx context.Context, ownerID string, in CreateProjectInput) (*domain.Project, error) {
	exists, err := s.users.Exists(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("resolve owner: %w", err)
	}
	if !exists {
		return nil, domain.ErrOwnerNotFound
	}

	projectID, err := ids.New("proj")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &domain.Project{
		ProjectID:      projectID,
		Name:           strings.TrimSpace(in.Name),
		Description:    strings.TrimSpace(in.Description),
		RequiredSkills: usersdomain.DedupSkills(in.RequiredSkills),
		Status:         domain.StatusActive,
		OwnerID:        ownerID,
		Collaborators:  []string{},
		Budget:         in.Budget,
		Deadline:       in.Deadline,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if p.RequiredSkills == nil {
		p.RequiredSkills = []string{}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}

	log.Printf("[projects] created project_id=%s owner=%s", p.ProjectID, ownerID)
	return p, nil
}

func (s *ProjectService) Get(ctx context.Context, projectID string) (*domain.Project, error) {
	return s.store.Get(ctx, projectID)
}

// Exists reports whether the project resolves. Used by the collaboration
// workflow to validate project-scoped requests.
func (s *ProjectService) Exists(ctx context.Context, projectID string) (bool, error) {
	_, err := s.store.Get(ctx, projectID)
	if err != nil {
		if err == domain.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// AddCollaborator records userID as a collaborator on the project. Invoked by
// the collaboration workflow when a project-scoped request is accepted.
func (s *ProjectService) AddCollaborator(ctx context.Context, projectID, userID string) error {
	return s.store.AddCollaborator(ctx, projectID, userID)
}

// Update applies edits to a project owned by callerID. A project owned by
// someone else is reported as not found, never as a different error.
func (s *ProjectService) Update(ctx context.Context, callerID, projectID string, upd domain.Update) (*domain.Project, error) {
	p, err := s.store.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != callerID {
		return nil, domain.ErrNotFound
	}

	if upd.Name != nil {
		p.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Description != nil {
		p.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.RequiredSkills != nil {
		p.RequiredSkills = usersdomain.DedupSkills(upd.RequiredSkills)
	}
	if upd.Status != nil {
		p.Status = *upd.Status
	}
	if upd.Budget != nil {
		p.Budget = *upd.Budget
	}
	if upd.Deadline != nil {
		p.Deadline = *upd.Deadline
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a project owned by callerID. Deletion is blocked while
// pending collaboration requests reference the project.
func (s *ProjectService) Delete(ctx context.Context, callerID, projectID string) error {
	p, err := s.store.Get(ctx, projectID)
	if err != nil {
		return err
	}
	if p.OwnerID != callerID {
		return domain.ErrNotFound
	}

	if s.refs != nil {
		pending, err := s.refs.ProjectHasPendingRequests(ctx, projectID)
		if err != nil {
			return fmt.Errorf("check pending requests: %w", err)
		}
		if pending {
			return fmt.Errorf("%w: pending collaboration requests", domain.ErrConflict)
		}
	}

	if err := s.store.Delete(ctx, projectID); err != nil {
		return err
	}
	log.Printf("[projects] deleted project_id=%s", projectID)
	return nil
}

// Search returns projects matching the query, skill filter and status filter.
func (s *ProjectService) Search(ctx context.Context, f domain.Filter) ([]domain.Project, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidArgument, f.Status)
	}
	return s.store.Search(ctx, f)
}

// ListByOwner returns the owner's projects, most recent first.
func (s *ProjectService) ListByOwner(ctx context.Context, ownerID string) ([]domain.Project, error) {
	return s.store.ListByOwner(ctx, ownerID)
}
