package service

import (
	"context"

	"github.com/collabforge/collabforge-backend/internal/projects/domain"
)

// Store is the persistence contract for projects.
type Store interface {
	Create(ctx context.Context, p *domain.Project) error
	Get(ctx context.Context, projectID string) (*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, projectID string) error
	AddCollaborator(ctx context.Context, projectID, userID string) error
	Search(ctx context.Context, f domain.Filter) ([]domain.Project, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Project, error)
}

// UserDirectory resolves user identifiers; project owners must exist.
type UserDirectory interface {
	Exists(ctx context.Context, userID string) (bool, error)
}

// ReferenceChecker answers whether pending collaboration requests still
// reference a project.
type ReferenceChecker interface {
	ProjectHasPendingRequests(ctx context.Context, projectID string) (bool, error)
}
