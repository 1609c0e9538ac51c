package service

import (
	"context"
	"time"

	"github.com/collabforge/collabforge-backend/internal/collaboration/domain"
	"github.com/collabforge/collabforge-backend/internal/payments"
)

// Store is the persistence contract the workflow needs. Respond must be
// atomic: of two concurrent callers on the same pending request, exactly one
// succeeds and the other gets ErrInvalidTransition.
//
// Create runs revalidate (when non-nil) as part of the write itself, so a
// sender, recipient, or project that vanished between the caller's checks and
// the commit fails the insert instead of leaving a dangling request. The
// in-memory store runs it under its write lock; the postgres store leans on
// foreign keys instead and may skip the callback.
type Store interface {
	Create(ctx context.Context, r *domain.Request, revalidate func(context.Context) error) error
	Get(ctx context.Context, requestID string) (*domain.Request, error)
	Respond(ctx context.Context, requestID string, decision domain.Status, respondedAt time.Time) (*domain.Request, error)
	ListForUser(ctx context.Context, f domain.Filter) ([]domain.Request, error)
}

// UserDirectory resolves user references before a request is committed.
type UserDirectory interface {
	Exists(ctx context.Context, userID string) (bool, error)
}

// ProjectDirectory resolves project references and records accepted
// collaborators.
type ProjectDirectory interface {
	Exists(ctx context.Context, projectID string) (bool, error)
	AddCollaborator(ctx context.Context, projectID, userID string) error
}

// Charger is the fee gate in front of request creation.
type Charger interface {
	Charge(ctx context.Context, kind payments.ChargeKind, payerRef, referenceID string) (*payments.Receipt, error)
}
