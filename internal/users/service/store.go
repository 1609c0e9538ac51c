package service

import (
	"context"
	"time"

	"github.com/collabforge/collabforge-backend/internal/users/domain"
)

// Store is the persistence contract for users. Implementations live in the
// repository package (in-memory and postgres).
type Store interface {
	Create(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, userID string) error
	Search(ctx context.Context, f domain.Filter) ([]domain.User, error)
}

// ReferenceChecker answers whether live records still point at a user.
// Deletion is blocked while they do.
type ReferenceChecker interface {
	UserHasPendingRequests(ctx context.Context, userID string) (bool, error)
	UserOwnsProjects(ctx context.Context, userID string) (bool, error)
}

// FeaturedChecker exposes the active promotion expiry for a user, if any.
type FeaturedChecker interface {
	ActiveUntil(ctx context.Context, userID string) (time.Time, bool, error)
}

// FeaturedRemover is optionally implemented by the featured checker. When it
// is, deleting a user also clears the user's promotion.
type FeaturedRemover interface {
	Remove(ctx context.Context, userID string) error
}
