package bootstrap

import (
	"context"
	"errors"

	usersdomain "github.com/collabforge/collabforge-backend/internal/users/domain"
)

// PendingRequestSource is implemented by collaboration stores; it answers
// whether pending requests still reference a user or project.
type PendingRequestSource interface {
	HasPendingForUser(ctx context.Context, userID string) (bool, error)
	HasPendingForProject(ctx context.Context, projectID string) (bool, error)
}

// OwnershipSource is implemented by project stores.
type OwnershipSource interface {
	OwnerHasProjects(ctx context.Context, ownerID string) (bool, error)
}

// UserReferences adapts the collaboration and project stores into the
// reference check the user service runs before a delete.
type UserReferences struct {
	Requests PendingRequestSource
	Projects OwnershipSource
}

func (r UserReferences) UserHasPendingRequests(ctx context.Context, userID string) (bool, error) {
	return r.Requests.HasPendingForUser(ctx, userID)
}

func (r UserReferences) UserOwnsProjects(ctx context.Context, userID string) (bool, error) {
	return r.Projects.OwnerHasProjects(ctx, userID)
}

// UserLookup is the read side of a user store.
type UserLookup interface {
	Get(ctx context.Context, userID string) (*usersdomain.User, error)
}

// StoreUserDirectory answers existence checks straight off the user store.
// The featured service uses it so it can be built before the user service.
type StoreUserDirectory struct {
	Users UserLookup
}

func (d StoreUserDirectory) Exists(ctx context.Context, userID string) (bool, error) {
	_, err := d.Users.Get(ctx, userID)
	if errors.Is(err, usersdomain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ProjectReferences adapts the collaboration store into the reference check
// the project service runs before a delete.
type ProjectReferences struct {
	Requests PendingRequestSource
}

func (r ProjectReferences) ProjectHasPendingRequests(ctx context.Context, projectID string) (bool, error) {
	return r.Requests.HasPendingForProject(ctx, projectID)
}
