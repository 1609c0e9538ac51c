package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collabforge/collabforge-backend/internal/users/domain"
	"github.com/collabforge/collabforge-backend/internal/users/repository"
)

type fakeRefs struct {
	pending bool
	owns    bool
}

func (f fakeRefs) UserHasPendingRequests(ctx context.Context, userID string) (bool, error) {
	return f.pending, nil
}

func (f fakeRefs) UserOwnsProjects(ctx context.Context, userID string) (bool, error) {
	return f.owns, nil
}

type fakeFeatured struct {
	until map[string]time.Time
}

func (f fakeFeatured) ActiveUntil(ctx context.Context, userID string) (time.Time, bool, error) {
	t, ok := f.until[userID]
	return t, ok, nil
}

type removableFeatured struct {
	until   map[string]time.Time
	removed []string
}

func (f *removableFeatured) ActiveUntil(ctx context.Context, userID string) (time.Time, bool, error) {
	t, ok := f.until[userID]
	return t, ok, nil
}

func (f *removableFeatured) Remove(ctx context.Context, userID string) error {
	delete(f.until, userID)
	f.removed = append(f.removed, userID)
	return nil
}

func seedUser(t *testing.T, svc *UserService, id, name, bio string, skills ...string) *domain.User {
	t.Helper()
	u, err := svc.Create(context.Background(), CreateUserInput{
		UserID:      id,
		DisplayName: name,
		Bio:         bio,
		Skills:      skills,
	})
	require.NoError(t, err)
	return u
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("creates with normalized skills", func(t *testing.T) {
		svc := NewUserService(repository.NewMemory(), nil, nil)

		u, err := svc.Create(ctx, CreateUserInput{
			UserID:      "alice",
			DisplayName: "  Alice Chen  ",
			Skills:      []string{"React", "react", "Solidity"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Alice Chen", u.DisplayName)
		assert.Equal(t, []string{"React", "Solidity"}, u.Skills)
		assert.False(t, u.CreatedAt.IsZero())
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		svc := NewUserService(repository.NewMemory(), nil, nil)
		seedUser(t, svc, "alice", "Alice", "")

		_, err := svc.Create(ctx, CreateUserInput{UserID: "alice", DisplayName: "Other"})
		require.ErrorIs(t, err, domain.ErrDuplicate)
	})

	t.Run("enforces profile bounds", func(t *testing.T) {
		svc := NewUserService(repository.NewMemory(), nil, nil)

		_, err := svc.Create(ctx, CreateUserInput{UserID: "alice", DisplayName: ""})
		require.ErrorIs(t, err, domain.ErrInvalidArgument)

		_, err = svc.Create(ctx, CreateUserInput{
			UserID:      "alice",
			DisplayName: "Alice",
			Bio:         strings.Repeat("x", domain.MaxBioLength+1),
		})
		require.ErrorIs(t, err, domain.ErrInvalidArgument)

		tooMany := make([]string, domain.MaxSkills+1)
		for i := range tooMany {
			tooMany[i] = string(rune('a' + i))
		}
		_, err = svc.Create(ctx, CreateUserInput{UserID: "alice", DisplayName: "Alice", Skills: tooMany})
		require.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(repository.NewMemory(), nil, nil)
	seedUser(t, svc, "alice", "Alice", "old bio", "React")

	t.Run("applies only provided fields", func(t *testing.T) {
		newBio := "new bio"
		u, err := svc.Update(ctx, "alice", domain.Update{Bio: &newBio})
		require.NoError(t, err)
		assert.Equal(t, "new bio", u.Bio)
		assert.Equal(t, "Alice", u.DisplayName)
		assert.Equal(t, []string{"React"}, u.Skills)
	})

	t.Run("validates the result", func(t *testing.T) {
		empty := ""
		_, err := svc.Update(ctx, "alice", domain.Update{DisplayName: &empty})
		require.ErrorIs(t, err, domain.ErrInvalidArgument)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Update(ctx, "nobody", domain.Update{})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("blocked while pending requests reference the user", func(t *testing.T) {
		svc := NewUserService(repository.NewMemory(), fakeRefs{pending: true}, nil)
		seedUser(t, svc, "alice", "Alice", "")

		err := svc.Delete(ctx, "alice")
		require.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("blocked while the user owns projects", func(t *testing.T) {
		svc := NewUserService(repository.NewMemory(), fakeRefs{owns: true}, nil)
		seedUser(t, svc, "alice", "Alice", "")

		err := svc.Delete(ctx, "alice")
		require.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("deletes when unreferenced", func(t *testing.T) {
		svc := NewUserService(repository.NewMemory(), fakeRefs{}, nil)
		seedUser(t, svc, "alice", "Alice", "")

		require.NoError(t, svc.Delete(ctx, "alice"))
		_, err := svc.Get(ctx, "alice")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("clears the promotion alongside the profile", func(t *testing.T) {
		featured := &removableFeatured{until: map[string]time.Time{"alice": time.Now().Add(time.Hour)}}
		svc := NewUserService(repository.NewMemory(), fakeRefs{}, featured)
		seedUser(t, svc, "alice", "Alice", "")

		require.NoError(t, svc.Delete(ctx, "alice"))
		assert.Equal(t, []string{"alice"}, featured.removed)
	})
}

func TestSearchUsers(t *testing.T) {
	ctx := context.Background()

	t.Run("matches any requested skill", func(t *testing.T) {
		svc := NewUserService(repository.NewMemory(), nil, nil)
		seedUser(t, svc, "alice", "Alice", "DeFi developer", "React", "Solidity")
		seedUser(t, svc, "bob", "Bob", "designer", "Figma")

		got, err := svc.Search(ctx, "", []string{"solidity", "rust"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "alice", got[0].UserID)
	})

	t.Run("text query spans name bio and skills", func(t *testing.T) {
		svc := NewUserService(repository.NewMemory(), nil, nil)
		seedUser(t, svc, "alice", "Alice", "DeFi developer", "React")
		seedUser(t, svc, "bob", "Bob", "designer", "Figma")

		got, err := svc.Search(ctx, "figma", nil)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "bob", got[0].UserID)
	})

	t.Run("featured users surface first", func(t *testing.T) {
		until := time.Now().Add(time.Hour)
		featured := fakeFeatured{until: map[string]time.Time{"carol": until}}
		svc := NewUserService(repository.NewMemory(), nil, featured)
		seedUser(t, svc, "alice", "Alice", "dev")
		seedUser(t, svc, "bob", "Bob", "dev")
		seedUser(t, svc, "carol", "Carol", "dev")

		got, err := svc.Search(ctx, "", nil)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "carol", got[0].UserID)
		require.NotNil(t, got[0].FeaturedUntil)
		// The remaining users keep creation order.
		assert.Equal(t, "alice", got[1].UserID)
		assert.Equal(t, "bob", got[2].UserID)
	})
}

func TestGetAttachesFeatured(t *testing.T) {
	ctx := context.Background()
	until := time.Now().Add(time.Hour)
	svc := NewUserService(repository.NewMemory(), nil, fakeFeatured{until: map[string]time.Time{"alice": until}})
	seedUser(t, svc, "alice", "Alice", "")

	u, err := svc.Get(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, u.FeaturedUntil)
	assert.Equal(t, until, *u.FeaturedUntil)
}
