package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/collabforge/collabforge-backend/internal/users/domain"
)

// UserService handles profile business logic
type UserService struct {
	store    Store
	refs     ReferenceChecker
	featured FeaturedChecker
}

// NewUserService creates a new user service. refs and featured are optional;
// without refs, deletes are not blocked on referencing records, and without
// featured, search ignores promotions.
func NewUserService(store Store, refs ReferenceChecker, featured FeaturedChecker) *UserService {
	return &UserService{
		store:    store,
		refs:     refs,
		featured: featured,
	}
}

type CreateUserInput struct {
	UserID        string   `json:"user_id"`
	DisplayName   string   `json:"display_name"`
	Bio           string   `json:"bio"`
	AvatarURL     string   `json:"avatar_url"`
	Skills        []string `json:"skills"`
	PortfolioURLs []string `json:"portfolio_urls"`
}

// Create registers a new user profile
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	now := time.Now().UTC()
	u := &domain.User{
		UserID:        strings.TrimSpace(in.UserID),
		DisplayName:   strings.TrimSpace(in.DisplayName),
		Bio:           in.Bio,
		AvatarURL:     in.AvatarURL,
		Skills:        domain.DedupSkills(in.Skills),
		PortfolioURLs: in.PortfolioURLs,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if u.Skills == nil {
		u.Skills = []string{}
	}
	if u.PortfolioURLs == nil {
		u.PortfolioURLs = []string{}
	}

	if err := u.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}

	log.Printf("[users] created user_id=%s", u.UserID)
	return u, nil
}

// Get returns a user with the current featured expiry attached
func (s *UserService) Get(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.attachFeatured(ctx, u)
	return u, nil
}

// Exists reports whether the user resolves. Used by the project and
// collaboration services to validate references.
func (s *UserService) Exists(ctx context.Context, userID string) (bool, error) {
	_, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Update applies profile edits. The user identifier itself is immutable.
func (s *UserService) Update(ctx context.Context, userID string, upd domain.Update) (*domain.User, error) {
	u, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.DisplayName != nil {
		u.DisplayName = strings.TrimSpace(*upd.DisplayName)
	}
	if upd.Bio != nil {
		u.Bio = *upd.Bio
	}
	if upd.AvatarURL != nil {
		u.AvatarURL = *upd.AvatarURL
	}
	if upd.Skills != nil {
		u.Skills = domain.DedupSkills(upd.Skills)
	}
	if upd.PortfolioURLs != nil {
		u.PortfolioURLs = upd.PortfolioURLs
	}

	if err := u.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, u); err != nil {
		return nil, err
	}
	s.attachFeatured(ctx, u)
	return u, nil
}

// Delete removes a user. Deletion is blocked while pending collaboration
// requests reference the user or the user still owns projects.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	if _, err := s.store.Get(ctx, userID); err != nil {
		return err
	}

	if s.refs != nil {
		pending, err := s.refs.UserHasPendingRequests(ctx, userID)
		if err != nil {
			return fmt.Errorf("check pending requests: %w", err)
		}
		if pending {
			return fmt.Errorf("%w: pending collaboration requests", domain.ErrConflict)
		}

		owns, err := s.refs.UserOwnsProjects(ctx, userID)
		if err != nil {
			return fmt.Errorf("check owned projects: %w", err)
		}
		if owns {
			return fmt.Errorf("%w: owned projects", domain.ErrConflict)
		}
	}

	if err := s.store.Delete(ctx, userID); err != nil {
		return err
	}

	if rem, ok := s.featured.(FeaturedRemover); ok {
		if err := rem.Remove(ctx, userID); err != nil {
			log.Printf("[users] failed to clear promotion user_id=%s: %v", userID, err)
		}
	}

	log.Printf("[users] deleted user_id=%s", userID)
	return nil
}

// Search returns users matching the free-text query and skill filter.
// Currently featured users are surfaced first; within each group the store's
// creation order is preserved.
func (s *UserService) Search(ctx context.Context, query string, skills []string) ([]domain.User, error) {
	users, err := s.store.Search(ctx, domain.Filter{Query: query, Skills: skills})
	if err != nil {
		return nil, err
	}

	if s.featured == nil {
		return users, nil
	}

	promoted := make([]domain.User, 0, len(users))
	rest := make([]domain.User, 0, len(users))
	for i := range users {
		s.attachFeatured(ctx, &users[i])
		if users[i].FeaturedUntil != nil {
			promoted = append(promoted, users[i])
		} else {
			rest = append(rest, users[i])
		}
	}
	return append(promoted, rest...), nil
}

func (s *UserService) attachFeatured(ctx context.Context, u *domain.User) {
	if s.featured == nil {
		return
	}
	until, ok, err := s.featured.ActiveUntil(ctx, u.UserID)
	if err != nil {
		log.Printf("[users] featured lookup failed user_id=%s: %v", u.UserID, err)
		return
	}
	if ok {
		u.FeaturedUntil = &until
	}
}
