package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/collabforge/collabforge-backend/internal/payments"
)

// Store is the promotion state the service needs. Implementations expire
// entries on their own schedule; ActiveUntil must never report an expiry in
// the past as active.
type Store interface {
	SetFeatured(ctx context.Context, userID string, until time.Time) error
	ActiveUntil(ctx context.Context, userID string) (time.Time, bool, error)
	Remove(ctx context.Context, userID string) error
	PurgeExpiredBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// UserDirectory resolves the user being promoted.
type UserDirectory interface {
	Exists(ctx context.Context, userID string) (bool, error)
}

// Charger is the fee gate in front of promotions.
type Charger interface {
	Charge(ctx context.Context, kind payments.ChargeKind, payerRef, referenceID string) (*payments.Receipt, error)
}

// ErrUserNotFound marks a promotion attempt for a user that does not exist.
var ErrUserNotFound = errors.New("user not found")

// FeaturedService sells time-boxed featured placement. Each successful charge
// sets the expiry to now plus the configured duration, replacing whatever
// expiry was there before.
type FeaturedService struct {
	store    Store
	users    UserDirectory
	gate     Charger
	duration time.Duration
}

func NewFeaturedService(store Store, users UserDirectory, gate Charger, duration time.Duration) *FeaturedService {
	if duration <= 0 {
		duration = 24 * time.Hour
	}
	return &FeaturedService{store: store, users: users, gate: gate, duration: duration}
}

type Promotion struct {
	UserID        string    `json:"user_id"`
	FeaturedUntil time.Time `json:"featured_until"`
	ReceiptID     string    `json:"receipt_id"`
}

// Promote charges the user the featured fee and marks the profile featured
// until now plus the requested duration (hours; zero means the service
// default). A failed charge changes nothing.
func (s *FeaturedService) Promote(ctx context.Context, userID string, durationHours int) (*Promotion, error) {
	if ok, err := s.users.Exists(ctx, userID); err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	} else if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}

	receipt, err := s.gate.Charge(ctx, payments.KindFeaturedProfile, userID, userID)
	if err != nil {
		return nil, err
	}

	duration := s.duration
	if durationHours > 0 {
		duration = time.Duration(durationHours) * time.Hour
	}
	until := time.Now().UTC().Add(duration)
	if err := s.store.SetFeatured(ctx, userID, until); err != nil {
		return nil, fmt.Errorf("failed to store promotion: %w", err)
	}

	log.Printf("[featured] user=%s promoted until=%s receipt=%s", userID, until.Format(time.RFC3339), receipt.ReceiptID)
	return &Promotion{UserID: userID, FeaturedUntil: until, ReceiptID: receipt.ReceiptID}, nil
}

// ActiveUntil reports the live promotion expiry for a user, if any. It also
// satisfies the featured lookup the user profile service needs.
func (s *FeaturedService) ActiveUntil(ctx context.Context, userID string) (time.Time, bool, error) {
	return s.store.ActiveUntil(ctx, userID)
}

// Remove clears any promotion for the user, live or expired. Invoked when a
// profile is deleted.
func (s *FeaturedService) Remove(ctx context.Context, userID string) error {
	return s.store.Remove(ctx, userID)
}

func (s *FeaturedService) IsFeatured(ctx context.Context, userID string) (bool, error) {
	_, active, err := s.store.ActiveUntil(ctx, userID)
	return active, err
}

// PurgeExpired removes promotions already past their expiry. Stores with
// native TTLs make this a no-op.
func (s *FeaturedService) PurgeExpired(ctx context.Context) (int, error) {
	return s.store.PurgeExpiredBefore(ctx, time.Now().UTC())
}
