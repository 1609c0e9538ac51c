package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collabforge/collabforge-backend/internal/featured/repository"
	"github.com/collabforge/collabforge-backend/internal/payments"
)

type fakeUsers struct {
	known map[string]bool
}

func (f fakeUsers) Exists(ctx context.Context, userID string) (bool, error) {
	return f.known[userID], nil
}

type fakeCharger struct {
	err     error
	charges int
}

func (f *fakeCharger) Charge(ctx context.Context, kind payments.ChargeKind, payerRef, referenceID string) (*payments.Receipt, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.charges++
	return &payments.Receipt{ReceiptID: "rcpt_featured", Kind: kind, PayerRef: payerRef}, nil
}

func newTestService(t *testing.T, duration time.Duration) (*FeaturedService, *fakeCharger) {
	t.Helper()
	charger := &fakeCharger{}
	users := fakeUsers{known: map[string]bool{"alice": true}}
	svc := NewFeaturedService(repository.NewMemory(), users, charger, duration)
	return svc, charger
}

func TestPromote(t *testing.T) {
	ctx := context.Background()

	t.Run("charges and sets expiry", func(t *testing.T) {
		svc, charger := newTestService(t, 24*time.Hour)

		promo, err := svc.Promote(ctx, "alice", 0)
		require.NoError(t, err)

		assert.Equal(t, "rcpt_featured", promo.ReceiptID)
		assert.WithinDuration(t, time.Now().Add(24*time.Hour), promo.FeaturedUntil, 5*time.Second)
		assert.Equal(t, 1, charger.charges)

		featured, err := svc.IsFeatured(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, featured)
	})

	t.Run("failed charge leaves profile unfeatured", func(t *testing.T) {
		svc, charger := newTestService(t, 24*time.Hour)
		charger.err = payments.ErrPaymentFailed

		_, err := svc.Promote(ctx, "alice", 0)
		require.ErrorIs(t, err, payments.ErrPaymentFailed)

		featured, err := svc.IsFeatured(ctx, "alice")
		require.NoError(t, err)
		assert.False(t, featured)
	})

	t.Run("unknown user is not charged", func(t *testing.T) {
		svc, charger := newTestService(t, 24*time.Hour)

		_, err := svc.Promote(ctx, "nobody", 0)
		require.ErrorIs(t, err, ErrUserNotFound)
		assert.Zero(t, charger.charges)
	})

	t.Run("repeat promotion replaces the expiry", func(t *testing.T) {
		svc, _ := newTestService(t, time.Hour)

		first, err := svc.Promote(ctx, "alice", 0)
		require.NoError(t, err)
		second, err := svc.Promote(ctx, "alice", 0)
		require.NoError(t, err)

		// Not stacked: the new window starts from now, not from the old expiry.
		assert.True(t, second.FeaturedUntil.Before(first.FeaturedUntil.Add(time.Hour)))

		until, active, err := svc.ActiveUntil(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, active)
		assert.Equal(t, second.FeaturedUntil, until)
	})

	t.Run("zero duration falls back to a day", func(t *testing.T) {
		svc, _ := newTestService(t, 0)

		promo, err := svc.Promote(ctx, "alice", 0)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(24*time.Hour), promo.FeaturedUntil, 5*time.Second)
	})

	t.Run("explicit duration overrides the default", func(t *testing.T) {
		svc, _ := newTestService(t, 24*time.Hour)

		promo, err := svc.Promote(ctx, "alice", 48)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(48*time.Hour), promo.FeaturedUntil, 5*time.Second)
	})
}
