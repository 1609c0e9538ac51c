package payments

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// ErrPaymentFailed covers declined and timed-out settlements alike. Callers
// must not commit the gated side effect when they see it.
var ErrPaymentFailed = errors.New("payment failed")

type ChargeKind string

const (
	KindConnectionRequest ChargeKind = "connection_request"
	KindFeaturedProfile   ChargeKind = "featured_profile"
)

// Fees are the statically configured amounts, in cents.
type Fees struct {
	ConnectionRequestCents int64
	FeaturedProfileCents   int64
}

// Settler is the external payment settlement collaborator. A non-nil error
// means the charge did not happen; the gate never retries.
type Settler interface {
	Settle(ctx context.Context, amountCents int64, payerRef, memo string) (receiptID string, err error)
}

type Receipt struct {
	ReceiptID   string     `json:"receipt_id"`
	Kind        ChargeKind `json:"kind"`
	AmountCents int64      `json:"amount_cents"`
	PayerRef    string     `json:"payer_ref"`
	ReferenceID string     `json:"reference_id"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Gate wraps fee-bearing actions. Callers invoke Charge before committing the
// associated state mutation; on error nothing may be committed.
type Gate struct {
	settler Settler
	fees    Fees
}

func NewGate(settler Settler, fees Fees) *Gate {
	return &Gate{settler: settler, fees: fees}
}

func (g *Gate) Charge(ctx context.Context, kind ChargeKind, payerRef, referenceID string) (*Receipt, error) {
	var amount int64
	switch kind {
	case KindConnectionRequest:
		amount = g.fees.ConnectionRequestCents
	case KindFeaturedProfile:
		amount = g.fees.FeaturedProfileCents
	default:
		return nil, fmt.Errorf("%w: unknown charge kind %q", ErrPaymentFailed, kind)
	}

	memo := fmt.Sprintf("%s:%s", kind, referenceID)
	receiptID, err := g.settler.Settle(ctx, amount, payerRef, memo)
	if err != nil {
		log.Printf("[payments] settlement failed kind=%s payer=%s ref=%s: %v", kind, payerRef, referenceID, err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	log.Printf("[payments] charged kind=%s payer=%s ref=%s amount_cents=%d receipt=%s",
		kind, payerRef, referenceID, amount, receiptID)

	return &Receipt{
		ReceiptID:   receiptID,
		Kind:        kind,
		AmountCents: amount,
		PayerRef:    payerRef,
		ReferenceID: referenceID,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// NopSettler settles every charge locally with a generated receipt. Used in
// development when no settlement endpoint is configured.
type NopSettler struct{}

func (NopSettler) Settle(ctx context.Context, amountCents int64, payerRef, memo string) (string, error) {
	return "dev-" + uuid.New().String(), nil
}
