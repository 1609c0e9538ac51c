package domain

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
)

// Terminal reports whether the status permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusDeclined
}

type Role string

const (
	RoleSender    Role = "sender"
	RoleRecipient Role = "recipient"
)

// Request is a proposal from one user to another to work together, optionally
// scoped to a project. It is created once and mutated exactly once, by the
// accept/decline transition.
type Request struct {
	RequestID   string     `json:"request_id"`
	SenderID    string     `json:"sender_id"`
	RecipientID string     `json:"recipient_id"`
	ProjectID   string     `json:"project_id,omitempty"`
	Message     string     `json:"message"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	PaymentRef  string     `json:"payment_ref,omitempty"`
}

// Filter selects requests in a listing.
type Filter struct {
	UserID string
	Role   Role
	Status Status // empty matches all statuses
}
