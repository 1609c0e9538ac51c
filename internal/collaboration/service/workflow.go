package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/collabforge/collabforge-backend/internal/collaboration/domain"
	"github.com/collabforge/collabforge-backend/internal/ids"
	"github.com/collabforge/collabforge-backend/internal/payments"
)

// Workflow drives the collaboration request lifecycle: fee-gated creation,
// then a single accept or decline by the recipient.
type Workflow struct {
	store    Store
	users    UserDirectory
	projects ProjectDirectory
	gate     Charger
}

func NewWorkflow(store Store, users UserDirectory, projects ProjectDirectory, gate Charger) *Workflow {
	return &Workflow{store: store, users: users, projects: projects, gate: gate}
}

type SendRequestInput struct {
	RecipientID string `json:"recipient_id" binding:"required"`
	ProjectID   string `json:"project_id"`
	Message     string `json:"message" binding:"required"`
}

// SendRequest charges the sender the connection fee and, only if the charge
// settles, records the pending request. A failed charge leaves no trace.
func (w *Workflow) SendRequest(ctx context.Context, senderID string, in SendRequestInput) (*domain.Request, error) {
	if senderID == in.RecipientID {
		return nil, fmt.Errorf("%w: cannot send a request to yourself", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(in.Message) == "" {
		return nil, fmt.Errorf("%w: message is required", domain.ErrInvalidArgument)
	}

	if err := w.verifyReferences(ctx, senderID, in.RecipientID, in.ProjectID); err != nil {
		return nil, err
	}

	requestID, err := ids.New("req")
	if err != nil {
		return nil, err
	}

	receipt, err := w.gate.Charge(ctx, payments.KindConnectionRequest, senderID, requestID)
	if err != nil {
		return nil, err
	}

	req := &domain.Request{
		RequestID:   requestID,
		SenderID:    senderID,
		RecipientID: in.RecipientID,
		ProjectID:   in.ProjectID,
		Message:     strings.TrimSpace(in.Message),
		Status:      domain.StatusPending,
		CreatedAt:   time.Now().UTC(),
		PaymentRef:  receipt.ReceiptID,
	}
	// Re-check the referenced entities at commit time. The charge above is a
	// network round-trip; a recipient or project deleted while it was in
	// flight must fail the request rather than be referenced by it.
	revalidate := func(ctx context.Context) error {
		return w.verifyReferences(ctx, senderID, in.RecipientID, in.ProjectID)
	}
	if err := w.store.Create(ctx, req, revalidate); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to store request: %w", err)
	}

	log.Printf("[collaboration] request sent id=%s sender=%s recipient=%s project=%s",
		req.RequestID, req.SenderID, req.RecipientID, req.ProjectID)
	return req, nil
}

// verifyReferences resolves the sender, recipient, and optional project. It
// runs once before the charge, so nobody pays for a request that can never
// commit, and again inside Store.Create so the insert cannot outlive the
// entities it points at.
func (w *Workflow) verifyReferences(ctx context.Context, senderID, recipientID, projectID string) error {
	if ok, err := w.users.Exists(ctx, senderID); err != nil {
		return fmt.Errorf("resolve sender: %w", err)
	} else if !ok {
		return fmt.Errorf("%w: sender %s", domain.ErrNotFound, senderID)
	}
	if ok, err := w.users.Exists(ctx, recipientID); err != nil {
		return fmt.Errorf("resolve recipient: %w", err)
	} else if !ok {
		return fmt.Errorf("%w: recipient %s", domain.ErrNotFound, recipientID)
	}
	if projectID != "" {
		if ok, err := w.projects.Exists(ctx, projectID); err != nil {
			return fmt.Errorf("resolve project: %w", err)
		} else if !ok {
			return fmt.Errorf("%w: project %s", domain.ErrNotFound, projectID)
		}
	}
	return nil
}

// Get returns the request if the caller is a party to it. Anyone else sees
// not-found rather than a hint that the request exists.
func (w *Workflow) Get(ctx context.Context, callerID, requestID string) (*domain.Request, error) {
	req, err := w.store.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.SenderID != callerID && req.RecipientID != callerID {
		return nil, domain.ErrNotFound
	}
	return req, nil
}

// Respond settles a pending request. Only the recipient may respond, and only
// once; on accept for a project-scoped request the sender joins the project's
// collaborators.
func (w *Workflow) Respond(ctx context.Context, callerID, requestID string, accept bool) (*domain.Request, error) {
	req, err := w.store.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.RecipientID != callerID {
		if req.SenderID == callerID {
			return nil, fmt.Errorf("%w: only the recipient can respond", domain.ErrInvalidArgument)
		}
		return nil, domain.ErrNotFound
	}

	decision := domain.StatusDeclined
	if accept {
		decision = domain.StatusAccepted
	}

	updated, err := w.store.Respond(ctx, requestID, decision, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if updated.Status == domain.StatusAccepted && updated.ProjectID != "" {
		if err := w.projects.AddCollaborator(ctx, updated.ProjectID, updated.SenderID); err != nil {
			// The response itself stands; collaborator membership can be
			// reconciled out of band.
			log.Printf("[collaboration] failed to add collaborator user=%s project=%s: %v",
				updated.SenderID, updated.ProjectID, err)
		}
	}

	log.Printf("[collaboration] request %s id=%s recipient=%s", updated.Status, updated.RequestID, updated.RecipientID)
	return updated, nil
}

// ListForUser returns the caller's requests, optionally narrowed by role and
// status.
func (w *Workflow) ListForUser(ctx context.Context, userID string, role domain.Role, status domain.Status) ([]domain.Request, error) {
	switch role {
	case "", domain.RoleSender, domain.RoleRecipient:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidArgument, role)
	}
	switch status {
	case "", domain.StatusPending, domain.StatusAccepted, domain.StatusDeclined:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidArgument, status)
	}
	return w.store.ListForUser(ctx, domain.Filter{UserID: userID, Role: role, Status: status})
}
