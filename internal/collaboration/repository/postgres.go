package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/collabforge/collabforge-backend/internal/collaboration/domain"
)

const requestColumns = `request_id, sender_id, recipient_id, project_id, message, status, created_at, responded_at, payment_ref`

// Postgres persists collaboration requests in the collaboration_requests table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func scanRequest(row interface{ Scan(...any) error }) (*domain.Request, error) {
	var r domain.Request
	var projectID sql.NullString
	var respondedAt sql.NullTime
	err := row.Scan(
		&r.RequestID,
		&r.SenderID,
		&r.RecipientID,
		&projectID,
		&r.Message,
		&r.Status,
		&r.CreatedAt,
		&respondedAt,
		&r.PaymentRef,
	)
	if err != nil {
		return nil, err
	}
	r.ProjectID = projectID.String
	if respondedAt.Valid {
		t := respondedAt.Time
		r.RespondedAt = &t
	}
	return &r, nil
}

// Create inserts a pending request. Referential integrity rides on the
// table's foreign keys to users and projects, so the revalidate callback is
// not needed here: a row that vanished mid-flight surfaces as a foreign-key
// violation on the insert itself.
func (p *Postgres) Create(ctx context.Context, r *domain.Request, _ func(context.Context) error) error {
	var projectID any
	if r.ProjectID != "" {
		projectID = r.ProjectID
	}

	query := `
		INSERT INTO collaboration_requests (request_id, sender_id, recipient_id, project_id, message, status, payment_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`
	err := p.db.QueryRowContext(ctx, query,
		r.RequestID, r.SenderID, r.RecipientID, projectID, r.Message, r.Status, r.PaymentRef,
	).Scan(&r.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505":
				return domain.ErrInvalidArgument
			case "23503":
				return domain.ErrNotFound
			}
		}
		return err
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, requestID string) (*domain.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM collaboration_requests WHERE request_id = $1`
	r, err := scanRequest(p.db.QueryRowContext(ctx, query, requestID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return r, err
}

// Respond transitions the request out of pending. The WHERE clause makes the
// database serialize racing responders: the loser matches zero rows and a
// follow-up read tells missing apart from already-settled.
func (p *Postgres) Respond(ctx context.Context, requestID string, decision domain.Status, respondedAt time.Time) (*domain.Request, error) {
	query := `
		UPDATE collaboration_requests
		SET status = $2, responded_at = $3
		WHERE request_id = $1 AND status = 'pending'
		RETURNING ` + requestColumns
	r, err := scanRequest(p.db.QueryRowContext(ctx, query, requestID, decision, respondedAt))
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := p.Get(ctx, requestID); getErr != nil {
			return nil, getErr
		}
		return nil, domain.ErrInvalidTransition
	}
	return r, err
}

func (p *Postgres) ListForUser(ctx context.Context, f domain.Filter) ([]domain.Request, error) {
	var roleClause string
	switch f.Role {
	case domain.RoleSender:
		roleClause = `sender_id = $1`
	case domain.RoleRecipient:
		roleClause = `recipient_id = $1`
	default:
		roleClause = `(sender_id = $1 OR recipient_id = $1)`
	}

	query := `
		SELECT ` + requestColumns + `
		FROM collaboration_requests
		WHERE ` + roleClause + ` AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC`
	rows, err := p.db.QueryContext(ctx, query, f.UserID, string(f.Status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]domain.Request, 0, 8)
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *r)
	}
	return requests, rows.Err()
}

func (p *Postgres) HasPendingForUser(ctx context.Context, userID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM collaboration_requests
			WHERE status = 'pending' AND (sender_id = $1 OR recipient_id = $1)
		)`
	var exists bool
	err := p.db.QueryRowContext(ctx, query, userID).Scan(&exists)
	return exists, err
}

func (p *Postgres) HasPendingForProject(ctx context.Context, projectID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM collaboration_requests
			WHERE status = 'pending' AND project_id = $1
		)`
	var exists bool
	err := p.db.QueryRowContext(ctx, query, projectID).Scan(&exists)
	return exists, err
}
