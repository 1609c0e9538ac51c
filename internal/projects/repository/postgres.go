package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/collabforge/collabforge-backend/internal/projects/domain"
	"github.com/collabforge/collabforge-backend/internal/search"
)

// Postgres persists projects in the projects table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const projectColumns = `project_id, name, description, required_skills, status, owner_id, collaborators, budget, deadline, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(
		&p.ProjectID, &p.Name, &p.Description, pq.Array(&p.RequiredSkills),
		&p.Status, &p.OwnerID, pq.Array(&p.Collaborators),
		&p.Budget, &p.Deadline, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Postgres) Create(ctx context.Context, p *domain.Project) error {
	const q = `
INSERT INTO projects (project_id, name, description, required_skills, status, owner_id, collaborators, budget, deadline)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING created_at, updated_at;
`
	return r.db.QueryRowContext(ctx, q,
		p.ProjectID, p.Name, p.Description, pq.Array(p.RequiredSkills),
		string(p.Status), p.OwnerID, pq.Array(p.Collaborators), p.Budget, p.Deadline,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *Postgres) Get(ctx context.Context, projectID string) (*domain.Project, error) {
	const q = `SELECT ` + projectColumns + ` FROM projects WHERE project_id = $1;`

	p, err := scanProject(r.db.QueryRowContext(ctx, q, projectID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *Postgres) Update(ctx context.Context, p *domain.Project) error {
	const q = `
UPDATE projects
SET name = $2, description = $3, required_skills = $4, status = $5,
    collaborators = $6, budget = $7, deadline = $8, updated_at = now()
WHERE project_id = $1
RETURNING updated_at;
`
	err := r.db.QueryRowContext(ctx, q,
		p.ProjectID, p.Name, p.Description, pq.Array(p.RequiredSkills),
		string(p.Status), pq.Array(p.Collaborators), p.Budget, p.Deadline,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *Postgres) Delete(ctx context.Context, projectID string) error {
	const q = `DELETE FROM projects WHERE project_id = $1;`

	result, err := r.db.ExecContext(ctx, q, projectID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddCollaborator appends userID to the collaborator array unless present.
func (r *Postgres) AddCollaborator(ctx context.Context, projectID, userID string) error {
	const q = `
UPDATE projects
SET collaborators = array_append(collaborators, $2), updated_at = now()
WHERE project_id = $1 AND NOT ($2 = ANY(collaborators));
`
	if _, err := r.db.ExecContext(ctx, q, projectID, userID); err != nil {
		return err
	}
	return nil
}

// Search matches the free-text query against name and description. The
// query text is escaped so % and _ match literally.
func (r *Postgres) Search(ctx context.Context, f domain.Filter) ([]domain.Project, error) {
	const q = `
SELECT ` + projectColumns + `
FROM projects
WHERE ($1 = ''
       OR name ILIKE '%' || $1 || '%'
       OR description ILIKE '%' || $1 || '%')
  AND (cardinality($2::text[]) = 0
       OR EXISTS (SELECT 1 FROM unnest(required_skills) AS s, unnest($2::text[]) AS f WHERE lower(s) = lower(f)))
  AND ($3 = '' OR status = $3)
  AND ($4 = '' OR owner_id = $4)
ORDER BY created_at ASC;
`
	skills := f.Skills
	if skills == nil {
		skills = []string{}
	}

	rows, err := r.db.QueryContext(ctx, q, search.EscapeLike(f.Query), pq.Array(skills), string(f.Status), f.OwnerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *Postgres) ListByOwner(ctx context.Context, ownerID string) ([]domain.Project, error) {
	const q = `
SELECT ` + projectColumns + `
FROM projects
WHERE owner_id = $1
ORDER BY created_at DESC;
`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 8)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *Postgres) OwnerHasProjects(ctx context.Context, ownerID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM projects WHERE owner_id = $1);`

	var exists bool
	if err := r.db.QueryRowContext(ctx, q, ownerID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
