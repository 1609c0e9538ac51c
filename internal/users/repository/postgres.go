package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/collabforge/collabforge-backend/internal/search"
	"github.com/collabforge/collabforge-backend/internal/users/domain"
)

// Postgres persists users in the users table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const userColumns = `user_id, display_name, bio, avatar_url, skills, portfolio_urls, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.UserID, &u.DisplayName, &u.Bio, &u.AvatarURL,
		pq.Array(&u.Skills), pq.Array(&u.PortfolioURLs),
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Postgres) Create(ctx context.Context, u *domain.User) error {
	const q = `
INSERT INTO users (user_id, display_name, bio, avatar_url, skills, portfolio_urls)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at, updated_at;
`
	err := r.db.QueryRowContext(ctx, q,
		u.UserID, u.DisplayName, u.Bio, u.AvatarURL,
		pq.Array(u.Skills), pq.Array(u.PortfolioURLs),
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *Postgres) Get(ctx context.Context, userID string) (*domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE user_id = $1;`

	u, err := scanUser(r.db.QueryRowContext(ctx, q, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *Postgres) Update(ctx context.Context, u *domain.User) error {
	const q = `
UPDATE users
SET display_name = $2, bio = $3, avatar_url = $4, skills = $5, portfolio_urls = $6, updated_at = now()
WHERE user_id = $1
RETURNING updated_at;
`
	err := r.db.QueryRowContext(ctx, q,
		u.UserID, u.DisplayName, u.Bio, u.AvatarURL,
		pq.Array(u.Skills), pq.Array(u.PortfolioURLs),
	).Scan(&u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *Postgres) Delete(ctx context.Context, userID string) error {
	const q = `DELETE FROM users WHERE user_id = $1;`

	result, err := r.db.ExecContext(ctx, q, userID)
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

// Search matches the free-text query against name, bio, and skills. The
// query text is escaped so % and _ match literally.
func (r *Postgres) Search(ctx context.Context, f domain.Filter) ([]domain.User, error) {
	const q = `
SELECT ` + userColumns + `
FROM users
WHERE ($1 = ''
       OR display_name ILIKE '%' || $1 || '%'
       OR bio ILIKE '%' || $1 || '%'
       OR EXISTS (SELECT 1 FROM unnest(skills) AS s WHERE s ILIKE '%' || $1 || '%'))
  AND (cardinality($2::text[]) = 0
       OR EXISTS (SELECT 1 FROM unnest(skills) AS s, unnest($2::text[]) AS f WHERE lower(s) = lower(f)))
ORDER BY created_at ASC;
`
	skills := f.Skills
	if skills == nil {
		skills = []string{}
	}

	rows, err := r.db.QueryContext(ctx, q, search.EscapeLike(f.Query), pq.Array(skills))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.User, 0, 16)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}
