package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collabforge/collabforge-backend/internal/users/domain"
)

func setupPostgres(t *testing.T) (*Postgres, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	return NewPostgres(db), mock, db
}

func userRow(u domain.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"user_id", "display_name", "bio", "avatar_url",
		"skills", "portfolio_urls", "created_at", "updated_at",
	}).AddRow(u.UserID, u.DisplayName, u.Bio, u.AvatarURL,
		pq.Array(u.Skills), pq.Array(u.PortfolioURLs), u.CreatedAt, u.UpdatedAt)
}

func TestPostgresCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts and backfills timestamps", func(t *testing.T) {
		repo, mock, db := setupPostgres(t)
		defer db.Close()

		now := time.Now()
		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("alice", "Alice Chen", "DeFi dev", "", pq.Array([]string{"React"}), pq.Array([]string{})).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		u := &domain.User{
			UserID:        "alice",
			DisplayName:   "Alice Chen",
			Bio:           "DeFi dev",
			Skills:        []string{"React"},
			PortfolioURLs: []string{},
		}
		require.NoError(t, repo.Create(ctx, u))
		assert.Equal(t, now, u.CreatedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate key maps to ErrDuplicate", func(t *testing.T) {
		repo, mock, db := setupPostgres(t)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(ctx, &domain.User{UserID: "alice", DisplayName: "Alice"})
		require.ErrorIs(t, err, domain.ErrDuplicate)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresGet(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		repo, mock, db := setupPostgres(t)
		defer db.Close()

		now := time.Now()
		mock.ExpectQuery(`SELECT .+ FROM users WHERE user_id`).
			WithArgs("alice").
			WillReturnRows(userRow(domain.User{
				UserID:      "alice",
				DisplayName: "Alice Chen",
				Skills:      []string{"React", "Solidity"},
				CreatedAt:   now,
				UpdatedAt:   now,
			}))

		u, err := repo.Get(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "Alice Chen", u.DisplayName)
		assert.Equal(t, []string{"React", "Solidity"}, u.Skills)
	})

	t.Run("missing maps to ErrNotFound", func(t *testing.T) {
		repo, mock, db := setupPostgres(t)
		defer db.Close()

		mock.ExpectQuery(`SELECT .+ FROM users WHERE user_id`).
			WithArgs("nobody").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Get(ctx, "nobody")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestPostgresDelete(t *testing.T) {
	ctx := context.Background()
	repo, mock, db := setupPostgres(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM users`).
		WithArgs("alice").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(ctx, "alice"))

	mock.ExpectExec(`DELETE FROM users`).
		WithArgs("nobody").
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.Delete(ctx, "nobody"), domain.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSearch(t *testing.T) {
	ctx := context.Background()

	userRows := func() *sqlmock.Rows {
		now := time.Now()
		return sqlmock.NewRows([]string{
			"user_id", "display_name", "bio", "avatar_url",
			"skills", "portfolio_urls", "created_at", "updated_at",
		}).
			AddRow("alice", "Alice", "DeFi dev", "", pq.Array([]string{"Solidity"}), pq.Array([]string{}), now, now)
	}

	t.Run("query and skill filter", func(t *testing.T) {
		repo, mock, db := setupPostgres(t)
		defer db.Close()

		mock.ExpectQuery(`SELECT .+ FROM users`).
			WithArgs("defi", pq.Array([]string{"solidity"})).
			WillReturnRows(userRows())

		got, err := repo.Search(ctx, domain.Filter{Query: "defi", Skills: []string{"solidity"}})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "alice", got[0].UserID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("pattern metacharacters are escaped", func(t *testing.T) {
		repo, mock, db := setupPostgres(t)
		defer db.Close()

		mock.ExpectQuery(`SELECT .+ FROM users`).
			WithArgs(`100\% remote\_work`, pq.Array([]string{})).
			WillReturnRows(userRows())

		_, err := repo.Search(ctx, domain.Filter{Query: "100% remote_work"})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
