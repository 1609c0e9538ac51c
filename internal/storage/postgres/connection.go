package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/collabforge/collabforge-backend/config"
	_ "github.com/lib/pq"
)

// Pool sizing for the database/sql connection shared by the repositories.
// The pgx pool used for health checks is tuned separately in internal/db.
const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
)

// NewConnection opens the shared database/sql handle the repositories run
// on and verifies it with a ping, so a misconfigured DSN fails at startup
// rather than on the first query.
func NewConnection(cfg *config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	return db, nil
}
