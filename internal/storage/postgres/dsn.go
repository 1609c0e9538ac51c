package postgres

import (
	"fmt"
	"strings"

	"github.com/collabforge/collabforge-backend/config"
)

// DSN renders the keyword/value connection string lib/pq expects.
// TLS is left off; the service talks to the database over a private
// network in every deployment target.
func DSN(cfg *config.DatabaseConfig) string {
	parts := []string{
		fmt.Sprintf("host=%s", cfg.Host),
		fmt.Sprintf("port=%d", cfg.Port),
		fmt.Sprintf("user=%s", cfg.User),
		fmt.Sprintf("password=%s", cfg.Password),
		fmt.Sprintf("dbname=%s", cfg.Name),
		"sslmode=disable",
	}
	return strings.Join(parts, " ")
}
