package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// dbPingTimeout caps how long a health probe may hang on a dead database.
const dbPingTimeout = time.Second

const (
	dbStatusUp       = "up"
	dbStatusDown     = "down"
	dbStatusDisabled = "disabled"
)

// HealthResponse is the body served on /health and /healthz.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	DB        string    `json:"db,omitempty"`
}

// HealthHandler reports liveness plus the state of the backing database.
// A nil pool means the service runs on in-memory stores and the db field
// reads "disabled".
type HealthHandler struct {
	serviceName string
	version     string
	db          *pgxpool.Pool
}

func NewHealthHandler(serviceName, version string, db *pgxpool.Pool) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, db: db}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		DB:        h.dbStatus(c.Request.Context()),
	})
}

func (h *HealthHandler) dbStatus(ctx context.Context) string {
	if h.db == nil {
		return dbStatusDisabled
	}
	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()

	if err := h.db.Ping(pingCtx); err != nil {
		return dbStatusDown
	}
	return dbStatusUp
}

// RegisterRoutes mounts the probe on both /health and /healthz so load
// balancers with either convention work unchanged.
func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
