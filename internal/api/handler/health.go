package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/autocatalog/autocatalog/internal/api/middleware"
	"github.com/autocatalog/autocatalog/internal/api/response"
)

// pingTimeout bounds the database check so a stuck pool cannot hang the health check.
const pingTimeout = 2 * time.Second

// DBPinger reports whether the catalog store is reachable.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles the GET /health endpoint.
type HealthHandler struct {
	db      DBPinger
	version string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db DBPinger, version string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		version: version,
	}
}

type databaseStatus struct {
	Connected bool `json:"connected"`
}

type healthData struct {
	Status   string         `json:"status"`
	Version  string         `json:"version"`
	Database databaseStatus `json:"database"`
}

// ServeHTTP handles the health check request. An unreachable database yields a
// "degraded" status rather than an error response.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	connected := false
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			slog.Warn("database ping failed", "error", err, "requestId", requestID)
		} else {
			connected = true
		}
	}

	status := "healthy"
	if !connected {
		status = "degraded"
	}

	response.Success(w, http.StatusOK, healthData{
		Status:   status,
		Version:  h.version,
		Database: databaseStatus{Connected: connected},
	}, requestID)
}
