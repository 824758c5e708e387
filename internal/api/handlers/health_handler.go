package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/ototamirci/backend/internal/api/response"
)

// Pinger is a dependency the health check pings
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness and dependency status
type HealthHandler struct {
	db    Pinger
	cache Pinger
}

// NewHealthHandler creates a health handler. cache may be nil.
func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

type healthStatus struct {
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// Health handles GET /health. The database is required; a failing cache only
// degrades rate limiting, so it is reported without failing the check.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := healthStatus{
		Message:   "Server is running",
		Timestamp: time.Now().UTC(),
		Checks:    map[string]string{},
	}

	healthy := true
	if h.db != nil {
		status.Checks["database"] = pingCheck(ctx, h.db)
		healthy = status.Checks["database"] == "ok"
	}
	if h.cache != nil {
		status.Checks["cache"] = pingCheck(ctx, h.cache)
	}

	if !healthy {
		response.Error(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}

	respondWithJSON(w, http.StatusOK, status)
}

func pingCheck(ctx context.Context, p Pinger) string {
	if err := p.Ping(ctx); err != nil {
		return "unavailable"
	}
	return "ok"
}
