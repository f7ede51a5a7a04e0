package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/quantumreach/outreach-server/internal/pkg/httputil"
)

// ComponentCheck reports the health of a single dependency.
type ComponentCheck struct {
	Status  string `json:"status"` // "up", "down", "not_configured"
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}

// HealthStatus is the /health payload.
type HealthStatus struct {
	Status string                    `json:"status"` // "healthy", "degraded"
	Checks map[string]ComponentCheck `json:"checks"`
}

// HealthCheck probes the database and Redis. A down database degrades the
// overall status; Redis is optional and only reported.
//
//	GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]ComponentCheck{
		"database": h.checkDatabase(ctx),
		"redis":    h.checkRedis(ctx),
	}

	status := "healthy"
	if checks["database"].Status == "down" {
		status = "degraded"
	}

	httputil.OK(w, HealthStatus{Status: status, Checks: checks})
}

// HandleReadiness returns 200 only when the database answers, 503 otherwise.
// For load balancer probes; /health always returns 200 with detail.
//
//	GET /health/ready
func (h *Handlers) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			httputil.JSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready", "reason": err.Error(),
			})
			return
		}
	}
	httputil.OK(w, map[string]string{"status": "ready"})
}

func (h *Handlers) checkDatabase(ctx context.Context) ComponentCheck {
	if h.db == nil {
		return ComponentCheck{Status: "not_configured"}
	}
	start := time.Now()
	if err := h.db.PingContext(ctx); err != nil {
		return ComponentCheck{Status: "down", Message: err.Error()}
	}
	return ComponentCheck{Status: "up", Latency: fmt.Sprintf("%dms", time.Since(start).Milliseconds())}
}

func (h *Handlers) checkRedis(ctx context.Context) ComponentCheck {
	if h.rdb == nil {
		return ComponentCheck{Status: "not_configured"}
	}
	start := time.Now()
	if err := h.rdb.Ping(ctx).Err(); err != nil {
		return ComponentCheck{Status: "down", Message: err.Error()}
	}
	return ComponentCheck{Status: "up", Latency: fmt.Sprintf("%dms", time.Since(start).Milliseconds())}
}
