package handler

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// AIStatus reports the completion client's state.
type AIStatus interface {
	Configured() bool
	IsCircuitOpen() bool
}

// MailStatus reports whether the SMTP relay is configured.
type MailStatus interface {
	Configured() bool
}

// Drainer reports whether shutdown has begun.
type Drainer interface {
	Draining() bool
}

// HealthHandler serves the health and probe endpoints. Unconfigured
// subsystems report degraded, not unhealthy: running without a database
// or an AI key is a supported mode and must not flap the probes.
type HealthHandler struct {
	db      Pinger
	ai      AIStatus
	mailer  MailStatus
	drainer Drainer
	logger  *zap.Logger
}

func NewHealthHandler(db Pinger, ai AIStatus, mailer MailStatus, drainer Drainer, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{db: db, ai: ai, mailer: mailer, drainer: drainer, logger: logger}
}

// ComponentHealth is the state of one subsystem.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is the full health report.
type HealthResponse struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentHealth `json:"checks"`
}

// HandleHealth reports the state of every subsystem.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status: "ok",
		Checks: make(map[string]ComponentHealth),
	}
	degraded := false
	unhealthy := false

	if h.db == nil {
		degraded = true
		resp.Checks["database"] = ComponentHealth{
			Status:  "degraded",
			Message: "not configured, leads are notification-only",
		}
	} else if err := h.db.Ping(ctx); err != nil {
		unhealthy = true
		resp.Checks["database"] = ComponentHealth{Status: "unhealthy", Message: err.Error()}
		h.logger.Error("database health check failed", zap.Error(err))
	} else {
		resp.Checks["database"] = ComponentHealth{Status: "healthy"}
	}

	switch {
	case h.ai == nil || !h.ai.Configured():
		degraded = true
		resp.Checks["ai"] = ComponentHealth{
			Status:  "degraded",
			Message: "not configured, serving fallback responses",
		}
	case h.ai.IsCircuitOpen():
		degraded = true
		resp.Checks["ai"] = ComponentHealth{
			Status:  "degraded",
			Message: "circuit open, provider temporarily unavailable",
		}
	default:
		resp.Checks["ai"] = ComponentHealth{Status: "healthy"}
	}

	if h.mailer == nil || !h.mailer.Configured() {
		degraded = true
		resp.Checks["mail"] = ComponentHealth{
			Status:  "degraded",
			Message: "not configured, notifications are logged only",
		}
	} else {
		resp.Checks["mail"] = ComponentHealth{Status: "healthy"}
	}

	status := http.StatusOK
	if unhealthy {
		resp.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	} else if degraded {
		resp.Status = "degraded"
	}

	JSON(w, r, status, resp)
}

// HandleReadiness fails only when a configured database is unreachable
// or the instance is draining.
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	if h.drainer != nil && h.drainer.Draining() {
		http.Error(w, "draining", http.StatusServiceUnavailable)
		return
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			h.logger.Error("readiness check failed", zap.Error(err))
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// HandleLiveness always succeeds while the process is up.
func (h *HealthHandler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("alive"))
}
