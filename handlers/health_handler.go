package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/zeno/dashboard/utils"
	"go.uber.org/zap"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	db                 *sql.DB
	supabaseConfigured bool
	logger             *zap.Logger
}

// NewHealthHandler creates a new HealthHandler. db is nil when the dashboard runs without Postgres.
func NewHealthHandler(db *sql.DB, supabaseConfigured bool, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:                 db,
		supabaseConfigured: supabaseConfigured,
		logger:             logger,
	}
}

// HandleHealth handles GET /healthz
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteOK(w, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleReadiness handles GET /readyz
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	allHealthy := true

	switch {
	case h.db == nil:
		checks["database"] = "not_configured"
	case h.checkDatabase(ctx) != nil:
		checks["database"] = "unhealthy"
		allHealthy = false
	default:
		checks["database"] = "healthy"
	}

	// Supabase Auth is remote; only its configuration is checked here
	if h.supabaseConfigured {
		checks["supabase"] = "configured"
	} else {
		checks["supabase"] = "not_configured"
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !allHealthy {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}

	if err := utils.WriteJSON(w, httpStatus, utils.SuccessResponse{Data: response}); err != nil {
		h.logger.Error("failed to write readiness response", zap.Error(err))
	}
}

func (h *HealthHandler) checkDatabase(ctx context.Context) error {
	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Warn("database health check failed", zap.Error(err))
		return err
	}
	var result int
	if err := h.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		h.logger.Warn("database health check failed", zap.Error(err))
		return err
	}
	return nil
}
