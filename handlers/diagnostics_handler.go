package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/zeno/dashboard/config"
	"github.com/zeno/dashboard/utils"
	"go.uber.org/zap"
)

const (
	envSet     = "Set ✅"
	envMissing = "Missing ❌"
)

// DiagnosticEnvKeys are the variables whose presence the debug routes report
var DiagnosticEnvKeys = []string{
	"NEXT_PUBLIC_SUPABASE_URL",
	"NEXT_PUBLIC_SUPABASE_ANON_KEY",
	"NEXTAUTH_URL",
	"NEXTAUTH_SECRET",
	"SUPABASE_SERVICE_ROLE_KEY",
}

// DiagnosticsHandler serves the debug routes that echo configuration presence.
// Values are never echoed, only whether they are set.
type DiagnosticsHandler struct {
	environment string
	vercel      string
	lookup      config.EnvLookup
	now         func() time.Time
	logger      *zap.Logger
}

// NewDiagnosticsHandler creates a DiagnosticsHandler reading variables through lookup
func NewDiagnosticsHandler(cfg *config.Config, lookup config.EnvLookup, logger *zap.Logger) *DiagnosticsHandler {
	return &DiagnosticsHandler{
		environment: cfg.Environment,
		vercel:      cfg.Vercel,
		lookup:      lookup,
		now:         time.Now,
		logger:      logger,
	}
}

func (h *DiagnosticsHandler) isSet(key string) bool {
	if h.lookup == nil {
		return false
	}
	v, ok := h.lookup(key)
	return ok && v != ""
}

func (h *DiagnosticsHandler) timestamp() string {
	return h.now().UTC().Format(time.RFC3339)
}

// HandleDebugEnv handles GET /api/debug/env
func (h *DiagnosticsHandler) HandleDebugEnv(w http.ResponseWriter, r *http.Request) {
	body := make(map[string]string, len(DiagnosticEnvKeys)+1)
	for _, key := range DiagnosticEnvKeys {
		if h.isSet(key) {
			body[key] = envSet
		} else {
			body[key] = envMissing
		}
	}
	body["environment"] = h.environment
	h.write(w, body)
}

// HandleTestEnv handles GET /api/test-env
func (h *DiagnosticsHandler) HandleTestEnv(w http.ResponseWriter, r *http.Request) {
	body := make(map[string]interface{}, len(DiagnosticEnvKeys)+2)
	for _, key := range DiagnosticEnvKeys {
		body[key] = h.isSet(key)
	}
	body["nodeEnv"] = h.environment
	body["timestamp"] = h.timestamp()
	h.write(w, body)
}

// HandleTestVercel handles GET /api/test-vercel
func (h *DiagnosticsHandler) HandleTestVercel(w http.ResponseWriter, r *http.Request) {
	h.write(w, map[string]interface{}{
		"message":     "Vercel deployment test",
		"vercel":      h.vercel,
		"environment": h.environment,
		"timestamp":   h.timestamp(),
	})
}

// HandleTestTasks handles GET /api/test-projects/{id}/test-tasks
func (h *DiagnosticsHandler) HandleTestTasks(w http.ResponseWriter, r *http.Request) {
	h.write(w, map[string]interface{}{
		"success":   true,
		"message":   "Test tasks route working",
		"projectId": chi.URLParam(r, "id"),
		"tasks":     []interface{}{},
	})
}

func (h *DiagnosticsHandler) write(w http.ResponseWriter, body interface{}) {
	if err := utils.WriteJSON(w, http.StatusOK, body); err != nil {
		h.logger.Error("failed to write diagnostics response", zap.Error(err))
	}
}
