package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zeno/dashboard/app"
	"github.com/zeno/dashboard/auth"
	"github.com/zeno/dashboard/handlers"
	"github.com/zeno/dashboard/internal/navigation"
	"github.com/zeno/dashboard/middleware"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	cfg := deps.Config
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger, deps.Metrics))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(cfg.Server.RequestTimeout))

	health := handlers.NewHealthHandler(deps.SQLDB(), cfg.Supabase.URL != "" && cfg.Supabase.AnonKey != "", deps.Logger)
	pages := handlers.NewPageHandler(cfg.App, deps.AuthMiddleware, deps.Renderer, deps.Projects, deps.Logger)
	diagnostics := handlers.NewDiagnosticsHandler(cfg, deps.EnvLookup, deps.Logger)
	projects := handlers.NewProjectHandler(deps.Projects, deps.AuthMiddleware, deps.Logger)

	// Health check endpoints, outside the session middleware
	r.Get("/healthz", health.HandleHealth)
	r.Get("/readyz", health.HandleReadiness)
	if deps.Metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Metrics.Registry(), promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.SupabaseSession(deps.Supabase, deps.Logger))
		r.Use(deps.AuthMiddleware.LoadSession)
		mountApp(r, deps, pages, diagnostics, projects)
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}

// mountApp registers the page, auth and API routes that read the session
func mountApp(r chi.Router, deps *app.Dependencies, pages *handlers.PageHandler, diagnostics *handlers.DiagnosticsHandler, projects *handlers.ProjectHandler) {
	cfg := deps.Config

	// Entry redirects
	r.Get("/", pages.HandleEntry)
	r.Get("/dashboard", pages.HandleEntry)
	r.Get("/dashboards/project", pages.HandleDashboardsProject)

	// Auth pages
	r.Get(cfg.App.UnAuthenticatedEntryPath, deps.AuthHandler.Page(auth.PageSignIn))
	r.With(deps.SignInLimiter.Limit).Post(cfg.App.UnAuthenticatedEntryPath, deps.AuthHandler.HandleSignIn)
	r.Get("/sign-up", deps.AuthHandler.Page(auth.PageSignUp))
	r.Get("/forgot-password", deps.AuthHandler.Page(auth.PageForgotPassword))
	r.Post("/sign-out", deps.AuthHandler.HandleSignOut)

	// Signed-in pages
	r.Group(func(r chi.Router) {
		r.Use(deps.AuthMiddleware.RequireSession)
		r.Get(handlers.GoldPath, pages.HandleGold)
	})
	r.Post("/theme", pages.HandleTheme)

	r.Route(cfg.App.APIPrefix, func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:*", "https://*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))

		// Deployment diagnostics, public
		r.Get("/debug/env", diagnostics.HandleDebugEnv)
		r.Get("/test-env", diagnostics.HandleTestEnv)
		r.Get("/test-vercel", diagnostics.HandleTestVercel)
		r.Get("/test-projects/{id}/test-tasks", diagnostics.HandleTestTasks)

		r.Route("/projects", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireSession)
			r.Get("/", projects.HandleList)
			r.With(deps.AuthMiddleware.RequireAuthority(navigation.AuthorityAdmin)).Get("/all", projects.HandleListAll)
			r.With(deps.AuthMiddleware.RequireAuthority(navigation.AuthorityUser)).Post("/", projects.HandleCreate)
			r.Get("/{id}", projects.HandleGet)
			r.Get("/{id}/members", projects.HandleMembers)
			r.Get("/{id}/tasks", projects.HandleTasks)
		})
	})
}
