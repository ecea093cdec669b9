package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/zeno/dashboard/auth"
	"github.com/zeno/dashboard/config"
	"github.com/zeno/dashboard/internal/observability"
	"github.com/zeno/dashboard/internal/ui"
	"github.com/zeno/dashboard/middleware"
	"github.com/zeno/dashboard/repositories"
	"github.com/zeno/dashboard/repositories/postgres"
	"github.com/zeno/dashboard/services/projects"
	"github.com/zeno/dashboard/supabase"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config    *config.Config
	Logger    *zap.Logger
	Metrics   *observability.Metrics
	EnvLookup config.EnvLookup

	// Database (nil when no Postgres is configured)
	RepoFactory  *postgres.RepositoryFactory
	Repositories *repositories.Repositories
	TxManager    repositories.TransactionManager

	// Auth
	Supabase       *supabase.Client
	Sessions       *auth.CookieProvider
	Accessor       *auth.Accessor
	AuthMiddleware *middleware.AuthMiddleware
	SignInLimiter  *middleware.RateLimiter
	AuthHandler    *auth.Handler

	// Presentation and services
	Renderer *ui.Renderer
	Projects *projects.ProjectService
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:    cfg,
		Logger:    logger,
		EnvLookup: os.LookupEnv,
	}
	if cfg.Observability.MetricsEnabled {
		deps.Metrics = observability.NewMetrics()
	}

	if cfg.HasDatabase() {
		if err := deps.initDatabase(cfg); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	} else {
		logger.Warn("no database configured, project data disabled")
	}

	if err := deps.initAuth(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize auth: %w", err)
	}

	deps.Projects = projects.NewProjectService(deps.Repositories, deps.TxManager, logger)

	logger.Info("all dependencies initialized successfully",
		zap.String("environment", cfg.Environment),
		zap.Bool("database", deps.RepoFactory != nil),
		zap.Bool("metrics", deps.Metrics != nil))
	return deps, nil
}

// initDatabase connects to Postgres and builds the repositories
func (d *Dependencies) initDatabase(cfg *config.Config) error {
	factory, err := postgres.NewRepositoryFactory(cfg, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	d.RepoFactory = factory
	d.Repositories = factory.NewRepositories()
	d.TxManager = factory.GetTransactionManager()

	d.Logger.Info("repositories initialized",
		zap.String("connection", cfg.Database.LogString()))
	return nil
}

// initAuth wires the Supabase client, the dashboard session and the auth pages
func (d *Dependencies) initAuth(cfg *config.Config) error {
	if cfg.Auth.Secret == "" {
		d.Logger.Warn("NEXTAUTH_SECRET not set, every request is treated as signed out")
	}
	if cfg.Supabase.URL == "" || cfg.Supabase.AnonKey == "" {
		d.Logger.Warn("supabase not configured, sign-in will fail")
	}

	d.Supabase = supabase.NewClient(cfg.Supabase, cfg.SecureCookies(), d.Logger)

	codec := auth.NewTokenCodec(cfg.Auth.Secret, cfg.Auth.SessionMaxAge)
	d.Sessions = auth.NewCookieProvider(codec, auth.CookieProviderConfig{
		CookieName: cfg.Auth.SessionCookie,
		Secure:     cfg.SecureCookies(),
		CacheSize:  cfg.Auth.SessionCacheSize,
		CacheTTL:   cfg.Auth.SessionCacheTTL,
	}, d.Logger)
	d.Accessor = auth.NewAccessor(d.Sessions, d.Logger, d.Metrics)
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.Accessor, cfg.App, d.Logger)
	d.SignInLimiter = middleware.NewRateLimiter(cfg.Auth.SignInRate, cfg.Auth.SignInBurst, d.Logger)

	renderer, err := ui.NewRenderer(cfg.App, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	d.Renderer = renderer
	d.AuthHandler = auth.NewHandler(cfg.App, d.Supabase, d.Sessions, renderer, d.Logger)

	d.Logger.Info("auth initialized",
		zap.String("auth_layout", renderer.Layout().Template),
		zap.String("supabase_cookie", d.Supabase.CookieName()))
	return nil
}

// SQLDB returns the raw connection pool, or nil without a database
func (d *Dependencies) SQLDB() *sql.DB {
	if d.RepoFactory == nil {
		return nil
	}
	return d.RepoFactory.GetDB().DB
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	_ = d.Logger.Sync()

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}
	return nil
}
