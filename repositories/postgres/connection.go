package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/zeno/dashboard/config"
	"go.uber.org/zap"
)

// DB wraps the sql.DB connection pool
type DB struct {
	*sql.DB
	logger *zap.Logger
}

// NewDB creates a new database connection pool
func NewDB(cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	dsn := cfg.DSN()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		zap.String("connection", cfg.LogString()))

	return &DB{
		DB:     db,
		logger: logger,
	}, nil
}

// Close closes the database connection pool
func (db *DB) Close() error {
	db.logger.Info("closing database connection")
	return db.DB.Close()
}

// schemaVersion is bumped whenever InitSchema changes
const schemaVersion = 1

// Migrate applies the schema once and records its version.
// It reports whether anything was applied.
func (db *DB) Migrate(ctx context.Context) (bool, error) {
	createMigrationsTable := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version BIGINT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`
	if _, err := db.ExecContext(ctx, createMigrationsTable); err != nil {
		return false, fmt.Errorf("failed to create migrations table: %w", err)
	}

	var applied bool
	err := db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", schemaVersion,
	).Scan(&applied)
	if err != nil {
		return false, fmt.Errorf("failed to read schema version: %w", err)
	}
	if applied {
		db.logger.Info("database schema up to date", zap.Int("version", schemaVersion))
		return false, nil
	}

	if err := db.InitSchema(ctx); err != nil {
		return false, err
	}
	if _, err := db.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", schemaVersion); err != nil {
		return false, fmt.Errorf("failed to record schema version: %w", err)
	}

	db.logger.Info("migrations completed successfully", zap.Int("version", schemaVersion))
	return true, nil
}

// InitSchema initializes the database schema
func (db *DB) InitSchema(ctx context.Context) error {
	schema := `
		-- Projects table
		CREATE TABLE IF NOT EXISTS projects (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status VARCHAR(50) NOT NULL DEFAULT 'active',
			progress INTEGER NOT NULL DEFAULT 0 CHECK (progress BETWEEN 0 AND 100),
			url TEXT,
			owner_id VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Project members table
		CREATE TABLE IF NOT EXISTS project_members (
			id UUID PRIMARY KEY,
			project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			user_id VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL DEFAULT '',
			role VARCHAR(50) NOT NULL,
			joined_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(project_id, user_id)
		);

		-- Tasks table
		CREATE TABLE IF NOT EXISTS tasks (
			id UUID PRIMARY KEY,
			project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			title VARCHAR(500) NOT NULL,
			status VARCHAR(50) NOT NULL DEFAULT 'todo',
			priority VARCHAR(50) NOT NULL DEFAULT 'medium',
			assignee_id VARCHAR(255),
			due_date TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Indexes for performance
		CREATE INDEX IF NOT EXISTS idx_projects_owner_id ON projects(owner_id);
		CREATE INDEX IF NOT EXISTS idx_projects_updated_at ON projects(updated_at);

		CREATE INDEX IF NOT EXISTS idx_project_members_project_id ON project_members(project_id);
		CREATE INDEX IF NOT EXISTS idx_project_members_user_id ON project_members(user_id);

		CREATE INDEX IF NOT EXISTS idx_tasks_project_id ON tasks(project_id);
		CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	db.logger.Info("database schema initialized successfully")
	return nil
}
