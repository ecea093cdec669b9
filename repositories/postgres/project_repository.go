package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/zeno/dashboard/models"
	"github.com/zeno/dashboard/repositories"
	"go.uber.org/zap"
)

const projectColumns = `id, name, description, status, progress, url, owner_id, created_at, updated_at`

// ProjectRepository implements the repositories.ProjectRepository interface
type ProjectRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *DB, logger *zap.Logger) repositories.ProjectRepository {
	return &ProjectRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		project.ID,
		project.Name,
		project.Description,
		project.Status,
		project.Progress,
		project.URL,
		project.OwnerID,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	r.logger.Debug("project created", zap.String("id", project.ID.String()))
	return nil
}

// GetByID retrieves a project by ID
func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	project, err := scanProject(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project not found: %s: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// List retrieves projects ordered by most recently updated
func (r *ProjectRepository) List(ctx context.Context, limit, offset int) ([]*models.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		ORDER BY updated_at DESC
		LIMIT $1 OFFSET $2
	`
	return r.query(ctx, query, limit, offset)
}

// ListByMember retrieves the projects a user belongs to or owns
func (r *ProjectRepository) ListByMember(ctx context.Context, userID string, limit, offset int) ([]*models.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE owner_id = $1
		   OR id IN (SELECT project_id FROM project_members WHERE user_id = $1)
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.query(ctx, query, userID, limit, offset)
}

func (r *ProjectRepository) query(ctx context.Context, query string, args ...interface{}) ([]*models.Project, error) {
	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]*models.Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}
	return projects, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	project := &models.Project{}
	var url sql.NullString
	err := row.Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.Status,
		&project.Progress,
		&url,
		&project.OwnerID,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if url.Valid {
		project.URL = &url.String
	}
	return project, nil
}
