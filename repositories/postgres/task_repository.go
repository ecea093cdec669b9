package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/zeno/dashboard/models"
	"github.com/zeno/dashboard/repositories"
	"go.uber.org/zap"
)

// TaskRepository implements the repositories.TaskRepository interface
type TaskRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *DB, logger *zap.Logger) repositories.TaskRepository {
	return &TaskRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new task
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (id, project_id, title, status, priority, assignee_id, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		task.ID,
		task.ProjectID,
		task.Title,
		task.Status,
		task.Priority,
		task.AssigneeID,
		task.DueDate,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	r.logger.Debug("task created", zap.String("id", task.ID.String()), zap.String("project_id", task.ProjectID.String()))
	return nil
}

// ListByProject retrieves the tasks of a project, optionally filtered by status
func (r *TaskRepository) ListByProject(ctx context.Context, projectID uuid.UUID, status *models.TaskStatus) ([]*models.Task, error) {
	query := `
		SELECT id, project_id, title, status, priority, assignee_id, due_date, created_at, updated_at
		FROM tasks
		WHERE project_id = $1
	`
	args := []interface{}{projectID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at ASC`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		t := &models.Task{}
		var assignee sql.NullString
		var due sql.NullTime
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Status, &t.Priority, &assignee, &due, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		if assignee.Valid {
			t.AssigneeID = &assignee.String
		}
		if due.Valid {
			t.DueDate = &due.Time
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	return tasks, nil
}

