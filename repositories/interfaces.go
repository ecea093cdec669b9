package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/zeno/dashboard/models"
)

// ErrNotFound is wrapped by repositories when a lookup matches no row
var ErrNotFound = errors.New("record not found")

// TransactionManager runs work inside a database transaction.
// Repositories called with the ctx handed to fn join that transaction.
type TransactionManager interface {
	// InTransaction commits when fn returns nil and rolls back otherwise
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ProjectRepository handles project data operations
type ProjectRepository interface {
	// Create creates a new project
	Create(ctx context.Context, project *models.Project) error

	// GetByID retrieves a project by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)

	// List retrieves projects ordered by most recently updated
	List(ctx context.Context, limit, offset int) ([]*models.Project, error)

	// ListByMember retrieves the projects a user belongs to or owns
	ListByMember(ctx context.Context, userID string, limit, offset int) ([]*models.Project, error)
}

// MemberRepository handles project membership data operations
type MemberRepository interface {
	// Add adds a member to a project
	Add(ctx context.Context, member *models.ProjectMember) error

	// ListByProject retrieves the members of a project
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.ProjectMember, error)
}

// TaskRepository handles task data operations
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// ListByProject retrieves the tasks of a project, optionally filtered by status
	ListByProject(ctx context.Context, projectID uuid.UUID, status *models.TaskStatus) ([]*models.Task, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Projects ProjectRepository
	Members  MemberRepository
	Tasks    TaskRepository
}
