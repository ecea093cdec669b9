package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the board column of a task
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// TaskPriority orders tasks within a column
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Task is a unit of work inside a project
type Task struct {
	ID         uuid.UUID    `json:"id" db:"id"`
	ProjectID  uuid.UUID    `json:"project_id" db:"project_id"`
	Title      string       `json:"title" db:"title"`
	Status     TaskStatus   `json:"status" db:"status"`
	Priority   TaskPriority `json:"priority" db:"priority"`
	AssigneeID *string      `json:"assignee_id,omitempty" db:"assignee_id"`
	DueDate    *time.Time   `json:"due_date,omitempty" db:"due_date"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Task model
func (Task) TableName() string {
	return "tasks"
}

// NewTask creates a new Task in the todo column
func NewTask(projectID uuid.UUID, title string, priority TaskPriority) *Task {
	now := time.Now()
	return &Task{
		ID:        uuid.New(),
		ProjectID: projectID,
		Title:     title,
		Status:    TaskStatusTodo,
		Priority:  priority,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsOverdue reports whether the task is past its due date and not done
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.Status != TaskStatusDone && now.After(*t.DueDate)
}
