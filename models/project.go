package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus is the lifecycle state of a project
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusArchived  ProjectStatus = "archived"
)

// Project is a dashboard project
type Project struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	Name        string        `json:"name" db:"name"`
	Description string        `json:"description" db:"description"`
	Status      ProjectStatus `json:"status" db:"status"`
	Progress    int           `json:"progress" db:"progress"` // 0..100
	URL         *string       `json:"url,omitempty" db:"url"`
	OwnerID     string        `json:"owner_id" db:"owner_id"` // Supabase auth user id
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Project model
func (Project) TableName() string {
	return "projects"
}

// NewProject creates a new active Project
func NewProject(name, description, ownerID string) *Project {
	now := time.Now()
	return &Project{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Status:      ProjectStatusActive,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsActive returns true if the project is being worked on
func (p *Project) IsActive() bool {
	return p.Status == ProjectStatusActive
}
