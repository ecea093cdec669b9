package models

import (
	"time"

	"github.com/google/uuid"
)

// MemberRole represents the role of a user within a project
type MemberRole string

const (
	RoleAdmin  MemberRole = "admin"
	RoleMember MemberRole = "member"
	RoleViewer MemberRole = "viewer"
)

// ProjectMember links a Supabase auth user to a project
type ProjectMember struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	ProjectID uuid.UUID  `json:"project_id" db:"project_id"`
	UserID    string     `json:"user_id" db:"user_id"` // Supabase auth user id
	Email     string     `json:"email" db:"email"`
	Name      string     `json:"name" db:"name"`
	Role      MemberRole `json:"role" db:"role"`
	JoinedAt  time.Time  `json:"joined_at" db:"joined_at"`
}

// TableName returns the table name for the ProjectMember model
func (ProjectMember) TableName() string {
	return "project_members"
}

// NewProjectMember creates a new ProjectMember instance
func NewProjectMember(projectID uuid.UUID, userID, email, name string, role MemberRole) *ProjectMember {
	return &ProjectMember{
		ID:        uuid.New(),
		ProjectID: projectID,
		UserID:    userID,
		Email:     email,
		Name:      name,
		Role:      role,
		JoinedAt:  time.Now(),
	}
}

// IsAdmin returns true if the member has admin role
func (m *ProjectMember) IsAdmin() bool {
	return m.Role == RoleAdmin
}

// CanEditTasks returns true if the member can create and update tasks
func (m *ProjectMember) CanEditTasks() bool {
	return m.Role == RoleAdmin || m.Role == RoleMember
}
