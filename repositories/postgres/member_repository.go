package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/zeno/dashboard/models"
	"github.com/zeno/dashboard/repositories"
	"go.uber.org/zap"
)

// MemberRepository implements the repositories.MemberRepository interface
type MemberRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewMemberRepository creates a new project member repository
func NewMemberRepository(db *DB, logger *zap.Logger) repositories.MemberRepository {
	return &MemberRepository{
		db:     db,
		logger: logger,
	}
}

// Add adds a member to a project
func (r *MemberRepository) Add(ctx context.Context, member *models.ProjectMember) error {
	query := `
		INSERT INTO project_members (id, project_id, user_id, email, name, role, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (project_id, user_id) DO UPDATE SET role = EXCLUDED.role
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		member.ID,
		member.ProjectID,
		member.UserID,
		member.Email,
		member.Name,
		member.Role,
		member.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add project member: %w", err)
	}

	r.logger.Debug("project member added",
		zap.String("project_id", member.ProjectID.String()),
		zap.String("user_id", member.UserID))
	return nil
}

// ListByProject retrieves the members of a project
func (r *MemberRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.ProjectMember, error) {
	query := `
		SELECT id, project_id, user_id, email, name, role, joined_at
		FROM project_members
		WHERE project_id = $1
		ORDER BY joined_at ASC
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project members: %w", err)
	}
	defer rows.Close()

	members := make([]*models.ProjectMember, 0)
	for rows.Next() {
		m := &models.ProjectMember{}
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.UserID, &m.Email, &m.Name, &m.Role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate project members: %w", err)
	}
	return members, nil
}

