package projects

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/zeno/dashboard/models"
	"github.com/zeno/dashboard/repositories"
	"github.com/zeno/dashboard/services"
	"github.com/zeno/dashboard/utils"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// CreateProjectRequest is the payload accepted by CreateProject
type CreateProjectRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=120"`
	Description string  `json:"description" validate:"max=2000"`
	URL         *string `json:"url,omitempty" validate:"omitempty,http_url"`
}

// Owner identifies the user creating a project
type Owner struct {
	ID    string
	Email string
	Name  string
}

// ProjectService serves project, member and task reads for the dashboard
type ProjectService struct {
	repos  *repositories.Repositories
	txMgr  repositories.TransactionManager
	logger *zap.Logger
}

// NewProjectService creates a new ProjectService. repos may be nil when no
// database is configured; every call then fails with ErrDatabaseUnavailable.
func NewProjectService(repos *repositories.Repositories, txMgr repositories.TransactionManager, logger *zap.Logger) *ProjectService {
	return &ProjectService{
		repos:  repos,
		txMgr:  txMgr,
		logger: logger,
	}
}

// Viewer is the signed-in user reading project data. Admins see every project.
type Viewer struct {
	ID    string
	Admin bool
}

// GetProject returns one project the viewer owns or belongs to
func (s *ProjectService) GetProject(ctx context.Context, viewer Viewer, id string) (*models.Project, error) {
	if s.repos == nil {
		return nil, services.ErrDatabaseUnavailable
	}
	projectID, err := parseProjectID(id)
	if err != nil {
		return nil, err
	}
	project, _, err := s.viewableProject(ctx, viewer, projectID)
	return project, err
}

// GetProjectMembers returns the members of a project the viewer can see
func (s *ProjectService) GetProjectMembers(ctx context.Context, viewer Viewer, id string) ([]*models.ProjectMember, error) {
	if s.repos == nil {
		return nil, services.ErrDatabaseUnavailable
	}
	projectID, err := parseProjectID(id)
	if err != nil {
		return nil, err
	}
	_, members, err := s.viewableProject(ctx, viewer, projectID)
	if err != nil {
		return nil, err
	}
	if members != nil {
		return members, nil
	}
	return s.listMembers(ctx, projectID)
}

// ListTasks returns the tasks of a project the viewer can see. An empty status returns every task.
func (s *ProjectService) ListTasks(ctx context.Context, viewer Viewer, id, status string) ([]*models.Task, error) {
	if s.repos == nil {
		return nil, services.ErrDatabaseUnavailable
	}
	projectID, err := parseProjectID(id)
	if err != nil {
		return nil, err
	}

	var filter *models.TaskStatus
	if status != "" {
		st := models.TaskStatus(status)
		switch st {
		case models.TaskStatusTodo, models.TaskStatusInProgress, models.TaskStatusDone:
			filter = &st
		default:
			return nil, services.ErrInvalidStatus.WithDetail("status", status)
		}
	}

	if _, _, err := s.viewableProject(ctx, viewer, projectID); err != nil {
		return nil, err
	}

	tasks, err := s.repos.Tasks.ListByProject(ctx, projectID, filter)
	if err != nil {
		s.logger.Error("failed to list tasks", zap.Error(err), zap.String("project_id", id))
		return nil, services.WrapInternal("failed to list tasks", err)
	}
	return tasks, nil
}

// ListProjects returns the projects the user owns or belongs to
func (s *ProjectService) ListProjects(ctx context.Context, userID string, limit, offset int) ([]*models.Project, error) {
	if s.repos == nil {
		return nil, services.ErrDatabaseUnavailable
	}
	if userID == "" {
		return nil, services.ErrUnauthorized
	}
	limit, offset = page(limit, offset)

	projects, err := s.repos.Projects.ListByMember(ctx, userID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list projects", zap.Error(err), zap.String("user_id", userID))
		return nil, services.WrapInternal("failed to list projects", err)
	}
	return projects, nil
}

// ListAllProjects returns every project, most recently updated first. Admin only.
func (s *ProjectService) ListAllProjects(ctx context.Context, viewer Viewer, limit, offset int) ([]*models.Project, error) {
	if s.repos == nil {
		return nil, services.ErrDatabaseUnavailable
	}
	if viewer.ID == "" {
		return nil, services.ErrUnauthorized
	}
	if !viewer.Admin {
		return nil, services.ErrInsufficientPermissions
	}
	limit, offset = page(limit, offset)

	projects, err := s.repos.Projects.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list all projects", zap.Error(err), zap.String("user_id", viewer.ID))
		return nil, services.WrapInternal("failed to list projects", err)
	}
	return projects, nil
}

// CreateProject stores a new project with its owner as admin member, in one transaction
func (s *ProjectService) CreateProject(ctx context.Context, owner Owner, req CreateProjectRequest) (*models.Project, error) {
	if s.repos == nil || s.txMgr == nil {
		return nil, services.ErrDatabaseUnavailable
	}
	if owner.ID == "" {
		return nil, services.ErrUnauthorized
	}
	if err := utils.ValidateStruct(req); err != nil {
		verr := services.NewDomainError(services.ErrorTypeValidation, "invalid project", err)
		for field, msg := range utils.GetValidationFields(err) {
			verr = verr.WithDetail(field, msg)
		}
		return nil, verr
	}

	project := models.NewProject(req.Name, req.Description, owner.ID)
	project.URL = req.URL
	member := models.NewProjectMember(project.ID, owner.ID, owner.Email, owner.Name, models.RoleAdmin)

	err := s.txMgr.InTransaction(ctx, func(ctx context.Context) error {
		if err := s.repos.Projects.Create(ctx, project); err != nil {
			return err
		}
		return s.repos.Members.Add(ctx, member)
	})
	if err != nil {
		s.logger.Error("failed to create project", zap.Error(err), zap.String("owner_id", owner.ID))
		return nil, services.NewDomainError(services.ErrorTypeInternal, "transaction failed", err)
	}

	s.logger.Info("project created",
		zap.String("project_id", project.ID.String()),
		zap.String("owner_id", owner.ID))
	return project, nil
}

// viewableProject loads a project and checks the viewer may read it. A
// project the viewer cannot see reports not found, so ids of other users'
// projects are not confirmed. members is non-nil when the check loaded them.
func (s *ProjectService) viewableProject(ctx context.Context, viewer Viewer, id uuid.UUID) (*models.Project, []*models.ProjectMember, error) {
	if viewer.ID == "" {
		return nil, nil, services.ErrUnauthorized
	}
	project, err := s.getProject(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if viewer.Admin || project.OwnerID == viewer.ID {
		return project, nil, nil
	}

	members, err := s.listMembers(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	for _, m := range members {
		if m.UserID == viewer.ID {
			return project, members, nil
		}
	}
	s.logger.Debug("project hidden from non-member",
		zap.String("project_id", id.String()),
		zap.String("user_id", viewer.ID))
	return nil, nil, services.ErrProjectNotFound.WithDetail("project_id", id.String())
}

func (s *ProjectService) listMembers(ctx context.Context, id uuid.UUID) ([]*models.ProjectMember, error) {
	members, err := s.repos.Members.ListByProject(ctx, id)
	if err != nil {
		s.logger.Error("failed to list project members", zap.Error(err), zap.String("project_id", id.String()))
		return nil, services.WrapInternal("failed to list project members", err)
	}
	return members, nil
}

func (s *ProjectService) getProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := s.repos.Projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrProjectNotFound.WithDetail("project_id", id.String())
		}
		s.logger.Error("failed to get project", zap.Error(err), zap.String("project_id", id.String()))
		return nil, services.WrapInternal(fmt.Sprintf("failed to get project %s", id), err)
	}
	return project, nil
}

func page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func parseProjectID(id string) (uuid.UUID, error) {
	projectID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, services.ErrInvalidProjectID.WithDetail("project_id", id)
	}
	return projectID, nil
}
