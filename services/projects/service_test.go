package projects

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zeno/dashboard/models"
	"github.com/zeno/dashboard/repositories"
	"github.com/zeno/dashboard/services"
	"go.uber.org/zap"
)

type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return m.Called(ctx, project).Error(0)
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*models.Project), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProjectRepository) List(ctx context.Context, limit, offset int) ([]*models.Project, error) {
	args := m.Called(ctx, limit, offset)
	if p := args.Get(0); p != nil {
		return p.([]*models.Project), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProjectRepository) ListByMember(ctx context.Context, userID string, limit, offset int) ([]*models.Project, error) {
	args := m.Called(ctx, userID, limit, offset)
	if p := args.Get(0); p != nil {
		return p.([]*models.Project), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) Add(ctx context.Context, member *models.ProjectMember) error {
	return m.Called(ctx, member).Error(0)
}

func (m *MockMemberRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.ProjectMember, error) {
	args := m.Called(ctx, projectID)
	if p := args.Get(0); p != nil {
		return p.([]*models.ProjectMember), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockTaskRepository) ListByProject(ctx context.Context, projectID uuid.UUID, status *models.TaskStatus) ([]*models.Task, error) {
	args := m.Called(ctx, projectID, status)
	if p := args.Get(0); p != nil {
		return p.([]*models.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

// fakeTxManager runs fn inline and records the outcome
type fakeTxManager struct {
	committed  bool
	rolledBack bool
}

func (f *fakeTxManager) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		f.rolledBack = true
		return err
	}
	f.committed = true
	return nil
}

type fixture struct {
	projects *MockProjectRepository
	members  *MockMemberRepository
	tasks    *MockTaskRepository
	tx       *fakeTxManager
	svc      *ProjectService
}

func newFixture() *fixture {
	f := &fixture{
		projects: new(MockProjectRepository),
		members:  new(MockMemberRepository),
		tasks:    new(MockTaskRepository),
		tx:       &fakeTxManager{},
	}
	repos := &repositories.Repositories{Projects: f.projects, Members: f.members, Tasks: f.tasks}
	f.svc = NewProjectService(repos, f.tx, zap.NewNop())
	return f
}

var (
	ownerViewer    = Viewer{ID: "user-1"}
	strangerViewer = Viewer{ID: "user-2"}
	adminViewer    = Viewer{ID: "admin-1", Admin: true}
)

func TestGetProject(t *testing.T) {
	ctx := context.Background()

	t.Run("owner", func(t *testing.T) {
		f := newFixture()
		project := models.NewProject("Gold Vault", "", "user-1")
		f.projects.On("GetByID", ctx, project.ID).Return(project, nil)

		got, err := f.svc.GetProject(ctx, ownerViewer, project.ID.String())
		require.NoError(t, err)
		assert.Equal(t, project, got)
		f.projects.AssertExpectations(t)
		f.members.AssertNotCalled(t, "ListByProject", mock.Anything, mock.Anything)
	})

	t.Run("member", func(t *testing.T) {
		f := newFixture()
		project := models.NewProject("Gold Vault", "", "user-1")
		f.projects.On("GetByID", ctx, project.ID).Return(project, nil)
		f.members.On("ListByProject", ctx, project.ID).Return([]*models.ProjectMember{
			models.NewProjectMember(project.ID, "user-2", "bo@example.com", "Bo", models.RoleMember),
		}, nil)

		got, err := f.svc.GetProject(ctx, strangerViewer, project.ID.String())
		require.NoError(t, err)
		assert.Equal(t, project, got)
	})

	t.Run("non-member sees not found", func(t *testing.T) {
		f := newFixture()
		project := models.NewProject("Gold Vault", "", "user-1")
		f.projects.On("GetByID", ctx, project.ID).Return(project, nil)
		f.members.On("ListByProject", ctx, project.ID).Return([]*models.ProjectMember{
			models.NewProjectMember(project.ID, "user-1", "ada@example.com", "Ada", models.RoleAdmin),
		}, nil)

		got, err := f.svc.GetProject(ctx, strangerViewer, project.ID.String())
		assert.Nil(t, got)
		assert.ErrorIs(t, err, services.ErrProjectNotFound)
	})

	t.Run("admin", func(t *testing.T) {
		f := newFixture()
		project := models.NewProject("Gold Vault", "", "user-1")
		f.projects.On("GetByID", ctx, project.ID).Return(project, nil)

		_, err := f.svc.GetProject(ctx, adminViewer, project.ID.String())
		require.NoError(t, err)
		f.members.AssertNotCalled(t, "ListByProject", mock.Anything, mock.Anything)
	})

	t.Run("anonymous", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.GetProject(ctx, Viewer{}, uuid.NewString())
		assert.True(t, services.IsUnauthorizedError(err))
		f.projects.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("invalid id", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.GetProject(ctx, ownerViewer, "not-a-uuid")
		assert.True(t, services.IsValidationError(err))
		assert.Equal(t, "not-a-uuid", services.GetErrorDetails(err)["project_id"])
		f.projects.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()
		f.projects.On("GetByID", ctx, id).Return(nil, repositories.ErrNotFound)

		_, err := f.svc.GetProject(ctx, ownerViewer, id.String())
		assert.ErrorIs(t, err, services.ErrProjectNotFound)
	})

	t.Run("repository failure", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()
		f.projects.On("GetByID", ctx, id).Return(nil, errors.New("connection reset"))

		_, err := f.svc.GetProject(ctx, ownerViewer, id.String())
		assert.True(t, services.IsInternalError(err))
	})

	t.Run("no database", func(t *testing.T) {
		svc := NewProjectService(nil, nil, zap.NewNop())
		_, err := svc.GetProject(ctx, ownerViewer, uuid.NewString())
		assert.True(t, services.IsUnavailableError(err))
	})
}

func TestGetProjectMembers(t *testing.T) {
	ctx := context.Background()
	project := models.NewProject("Gold Vault", "", "user-1")
	member := models.NewProjectMember(project.ID, "user-1", "ada@example.com", "Ada", models.RoleAdmin)

	t.Run("owner", func(t *testing.T) {
		f := newFixture()
		f.projects.On("GetByID", ctx, project.ID).Return(project, nil)
		f.members.On("ListByProject", ctx, project.ID).Return([]*models.ProjectMember{member}, nil)

		members, err := f.svc.GetProjectMembers(ctx, ownerViewer, project.ID.String())
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, "Ada", members[0].Name)
	})

	t.Run("member reuses the membership lookup", func(t *testing.T) {
		f := newFixture()
		other := models.NewProjectMember(project.ID, "user-2", "bo@example.com", "Bo", models.RoleMember)
		f.projects.On("GetByID", ctx, project.ID).Return(project, nil)
		f.members.On("ListByProject", ctx, project.ID).Return([]*models.ProjectMember{member, other}, nil)

		members, err := f.svc.GetProjectMembers(ctx, strangerViewer, project.ID.String())
		require.NoError(t, err)
		assert.Len(t, members, 2)
		f.members.AssertNumberOfCalls(t, "ListByProject", 1)
	})

	t.Run("non-member never sees member emails", func(t *testing.T) {
		f := newFixture()
		f.projects.On("GetByID", ctx, project.ID).Return(project, nil)
		f.members.On("ListByProject", ctx, project.ID).Return([]*models.ProjectMember{member}, nil)

		members, err := f.svc.GetProjectMembers(ctx, Viewer{ID: "user-3"}, project.ID.String())
		assert.Nil(t, members)
		assert.True(t, services.IsNotFoundError(err))
	})

	t.Run("missing project", func(t *testing.T) {
		f := newFixture()
		missing := uuid.New()
		f.projects.On("GetByID", ctx, missing).Return(nil, repositories.ErrNotFound)

		_, err := f.svc.GetProjectMembers(ctx, ownerViewer, missing.String())
		assert.True(t, services.IsNotFoundError(err))
		f.members.AssertNotCalled(t, "ListByProject", mock.Anything, mock.Anything)
	})
}

func TestListTasks(t *testing.T) {
	ctx := context.Background()

	t.Run("status filter", func(t *testing.T) {
		f := newFixture()
		project := models.NewProject("Gold Vault", "", "user-1")
		done := models.TaskStatusDone
		f.projects.On("GetByID", ctx, project.ID).Return(project, nil)
		f.tasks.On("ListByProject", ctx, project.ID, &done).Return([]*models.Task{}, nil)

		tasks, err := f.svc.ListTasks(ctx, ownerViewer, project.ID.String(), "done")
		require.NoError(t, err)
		assert.Empty(t, tasks)
		f.tasks.AssertExpectations(t)
	})

	t.Run("no filter", func(t *testing.T) {
		f := newFixture()
		project := models.NewProject("Gold Vault", "", "user-1")
		task := models.NewTask(project.ID, "Audit", models.TaskPriorityHigh)
		f.projects.On("GetByID", ctx, project.ID).Return(project, nil)
		f.tasks.On("ListByProject", ctx, project.ID, (*models.TaskStatus)(nil)).Return([]*models.Task{task}, nil)

		tasks, err := f.svc.ListTasks(ctx, ownerViewer, project.ID.String(), "")
		require.NoError(t, err)
		assert.Len(t, tasks, 1)
	})

	t.Run("non-member", func(t *testing.T) {
		f := newFixture()
		project := models.NewProject("Gold Vault", "", "user-1")
		f.projects.On("GetByID", ctx, project.ID).Return(project, nil)
		f.members.On("ListByProject", ctx, project.ID).Return([]*models.ProjectMember{}, nil)

		_, err := f.svc.ListTasks(ctx, strangerViewer, project.ID.String(), "")
		assert.ErrorIs(t, err, services.ErrProjectNotFound)
		f.tasks.AssertNotCalled(t, "ListByProject", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown status", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.ListTasks(ctx, ownerViewer, uuid.NewString(), "blocked")
		assert.ErrorIs(t, err, services.ErrInvalidStatus)
		f.projects.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestListProjects(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.projects.On("ListByMember", ctx, "user-1", defaultListLimit, 0).Return([]*models.Project{}, nil)
	f.projects.On("ListByMember", ctx, "user-1", maxListLimit, 10).Return([]*models.Project{}, nil)

	_, err := f.svc.ListProjects(ctx, "user-1", 0, -5)
	require.NoError(t, err)
	_, err = f.svc.ListProjects(ctx, "user-1", 5000, 10)
	require.NoError(t, err)
	f.projects.AssertExpectations(t)

	_, err = f.svc.ListProjects(ctx, "", 10, 0)
	assert.True(t, services.IsUnauthorizedError(err))
}

func TestListAllProjects(t *testing.T) {
	ctx := context.Background()

	t.Run("admin", func(t *testing.T) {
		f := newFixture()
		f.projects.On("List", ctx, defaultListLimit, 0).Return([]*models.Project{models.NewProject("Gold Vault", "", "user-1")}, nil)

		list, err := f.svc.ListAllProjects(ctx, adminViewer, 0, 0)
		require.NoError(t, err)
		assert.Len(t, list, 1)
		f.projects.AssertExpectations(t)
	})

	t.Run("non-admin", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.ListAllProjects(ctx, ownerViewer, 10, 0)
		assert.True(t, services.IsForbiddenError(err))
		f.projects.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("anonymous", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.ListAllProjects(ctx, Viewer{Admin: true}, 10, 0)
		assert.True(t, services.IsUnauthorizedError(err))
	})
}

func TestCreateProject(t *testing.T) {
	ctx := context.Background()
	owner := Owner{ID: "user-1", Email: "ada@example.com", Name: "Ada"}

	t.Run("creates project and admin membership", func(t *testing.T) {
		f := newFixture()
		f.projects.On("Create", ctx, mock.AnythingOfType("*models.Project")).Return(nil)
		f.members.On("Add", ctx, mock.MatchedBy(func(m *models.ProjectMember) bool {
			return m.UserID == "user-1" && m.IsAdmin()
		})).Return(nil)

		project, err := f.svc.CreateProject(ctx, owner, CreateProjectRequest{Name: "Gold Vault"})
		require.NoError(t, err)
		assert.Equal(t, "user-1", project.OwnerID)
		assert.True(t, f.tx.committed)
		f.projects.AssertExpectations(t)
		f.members.AssertExpectations(t)
	})

	t.Run("rolls back when membership fails", func(t *testing.T) {
		f := newFixture()
		f.projects.On("Create", ctx, mock.Anything).Return(nil)
		f.members.On("Add", ctx, mock.Anything).Return(errors.New("duplicate key"))

		_, err := f.svc.CreateProject(ctx, owner, CreateProjectRequest{Name: "Gold Vault"})
		assert.ErrorIs(t, err, services.ErrTransactionFailed)
		assert.True(t, f.tx.rolledBack)
	})

	t.Run("validation", func(t *testing.T) {
		f := newFixture()
		bad := "not a url"
		_, err := f.svc.CreateProject(ctx, owner, CreateProjectRequest{Name: "x", URL: &bad})
		require.True(t, services.IsValidationError(err))
		details := services.GetErrorDetails(err)
		assert.Contains(t, details, "Name")
		assert.Contains(t, details, "URL")
		f.projects.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects non-http url schemes", func(t *testing.T) {
		for _, raw := range []string{"javascript:alert(document.cookie)", "data:text/html,hi", "ftp://example.com/vault"} {
			f := newFixture()
			u := raw
			_, err := f.svc.CreateProject(ctx, owner, CreateProjectRequest{Name: "Gold Vault", URL: &u})
			require.True(t, services.IsValidationError(err), raw)
			assert.Equal(t, "URL must be an http or https URL", services.GetErrorDetails(err)["URL"], raw)
			f.projects.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		}
	})

	t.Run("accepts https url", func(t *testing.T) {
		f := newFixture()
		f.projects.On("Create", ctx, mock.Anything).Return(nil)
		f.members.On("Add", ctx, mock.Anything).Return(nil)
		u := "https://example.com/vault"

		project, err := f.svc.CreateProject(ctx, owner, CreateProjectRequest{Name: "Gold Vault", URL: &u})
		require.NoError(t, err)
		assert.Equal(t, &u, project.URL)
	})

	t.Run("anonymous", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.CreateProject(ctx, Owner{}, CreateProjectRequest{Name: "Gold Vault"})
		assert.True(t, services.IsUnauthorizedError(err))
	})
}
