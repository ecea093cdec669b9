package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeno/dashboard/models"
	"github.com/zeno/dashboard/repositories"
	"go.uber.org/zap"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return &DB{DB: sqlDB, logger: zap.NewNop()}, mock
}

var projectRowColumns = []string{"id", "name", "description", "status", "progress", "url", "owner_id", "created_at", "updated_at"}

func TestProjectRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewProjectRepository(db, zap.NewNop())
		id := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("FROM projects WHERE id = $1")).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(projectRowColumns).
				AddRow(id.String(), "Gold Vault", "desc", "active", 40, "https://example.com", "user-1", now, now))

		project, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, project.ID)
		assert.Equal(t, models.ProjectStatusActive, project.Status)
		assert.Equal(t, 40, project.Progress)
		require.NotNil(t, project.URL)
		assert.Equal(t, "https://example.com", *project.URL)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("null url", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewProjectRepository(db, zap.NewNop())
		id := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("FROM projects WHERE id = $1")).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(projectRowColumns).
				AddRow(id.String(), "Gold Vault", "", "on_hold", 0, nil, "user-1", now, now))

		project, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, project.URL)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewProjectRepository(db, zap.NewNop())
		id := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("FROM projects WHERE id = $1")).
			WithArgs(id).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(ctx, id)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("query error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewProjectRepository(db, zap.NewNop())

		mock.ExpectQuery("FROM projects").WillReturnError(errors.New("connection reset"))

		_, err := repo.GetByID(ctx, uuid.New())
		require.Error(t, err)
		assert.NotErrorIs(t, err, repositories.ErrNotFound)
		assert.Contains(t, err.Error(), "failed to get project")
	})
}

func TestProjectRepository_List(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	db, mock := newMockDB(t)
	repo := NewProjectRepository(db, zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY updated_at DESC")).
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows(projectRowColumns).
			AddRow(uuid.New().String(), "A", "", "active", 10, nil, "u", now, now).
			AddRow(uuid.New().String(), "B", "", "completed", 100, nil, "u", now, now))

	projects, err := repo.List(ctx, 20, 0)
	require.NoError(t, err)
	assert.Len(t, projects, 2)
	assert.Equal(t, "B", projects[1].Name)

	mock.ExpectQuery(regexp.QuoteMeta("project_members WHERE user_id = $1")).
		WithArgs("user-1", 10, 5).
		WillReturnRows(sqlmock.NewRows(projectRowColumns))

	projects, err = repo.ListByMember(ctx, "user-1", 10, 5)
	require.NoError(t, err)
	assert.Empty(t, projects)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProjectRepository(db, zap.NewNop())
	project := models.NewProject("Gold Vault", "desc", "user-1")

	mock.ExpectExec("INSERT INTO projects").
		WithArgs(project.ID, project.Name, project.Description, "active", 0, nil, "user-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), project))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberRepository(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewMemberRepository(db, zap.NewNop())
	projectID := uuid.New()

	member := models.NewProjectMember(projectID, "user-1", "ada@example.com", "Ada", models.RoleAdmin)
	mock.ExpectExec("INSERT INTO project_members").
		WithArgs(member.ID, projectID, "user-1", "ada@example.com", "Ada", "admin", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Add(ctx, member))

	mock.ExpectQuery(regexp.QuoteMeta("FROM project_members")).
		WithArgs(projectID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "user_id", "email", "name", "role", "joined_at"}).
			AddRow(member.ID.String(), projectID.String(), "user-1", "ada@example.com", "Ada", "admin", time.Now()))

	members, err := repo.ListByProject(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.True(t, members[0].IsAdmin())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_ListByProject(t *testing.T) {
	ctx := context.Background()
	columns := []string{"id", "project_id", "title", "status", "priority", "assignee_id", "due_date", "created_at", "updated_at"}
	now := time.Now()

	t.Run("all tasks", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewTaskRepository(db, zap.NewNop())
		projectID := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at ASC")).
			WithArgs(projectID).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(uuid.New().String(), projectID.String(), "Audit", "todo", "high", "user-1", now, now, now).
				AddRow(uuid.New().String(), projectID.String(), "Ship", "done", "low", nil, nil, now, now))

		tasks, err := repo.ListByProject(ctx, projectID, nil)
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		require.NotNil(t, tasks[0].AssigneeID)
		assert.Equal(t, "user-1", *tasks[0].AssigneeID)
		assert.NotNil(t, tasks[0].DueDate)
		assert.Nil(t, tasks[1].AssigneeID)
		assert.Nil(t, tasks[1].DueDate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("filtered by status", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewTaskRepository(db, zap.NewNop())
		projectID := uuid.New()
		status := models.TaskStatusDone

		mock.ExpectQuery(regexp.QuoteMeta("AND status = $2")).
			WithArgs(projectID, "done").
			WillReturnRows(sqlmock.NewRows(columns))

		tasks, err := repo.ListByProject(ctx, projectID, &status)
		require.NoError(t, err)
		assert.Empty(t, tasks)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMigrate(t *testing.T) {
	ctx := context.Background()

	t.Run("applies schema once", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).WithArgs(schemaVersion).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS projects").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("INSERT INTO schema_migrations").WithArgs(schemaVersion).WillReturnResult(sqlmock.NewResult(0, 1))

		applied, err := db.Migrate(ctx)
		require.NoError(t, err)
		assert.True(t, applied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("skips when up to date", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).WithArgs(schemaVersion).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		applied, err := db.Migrate(ctx)
		require.NoError(t, err)
		assert.False(t, applied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransactionManager(t *testing.T) {
	ctx := context.Background()

	t.Run("commits and routes queries through the transaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		tm := NewTransactionManager(db, zap.NewNop())
		repo := NewProjectRepository(db, zap.NewNop())
		project := models.NewProject("Gold Vault", "", "user-1")

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO projects").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := tm.InTransaction(ctx, func(ctx context.Context) error {
			return repo.Create(ctx, project)
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock := newMockDB(t)
		tm := NewTransactionManager(db, zap.NewNop())

		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := tm.InTransaction(ctx, func(ctx context.Context) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nested calls join the outer transaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		tm := NewTransactionManager(db, zap.NewNop())

		mock.ExpectBegin()
		mock.ExpectCommit()

		err := tm.InTransaction(ctx, func(ctx context.Context) error {
			return tm.InTransaction(ctx, func(ctx context.Context) error { return nil })
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		tm := NewTransactionManager(db, zap.NewNop())
		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		called := false
		err := tm.InTransaction(ctx, func(ctx context.Context) error {
			called = true
			return nil
		})
		assert.ErrorContains(t, err, "failed to begin transaction")
		assert.False(t, called)
	})
}
