package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/zeno/dashboard/auth"
	"github.com/zeno/dashboard/internal/navigation"
	"github.com/zeno/dashboard/models"
	"github.com/zeno/dashboard/services"
	"github.com/zeno/dashboard/services/projects"
	"github.com/zeno/dashboard/utils"
	"go.uber.org/zap"
)

// ProjectAPI is the project service surface used by the JSON API
type ProjectAPI interface {
	GetProject(ctx context.Context, viewer projects.Viewer, id string) (*models.Project, error)
	GetProjectMembers(ctx context.Context, viewer projects.Viewer, id string) ([]*models.ProjectMember, error)
	ListTasks(ctx context.Context, viewer projects.Viewer, id, status string) ([]*models.Task, error)
	ListProjects(ctx context.Context, userID string, limit, offset int) ([]*models.Project, error)
	ListAllProjects(ctx context.Context, viewer projects.Viewer, limit, offset int) ([]*models.Project, error)
	CreateProject(ctx context.Context, owner projects.Owner, req projects.CreateProjectRequest) (*models.Project, error)
}

// ProjectHandler handles the /api/projects routes. Expects RequireSession upstream.
type ProjectHandler struct {
	service  ProjectAPI
	sessions SessionSource
	logger   *zap.Logger
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(service ProjectAPI, sessions SessionSource, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		service:  service,
		sessions: sessions,
		logger:   logger,
	}
}

// HandleList handles GET /api/projects?limit=&offset=
func (h *ProjectHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := auth.ToCurrentUser(h.sessions.Session(r))
	if user == nil {
		HandleServiceError(w, services.ErrUnauthorized, h.logger)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	list, err := h.service.ListProjects(r.Context(), user.ID, limit, offset)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, list)
}

// HandleCreate handles POST /api/projects
func (h *ProjectHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Session(r)
	user := auth.ToCurrentUser(session)
	if user == nil {
		HandleServiceError(w, services.ErrUnauthorized, h.logger)
		return
	}

	var req projects.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	project, err := h.service.CreateProject(r.Context(), projects.Owner{ID: user.ID, Email: user.Email, Name: user.Name}, req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteCreated(w, project)
}

// HandleListAll handles GET /api/projects/all?limit=&offset=
func (h *ProjectHandler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.viewer(r)
	if !ok {
		HandleServiceError(w, services.ErrUnauthorized, h.logger)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	list, err := h.service.ListAllProjects(r.Context(), viewer, limit, offset)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, list)
}

// HandleGet handles GET /api/projects/{id}
func (h *ProjectHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.viewer(r)
	if !ok {
		HandleServiceError(w, services.ErrUnauthorized, h.logger)
		return
	}
	project, err := h.service.GetProject(r.Context(), viewer, chi.URLParam(r, "id"))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, project)
}

// HandleMembers handles GET /api/projects/{id}/members
func (h *ProjectHandler) HandleMembers(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.viewer(r)
	if !ok {
		HandleServiceError(w, services.ErrUnauthorized, h.logger)
		return
	}
	members, err := h.service.GetProjectMembers(r.Context(), viewer, chi.URLParam(r, "id"))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, members)
}

// HandleTasks handles GET /api/projects/{id}/tasks?status=
func (h *ProjectHandler) HandleTasks(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.viewer(r)
	if !ok {
		HandleServiceError(w, services.ErrUnauthorized, h.logger)
		return
	}
	tasks, err := h.service.ListTasks(r.Context(), viewer, chi.URLParam(r, "id"), r.URL.Query().Get("status"))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, tasks)
}

// viewer maps the request session to a project viewer
func (h *ProjectHandler) viewer(r *http.Request) (projects.Viewer, bool) {
	session := h.sessions.Session(r)
	user := auth.ToCurrentUser(session)
	if user == nil || user.ID == "" {
		return projects.Viewer{}, false
	}
	return projects.Viewer{
		ID:    user.ID,
		Admin: session.User.HasAuthority(navigation.AuthorityAdmin),
	}, true
}
