package handlers

import (
	"context"
	"net/http"

	"github.com/zeno/dashboard/auth"
	"github.com/zeno/dashboard/config"
	"github.com/zeno/dashboard/internal/layout"
	"github.com/zeno/dashboard/internal/navigation"
	"github.com/zeno/dashboard/internal/ui"
	"github.com/zeno/dashboard/models"
	"github.com/zeno/dashboard/services"
	"go.uber.org/zap"
)

// GoldPath is the page /dashboards/project forwards to
const GoldPath = "/gold"

// SessionSource resolves the session of a request; nil means signed out
type SessionSource interface {
	Session(r *http.Request) *auth.Session
}

// PageRenderer renders signed-in pages
type PageRenderer interface {
	Chrome(req *http.Request, title string) layout.Chrome
	RenderPage(w http.ResponseWriter, status int, name string, page layout.PostLoginPage) error
}

// ProjectLister lists the projects of a user
type ProjectLister interface {
	ListProjects(ctx context.Context, userID string, limit, offset int) ([]*models.Project, error)
}

// PageHandler serves the redirect routes and server-rendered dashboard pages
type PageHandler struct {
	app      config.AppConfig
	sessions SessionSource
	renderer PageRenderer
	projects ProjectLister
	tree     []navigation.Node
	logger   *zap.Logger
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(app config.AppConfig, sessions SessionSource, renderer PageRenderer, projects ProjectLister, logger *zap.Logger) *PageHandler {
	return &PageHandler{
		app:      app,
		sessions: sessions,
		renderer: renderer,
		projects: projects,
		tree:     navigation.DefaultTree(),
		logger:   logger,
	}
}

// HandleDashboardsProject handles GET /dashboards/project
func (h *PageHandler) HandleDashboardsProject(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, GoldPath, http.StatusTemporaryRedirect)
}

// HandleEntry handles GET / and GET /dashboard: signed-in users go to the
// authenticated entry path, everyone else to sign-in.
func (h *PageHandler) HandleEntry(w http.ResponseWriter, r *http.Request) {
	target := h.app.UnAuthenticatedEntryPath
	if h.sessions.Session(r) != nil {
		target = h.app.AuthenticatedEntryPath
	}
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}

// HandleGold handles GET /gold. Expects RequireSession upstream.
func (h *PageHandler) HandleGold(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := h.sessions.Session(r)
	user := auth.ToCurrentUser(session)

	var projects []*models.Project
	if user != nil && h.projects != nil {
		list, err := h.projects.ListProjects(ctx, user.ID, 0, 0)
		switch {
		case err == nil:
			projects = list
		case services.IsUnavailableError(err):
			h.logger.Debug("rendering gold page without projects", zap.Error(err))
		default:
			h.logger.Warn("failed to load projects for gold page", zap.Error(err), zap.String("user_id", user.ID))
		}
	}

	page := layout.PostLoginPage{
		Chrome: h.renderer.Chrome(r, "Gold"),
		User:   user,
		Menu:   h.menu(r, session.Authority()),
		Body:   ui.NewGoldBody(user, projects),
	}
	if err := h.renderer.RenderPage(w, http.StatusOK, ui.PageGold, page); err != nil {
		h.logger.Error("failed to render gold page", zap.Error(err))
	}
}

// HandleTheme handles POST /theme, storing the color mode and returning to the page
func (h *PageHandler) HandleTheme(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	ui.SetTheme(w, ui.Mode(r.PostForm.Get("mode")))
	http.Redirect(w, r, auth.SafeCallback(r.PostForm.Get("redirect"), GoldPath), http.StatusSeeOther)
}

func (h *PageHandler) menu(r *http.Request, authority []string) navigation.Menu {
	opts := navigation.MenuOptions{
		CurrentPath: r.URL.Path,
		Authority:   authority,
	}
	if h.app.ActiveNavTranslation {
		tag := navigation.NegotiateLocale(r.Header.Get("Accept-Language"), h.app.Locale)
		opts.Translate = navigation.Translator(tag)
	}
	return navigation.BuildMenu(h.tree, opts)
}
