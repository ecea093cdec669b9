package auth

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/zeno/dashboard/config"
	"github.com/zeno/dashboard/supabase"
	"github.com/zeno/dashboard/utils"
	"go.uber.org/zap"
)

// Auth page names rendered by a FormRenderer.
const (
	PageSignIn         = "sign-in"
	PageSignUp         = "sign-up"
	PageForgotPassword = "forgot-password"
)

// CallbackParam is the query parameter carrying the post-login destination.
const CallbackParam = "callbackUrl"

// Form is the view model of an auth form page.
type Form struct {
	Page        string
	Email       string
	CallbackURL string
	Error       string
	Fields      map[string]string
}

// FormRenderer renders auth form pages inside the configured auth layout.
type FormRenderer interface {
	RenderAuthForm(w http.ResponseWriter, r *http.Request, status int, form Form) error
}

// SessionIssuer writes and clears the dashboard session cookie.
type SessionIssuer interface {
	Issue(w http.ResponseWriter, user User) (*Session, error)
	Clear(w http.ResponseWriter, r *http.Request)
}

// signInRequest is the posted sign-in form.
type signInRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// Handler serves the sign-in, sign-out and auth form pages.
type Handler struct {
	app      config.AppConfig
	supabase *supabase.Client
	issuer   SessionIssuer
	renderer FormRenderer
	logger   *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(app config.AppConfig, sb *supabase.Client, issuer SessionIssuer, renderer FormRenderer, logger *zap.Logger) *Handler {
	return &Handler{
		app:      app,
		supabase: sb,
		issuer:   issuer,
		renderer: renderer,
		logger:   logger,
	}
}

// Page renders the named auth form.
func (h *Handler) Page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form := Form{
			Page:        name,
			CallbackURL: SafeCallback(r.URL.Query().Get(CallbackParam), ""),
		}
		h.render(w, r, http.StatusOK, form)
	}
}

// HandleSignIn checks the posted credentials against Supabase Auth, stores the
// Supabase session cookie and issues the dashboard session.
func (h *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, Form{Page: PageSignIn, Error: "Invalid form submission"})
		return
	}

	req := signInRequest{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	form := Form{
		Page:        PageSignIn,
		Email:       req.Email,
		CallbackURL: SafeCallback(r.PostFormValue(CallbackParam), ""),
	}

	if err := utils.ValidateStruct(req); err != nil {
		form.Error = "Please check the highlighted fields"
		form.Fields = utils.GetValidationFields(err)
		h.render(w, r, http.StatusUnprocessableEntity, form)
		return
	}

	sbSession, err := h.supabase.Auth.SignInWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, supabase.ErrInvalidCredentials) {
			h.logger.Info("sign-in rejected", zap.String("email", req.Email))
			form.Error = "Invalid email or password"
			h.render(w, r, http.StatusUnauthorized, form)
			return
		}
		h.logger.Error("sign-in failed", zap.Error(err))
		form.Error = "Sign in is unavailable, please try again"
		h.render(w, r, http.StatusBadGateway, form)
		return
	}

	if err := h.supabase.Server(supabase.NewRequestCookies(r, w)).SetSession(sbSession); err != nil {
		h.logger.Error("failed to store supabase session", zap.Error(err))
		form.Error = "Sign in is unavailable, please try again"
		h.render(w, r, http.StatusInternalServerError, form)
		return
	}

	if _, err := h.issuer.Issue(w, UserFromSupabase(sbSession.User)); err != nil {
		h.logger.Error("failed to issue session", zap.Error(err))
		form.Error = "Sign in is unavailable, please try again"
		h.render(w, r, http.StatusInternalServerError, form)
		return
	}

	h.logger.Info("user signed in", zap.String("user_id", sbSession.User.ID))
	http.Redirect(w, r, SafeCallback(form.CallbackURL, h.app.AuthenticatedEntryPath), http.StatusSeeOther)
}

// HandleSignOut revokes the Supabase session, clears both cookies and
// redirects to the sign-in page.
func (h *Handler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	h.supabase.Server(supabase.NewRequestCookies(r, w)).SignOut(r.Context())
	h.issuer.Clear(w, r)
	http.Redirect(w, r, h.app.UnAuthenticatedEntryPath, http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, form Form) {
	if err := h.renderer.RenderAuthForm(w, r, status, form); err != nil {
		h.logger.Error("failed to render auth page", zap.String("page", form.Page), zap.Error(err))
	}
}

// SafeCallback returns target when it is a same-origin absolute path,
// otherwise fallback.
func SafeCallback(target, fallback string) string {
	if target == "" {
		return fallback
	}
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	u, err := url.Parse(target)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return fallback
	}
	return target
}

// SignInURL builds the sign-in redirect target carrying the original path.
func SignInURL(signInPath string, r *http.Request) string {
	callback := r.URL.RequestURI()
	if callback == "" || callback == signInPath {
		return signInPath
	}
	return signInPath + "?" + url.Values{CallbackParam: {callback}}.Encode()
}
