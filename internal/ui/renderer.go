package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/zeno/dashboard/auth"
	"github.com/zeno/dashboard/config"
	"github.com/zeno/dashboard/internal/layout"
	"github.com/zeno/dashboard/internal/navigation"
	"go.uber.org/zap"
)

// AppName is shown in page titles and layout chrome.
const AppName = "GoldTrader Pro"

//go:embed templates/*.html
var templateFS embed.FS

var sharedTemplates = []string{"templates/base.html", "templates/card.html", "templates/nav.html"}

var formTemplates = map[string]string{
	auth.PageSignIn:         "templates/sign_in.html",
	auth.PageSignUp:         "templates/sign_up.html",
	auth.PageForgotPassword: "templates/forgot_password.html",
}

var formTitles = map[string]string{
	auth.PageSignIn:         "Sign In",
	auth.PageSignUp:         "Sign Up",
	auth.PageForgotPassword: "Forgot Password",
}

// Page names rendered inside the signed-in layout.
const (
	PageGold = "gold"
)

var pageTemplates = map[string]string{
	PageGold: "templates/gold.html",
}

// Renderer holds the parsed page templates.
type Renderer struct {
	app    config.AppConfig
	layout layout.Variant
	auth   map[string]*template.Template
	pages  map[string]*template.Template
	logger *zap.Logger
}

// Funcs returns the template helpers available to every page.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"link": linkFunc,
	}
}

// NewRenderer parses every page once for the configured auth layout.
func NewRenderer(app config.AppConfig, logger *zap.Logger) (*Renderer, error) {
	variant := layout.Resolve(app.AuthLayout)
	if _, ok := layout.Lookup(app.AuthLayout); !ok && app.AuthLayout != "" {
		logger.Warn("unknown auth layout, using default",
			zap.String("auth_layout", app.AuthLayout),
			zap.String("default", variant.Template),
			zap.Strings("available", layout.Names()))
	}
	r := &Renderer{
		app:    app,
		layout: variant,
		auth:   make(map[string]*template.Template, len(formTemplates)),
		pages:  make(map[string]*template.Template, len(pageTemplates)),
		logger: logger,
	}

	for page, file := range formTemplates {
		files := append(append([]string{}, sharedTemplates...), "templates/"+variant.Template+".html", file)
		t, err := template.New(page).Funcs(Funcs()).ParseFS(templateFS, files...)
		if err != nil {
			return nil, fmt.Errorf("parse %s templates: %w", page, err)
		}
		r.auth[page] = t
	}

	for page, file := range pageTemplates {
		files := append(append([]string{}, sharedTemplates...), "templates/post_login.html", file)
		t, err := template.New(page).Funcs(Funcs()).ParseFS(templateFS, files...)
		if err != nil {
			return nil, fmt.Errorf("parse %s templates: %w", page, err)
		}
		r.pages[page] = t
	}

	return r, nil
}

// Layout returns the auth layout variant in use.
func (r *Renderer) Layout() layout.Variant {
	return r.layout
}

// Chrome builds the shared page metadata for req.
func (r *Renderer) Chrome(req *http.Request, title string) layout.Chrome {
	return layout.Chrome{
		Title:       title,
		AppName:     AppName,
		CurrentPath: req.URL.Path,
		Locale:      navigation.NegotiateLocale(req.Header.Get("Accept-Language"), r.app.Locale).String(),
		Theme:       string(ThemeFromRequest(req).Mode),
	}
}

// RenderAuthForm renders an auth form inside the configured auth layout.
func (r *Renderer) RenderAuthForm(w http.ResponseWriter, req *http.Request, status int, form auth.Form) error {
	t, ok := r.auth[form.Page]
	if !ok {
		return fmt.Errorf("unknown auth page %q", form.Page)
	}
	page := layout.AuthPage{
		Chrome: r.Chrome(req, formTitles[form.Page]),
		Layout: r.layout,
		Form:   form,
	}
	return r.execute(w, t, status, page)
}

// RenderPage renders a signed-in page with side navigation.
func (r *Renderer) RenderPage(w http.ResponseWriter, status int, name string, page layout.PostLoginPage) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return r.execute(w, t, status, page)
}

// execute renders into a buffer first so a template failure never leaves a
// half-written response.
func (r *Renderer) execute(w http.ResponseWriter, t *template.Template, status int, data interface{}) error {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		r.logger.Error("template execution failed", zap.String("template", t.Name()), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
