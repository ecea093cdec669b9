package middleware

import (
	"net/http"
	"strings"

	"github.com/zeno/dashboard/auth"
	"github.com/zeno/dashboard/config"
	"github.com/zeno/dashboard/internal/navigation"
	"github.com/zeno/dashboard/utils"
	"go.uber.org/zap"
)

// AuthMiddleware gates routes on the dashboard session
type AuthMiddleware struct {
	accessor *auth.Accessor
	app      config.AppConfig
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(accessor *auth.Accessor, app config.AppConfig, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		accessor: accessor,
		app:      app,
		logger:   logger,
	}
}

// Session returns the request's session, resolving it through the accessor
// when LoadSession has not run. Provider failures read as no session.
func (m *AuthMiddleware) Session(r *http.Request) *auth.Session {
	if s, ok := GetSessionFromContext(r.Context()); ok {
		return s
	}
	return m.accessor.Session(r.Context(), r)
}

// LoadSession resolves the session once and stores it in the request context
func (m *AuthMiddleware) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if _, ok := GetSessionFromContext(ctx); ok {
			next.ServeHTTP(w, r)
			return
		}
		session := m.accessor.Session(ctx, r)
		next.ServeHTTP(w, r.WithContext(WithSession(ctx, session)))
	})
}

// RequireSession rejects requests without a session. Pages are redirected
// to the sign-in page with a callbackUrl; API routes get a 401 JSON body.
func (m *AuthMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		session := m.Session(r)
		if session == nil {
			m.logger.Debug("session required",
				zap.String("request_id", GetRequestIDFromContext(ctx)),
				zap.String("path", r.URL.Path))
			if m.isAPI(r) {
				_ = utils.WriteUnauthorized(w, "Authentication required")
				return
			}
			http.Redirect(w, r, auth.SignInURL(m.app.UnAuthenticatedEntryPath, r), http.StatusTemporaryRedirect)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSession(ctx, session)))
	})
}

// RequireAuthority requires every listed authority, using the same subset
// rule as the navigation filter. Should run after RequireSession.
func (m *AuthMiddleware) RequireAuthority(required ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := m.Session(r)
			if session == nil {
				_ = utils.WriteUnauthorized(w, "Authentication required")
				return
			}
			if !navigation.Allowed(required, session.Authority()) {
				m.logger.Warn("insufficient permissions",
					zap.String("request_id", GetRequestIDFromContext(r.Context())),
					zap.Strings("required_authority", required),
					zap.Strings("user_authority", session.Authority()))
				_ = utils.WriteForbidden(w, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m *AuthMiddleware) isAPI(r *http.Request) bool {
	prefix := strings.TrimSuffix(m.app.APIPrefix, "/")
	if prefix == "" {
		return false
	}
	return r.URL.Path == prefix || strings.HasPrefix(r.URL.Path, prefix+"/")
}
