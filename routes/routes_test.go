package routes

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeno/dashboard/app"
	"github.com/zeno/dashboard/auth"
	"github.com/zeno/dashboard/config"
	"go.uber.org/zap/zaptest"
)

func newTestRouter(t *testing.T) (http.Handler, *app.Dependencies) {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{RequestTimeout: 5 * time.Second},
		Supabase: config.SupabaseConfig{
			URL:         "https://example.supabase.co",
			AnonKey:     "anon-key",
			HTTPTimeout: time.Second,
		},
		Auth: config.AuthConfig{
			Secret:           "routes-secret",
			SessionCookie:    "next-auth.session-token",
			SessionMaxAge:    time.Hour,
			SessionCacheSize: 8,
			SessionCacheTTL:  time.Minute,
			SignInRate:       0.1,
			SignInBurst:      2,
		},
		App:           config.DefaultAppConfig(),
		Observability: config.ObservabilityConfig{MetricsEnabled: true},
		Environment:   "test",
	}
	deps, err := app.NewDependencies(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	deps.EnvLookup = func(key string) (string, bool) {
		if key == "NEXTAUTH_SECRET" {
			return "value", true
		}
		return "", false
	}
	t.Cleanup(func() { _ = deps.Close(context.Background()) })
	return SetupRoutes(deps), deps
}

// sessionCookie issues a dashboard session for the given authority
func sessionCookie(t *testing.T, deps *app.Dependencies, authority ...string) *http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	_, err := deps.Sessions.Issue(w, auth.User{ID: "user-1", Email: "ada@example.com", Name: "Ada", Authority: authority})
	require.NoError(t, err)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestEntryRedirects(t *testing.T) {
	router, deps := newTestRouter(t)
	cookie := sessionCookie(t, deps, "user")

	tests := []struct {
		name     string
		path     string
		signedIn bool
		location string
	}{
		{"dashboards project", "/dashboards/project", false, "/gold"},
		{"dashboard signed out", "/dashboard", false, "/sign-in"},
		{"dashboard signed in", "/dashboard", true, "/dashboards/project"},
		{"root signed out", "/", false, "/sign-in"},
		{"root signed in", "/", true, "/dashboards/project"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.signedIn {
				req.AddCookie(cookie)
			}
			w := serve(router, req)
			assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
		})
	}
}

func TestGoldRequiresSession(t *testing.T) {
	router, deps := newTestRouter(t)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/gold", nil))
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/sign-in?callbackUrl=%2Fgold", w.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/gold", nil)
	req.AddCookie(sessionCookie(t, deps, "user"))
	w = serve(router, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "GoldTrader Pro")
}

func TestAuthPages(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/sign-in", "/sign-up", "/forgot-password"} {
		w := serve(router, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html", path)
	}
}

func TestSignInRateLimited(t *testing.T) {
	router, _ := newTestRouter(t)

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/sign-in", strings.NewReader(url.Values{"email": {""}}.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.RemoteAddr = "203.0.113.7:4000"
		return serve(router, req)
	}

	assert.Equal(t, http.StatusUnprocessableEntity, post().Code)
	assert.Equal(t, http.StatusUnprocessableEntity, post().Code)
	w := post()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "10", w.Header().Get("Retry-After"))
}

func TestDiagnosticsRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/api/debug/env", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var env map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "Set ✅", env["NEXTAUTH_SECRET"])
	assert.Equal(t, "Missing ❌", env["NEXT_PUBLIC_SUPABASE_URL"])
	assert.Equal(t, "test", env["environment"])

	for _, path := range []string{"/api/test-env", "/api/test-vercel", "/api/test-projects/abc/test-tasks"} {
		w := serve(router, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestProjectRoutes(t *testing.T) {
	router, deps := newTestRouter(t)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/api/projects/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Signed in without a database
	req := httptest.NewRequest(http.MethodGet, "/api/projects/", nil)
	req.AddCookie(sessionCookie(t, deps, "user"))
	w = serve(router, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/projects/", strings.NewReader(`{"name":"Gold Vault"}`))
	req.AddCookie(sessionCookie(t, deps))
	w = serve(router, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminProjectList(t *testing.T) {
	router, deps := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/projects/all", nil)
	req.AddCookie(sessionCookie(t, deps, "user"))
	w := serve(router, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admins pass the gate and reach the service, which has no database here
	req = httptest.NewRequest(http.MethodGet, "/api/projects/all", nil)
	req.AddCookie(sessionCookie(t, deps, "admin", "user"))
	w = serve(router, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

// expiredSupabaseCookie holds a Supabase session past expiry with no refresh token,
// which the session middleware clears with a Set-Cookie.
func expiredSupabaseCookie(t *testing.T, deps *app.Dependencies) *http.Cookie {
	t.Helper()
	payload, err := json.Marshal(map[string]interface{}{
		"access_token": "at-1",
		"expires_at":   time.Now().Add(-time.Hour).Unix(),
		"user":         map[string]string{"id": "u-1"},
	})
	require.NoError(t, err)
	return &http.Cookie{Name: deps.Supabase.CookieName(), Value: "base64-" + base64.RawURLEncoding.EncodeToString(payload)}
}

func TestHealthSkipsSupabaseSession(t *testing.T) {
	router, deps := newTestRouter(t)

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(expiredSupabaseCookie(t, deps))
		w := serve(router, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Empty(t, w.Result().Cookies(), path)
	}

	req := httptest.NewRequest(http.MethodGet, "/sign-in", nil)
	req.AddCookie(expiredSupabaseCookie(t, deps))
	w := serve(router, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Result().Cookies())
}

func TestHealthAndMetrics(t *testing.T) {
	router, _ := newTestRouter(t)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(router, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(router, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"endpoint not found"}`, w.Body.String())
}
