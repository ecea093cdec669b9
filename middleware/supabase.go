package middleware

import (
	"net/http"

	"github.com/zeno/dashboard/internal/observability"
	"github.com/zeno/dashboard/supabase"
	"go.uber.org/zap"
)

// SupabaseSession keeps the Supabase auth cookie fresh on every request:
// an expiring session is refreshed and the rotated cookie written back
// before the handler runs. Failures are logged and never block the request.
func SupabaseSession(client *supabase.Client, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if client == nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			reqLogger := observability.FromContext(ctx, logger)

			session, err := client.Server(supabase.NewRequestCookies(r, w)).Session(ctx)
			if err != nil {
				reqLogger.Warn("supabase session refresh failed", zap.Error(err))
			} else if session != nil {
				reqLogger.Debug("supabase session present", zap.String("supabase_user_id", session.User.ID))
			}
			next.ServeHTTP(w, r)
		})
	}
}
