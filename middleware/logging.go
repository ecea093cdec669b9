package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/zeno/dashboard/internal/observability"
	"go.uber.org/zap"
)

// RequestLogger attaches a request-scoped zap logger carrying request_id,
// logs one line per request and records request metrics. metrics may be nil.
// Must run after chi's RequestID middleware.
func RequestLogger(logger *zap.Logger, metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := chimw.GetReqID(r.Context())
			reqLogger := logger.With(zap.String("request_id", requestID))

			ctx := WithRequestID(r.Context(), requestID)
			ctx = observability.WithLogger(ctx, reqLogger)

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)
			route := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}
			metrics.ObserveRequest(route, r.Method, status, elapsed)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route", route),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", elapsed),
				zap.String("remote_ip", clientIP(r)),
			}
			switch {
			case status >= http.StatusInternalServerError:
				reqLogger.Error("request completed", fields...)
			case status >= http.StatusBadRequest:
				reqLogger.Warn("request completed", fields...)
			default:
				reqLogger.Info("request completed", fields...)
			}
		})
	}
}
