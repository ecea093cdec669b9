package middleware

import (
	"context"

	"github.com/zeno/dashboard/auth"
)

// Context key type to avoid collisions
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"

	// SessionKey is the context key for the resolved dashboard session
	SessionKey contextKey = "session"
)

// sessionHolder distinguishes "resolved, no session" from "not resolved yet"
type sessionHolder struct {
	session *auth.Session
}

// GetRequestIDFromContext retrieves the request ID from context
func GetRequestIDFromContext(ctx context.Context) string {
	if val := ctx.Value(RequestIDKey); val != nil {
		if requestID, ok := val.(string); ok {
			return requestID
		}
	}
	return ""
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithSession stores the resolved session (possibly nil) in the context
func WithSession(ctx context.Context, session *auth.Session) context.Context {
	return context.WithValue(ctx, SessionKey, &sessionHolder{session: session})
}

// GetSessionFromContext returns the session stored by LoadSession.
// ok is false when no session lookup has happened for this request.
func GetSessionFromContext(ctx context.Context) (session *auth.Session, ok bool) {
	if holder, found := ctx.Value(SessionKey).(*sessionHolder); found {
		return holder.session, true
	}
	return nil, false
}
