package auth

import (
	"context"
	"net/http"

	"github.com/zeno/dashboard/internal/observability"
	"go.uber.org/zap"
)

// Accessor wraps a Provider so callers never see provider failures:
// an erroring provider and an absent session look the same.
type Accessor struct {
	provider Provider
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// NewAccessor creates an accessor; metrics may be nil.
func NewAccessor(provider Provider, logger *zap.Logger, metrics *observability.Metrics) *Accessor {
	return &Accessor{
		provider: provider,
		logger:   logger,
		metrics:  metrics,
	}
}

// Session returns the current session, or nil when absent or when the provider failed.
func (a *Accessor) Session(ctx context.Context, r *http.Request) (session *Session) {
	logger := observability.FromContext(ctx, a.logger)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("session provider panicked", zap.Any("panic", rec))
			a.metrics.ObserveSessionLookup(observability.SessionError)
			session = nil
		}
	}()

	if a.provider == nil {
		a.metrics.ObserveSessionLookup(observability.SessionAbsent)
		return nil
	}

	s, err := a.provider.Auth(ctx, r)
	if err != nil {
		logger.Error("error getting session", zap.Error(err))
		a.metrics.ObserveSessionLookup(observability.SessionError)
		return nil
	}
	if s == nil || s.User == nil {
		a.metrics.ObserveSessionLookup(observability.SessionAbsent)
		return nil
	}
	a.metrics.ObserveSessionLookup(observability.SessionPresent)
	return s
}

// CurrentUser returns the signed-in user with the id falling back to the email.
func (a *Accessor) CurrentUser(ctx context.Context, r *http.Request) *CurrentUser {
	return ToCurrentUser(a.Session(ctx, r))
}

// CurrentUserID returns the signed-in user's id, or "" when there is none.
func (a *Accessor) CurrentUserID(ctx context.Context, r *http.Request) string {
	if u := a.CurrentUser(ctx, r); u != nil {
		return u.ID
	}
	return ""
}

// LogSession writes a debug line describing the session state of the request.
func (a *Accessor) LogSession(ctx context.Context, r *http.Request) {
	logger := observability.FromContext(ctx, a.logger)
	s := a.Session(ctx, r)
	if s == nil {
		logger.Debug("session debug", zap.Bool("present", false), zap.String("path", r.URL.Path))
		return
	}
	logger.Debug("session debug",
		zap.Bool("present", true),
		zap.String("path", r.URL.Path),
		zap.String("user_id", ToCurrentUser(s).ID),
		zap.String("role", s.User.Role),
		zap.Int("authority_count", len(s.User.Authority)),
		zap.Time("expires", s.Expires))
}

// ToCurrentUser trims a session to its CurrentUser, or nil when there is no user.
func ToCurrentUser(s *Session) *CurrentUser {
	if s == nil || s.User == nil {
		return nil
	}
	id := s.User.ID
	if id == "" {
		id = s.User.Email
	}
	return &CurrentUser{
		ID:    id,
		Email: s.User.Email,
		Name:  s.User.Name,
	}
}
