// Package auth reads and issues the dashboard session and exposes the
// current-user accessors used by pages and API handlers.
package auth

import (
	"context"
	"net/http"
	"time"
)

// User is the user sub-record of a session.
type User struct {
	ID        string   `json:"id,omitempty"`
	Email     string   `json:"email,omitempty"`
	Name      string   `json:"name,omitempty"`
	Role      string   `json:"role,omitempty"`
	Authority []string `json:"authority,omitempty"`
}

// Session is the server-verified record of the signed-in user.
type Session struct {
	User    *User     `json:"user,omitempty"`
	Expires time.Time `json:"expires"`
}

// Authority returns the session's authority list, or nil when there is no user.
func (s *Session) Authority() []string {
	if s == nil || s.User == nil {
		return nil
	}
	return s.User.Authority
}

// Provider retrieves the session for a request.
// (nil, nil) means no session; an error means the provider itself failed.
type Provider interface {
	Auth(ctx context.Context, r *http.Request) (*Session, error)
}

// CurrentUser is the trimmed view of the signed-in user handed to pages.
type CurrentUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// HasAuthority reports whether authority is in the user's list.
func (u *User) HasAuthority(authority string) bool {
	if u == nil {
		return false
	}
	for _, a := range u.Authority {
		if a == authority {
			return true
		}
	}
	return false
}
