// Package supabase is the dashboard's bridge to its hosted Supabase project:
// the Auth HTTP API and the cookie-backed session the server reads on every request.
package supabase

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/zeno/dashboard/config"
	"go.uber.org/zap"
)

const (
	cookiePrefix = "base64-"
	// refreshMargin refreshes tokens slightly before they expire
	refreshMargin = 60 * time.Second
	// authCookieMaxAge matches the browser client's 400 day cap
	authCookieMaxAge = 400 * 24 * 60 * 60
)

// Client holds the project-wide Supabase settings shared by every request.
type Client struct {
	Auth       *AuthClient
	cookieName string
	secure     bool
	logger     *zap.Logger
}

// NewClient creates a Supabase client from configuration.
func NewClient(cfg config.SupabaseConfig, secureCookies bool, logger *zap.Logger) *Client {
	return &Client{
		Auth:       NewAuthClient(cfg.URL, cfg.AnonKey, cfg.HTTPTimeout),
		cookieName: AuthCookieName(cfg.URL),
		secure:     secureCookies,
		logger:     logger,
	}
}

// CookieName returns the auth cookie name for this project.
func (c *Client) CookieName() string {
	return c.cookieName
}

// Server returns a session-aware client bound to one request's cookies.
func (c *Client) Server(cookies CookieStore) *ServerClient {
	return &ServerClient{
		auth:       c.Auth,
		cookies:    cookies,
		cookieName: c.cookieName,
		opts: CookieOptions{
			Path:     "/",
			MaxAge:   authCookieMaxAge,
			HTTPOnly: false,
			Secure:   c.secure,
		},
		logger: c.logger,
		now:    time.Now,
	}
}

// ProjectRef derives the project reference from the Supabase URL host,
// e.g. "abcd" for https://abcd.supabase.co.
func ProjectRef(supabaseURL string) string {
	u, err := url.Parse(supabaseURL)
	if err != nil || u.Hostname() == "" {
		return "local"
	}
	return strings.Split(u.Hostname(), ".")[0]
}

// AuthCookieName returns the cookie name holding the Supabase session.
func AuthCookieName(supabaseURL string) string {
	return "sb-" + ProjectRef(supabaseURL) + "-auth-token"
}

// ServerClient reads and maintains the Supabase session stored in request cookies.
type ServerClient struct {
	auth       *AuthClient
	cookies    CookieStore
	cookieName string
	opts       CookieOptions
	logger     *zap.Logger
	now        func() time.Time
}

// Session returns the stored session, refreshing it when the access token is about to expire.
// A missing or unreadable cookie yields (nil, nil); a rejected refresh token clears the cookie.
func (c *ServerClient) Session(ctx context.Context) (*Session, error) {
	raw, ok := readChunked(c.cookies, c.cookieName)
	if !ok || raw == "" {
		return nil, nil
	}

	session, err := decodeSession(raw)
	if err != nil {
		c.logger.Warn("discarding unreadable supabase auth cookie", zap.Error(err))
		c.ClearSession()
		return nil, nil
	}

	if !session.Expired(c.now(), refreshMargin) {
		return session, nil
	}
	if session.RefreshToken == "" {
		c.ClearSession()
		return nil, nil
	}

	refreshed, err := c.auth.RefreshSession(ctx, session.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.logger.Info("supabase refresh token rejected, clearing session")
			c.ClearSession()
			return nil, nil
		}
		return nil, fmt.Errorf("refresh supabase session: %w", err)
	}

	if err := c.SetSession(refreshed); err != nil {
		return nil, err
	}
	c.logger.Debug("supabase session refreshed", zap.String("user_id", refreshed.User.ID))
	return refreshed, nil
}

// SetSession stores session in the auth cookie.
func (c *ServerClient) SetSession(session *Session) error {
	value, err := encodeSession(session)
	if err != nil {
		return err
	}
	writeChunked(c.cookies, c.cookieName, value, c.opts)
	return nil
}

// ClearSession removes the auth cookie and any chunks.
func (c *ServerClient) ClearSession() {
	removeAll(c.cookies, c.cookieName, c.opts)
}

// SignOut revokes the stored session upstream (best effort) and clears the cookie.
func (c *ServerClient) SignOut(ctx context.Context) {
	raw, ok := readChunked(c.cookies, c.cookieName)
	if ok {
		if session, err := decodeSession(raw); err == nil && session.AccessToken != "" {
			if err := c.auth.SignOut(ctx, session.AccessToken); err != nil {
				c.logger.Warn("supabase sign-out failed", zap.Error(err))
			}
		}
	}
	c.ClearSession()
}

func encodeSession(session *Session) (string, error) {
	payload, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("encode supabase session: %w", err)
	}
	return cookiePrefix + base64.RawURLEncoding.EncodeToString(payload), nil
}

// decodeSession accepts the base64- prefixed form and the older plain JSON form.
func decodeSession(raw string) (*Session, error) {
	payload := []byte(raw)
	if strings.HasPrefix(raw, cookiePrefix) {
		decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(raw, cookiePrefix))
		if err != nil {
			return nil, fmt.Errorf("decode cookie: %w", err)
		}
		payload = decoded
	}
	var session Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("parse cookie: %w", err)
	}
	return &session, nil
}
