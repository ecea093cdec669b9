package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

// CookieProviderConfig configures the cookie-backed session provider.
type CookieProviderConfig struct {
	CookieName string
	Secure     bool
	CacheSize  int
	CacheTTL   time.Duration
}

// CookieProvider reads and writes the signed session cookie.
// Verified sessions are cached by token so repeat requests skip signature checks.
type CookieProvider struct {
	codec  *TokenCodec
	cfg    CookieProviderConfig
	cache  *expirable.LRU[string, *Session]
	logger *zap.Logger
	now    func() time.Time
}

// NewCookieProvider creates a provider around codec.
func NewCookieProvider(codec *TokenCodec, cfg CookieProviderConfig, logger *zap.Logger) *CookieProvider {
	if cfg.CookieName == "" {
		cfg.CookieName = "authjs.session-token"
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 1024
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	return &CookieProvider{
		codec:  codec,
		cfg:    cfg,
		cache:  expirable.NewLRU[string, *Session](cfg.CacheSize, nil, cfg.CacheTTL),
		logger: logger,
		now:    time.Now,
	}
}

// Auth returns the session carried by the request cookie.
// A missing, tampered or expired token is "no session"; a missing secret is an error.
func (p *CookieProvider) Auth(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(p.cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}
	token := cookie.Value

	if session, ok := p.cache.Get(token); ok {
		if p.now().Before(session.Expires) {
			return session, nil
		}
		p.cache.Remove(token)
		return nil, nil
	}

	session, err := p.codec.Decode(token)
	if err != nil {
		if errors.Is(err, ErrInvalidSession) {
			p.logger.Debug("ignoring invalid session cookie", zap.Error(err))
			return nil, nil
		}
		return nil, err
	}

	p.cache.Add(token, session)
	return session, nil
}

// Issue signs a session for user and sets the cookie.
func (p *CookieProvider) Issue(w http.ResponseWriter, user User) (*Session, error) {
	token, expires, err := p.codec.Encode(user)
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     p.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   p.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	u := user
	return &Session{User: &u, Expires: expires}, nil
}

// Clear expires the session cookie and drops it from the cache.
func (p *CookieProvider) Clear(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(p.cfg.CookieName); err == nil {
		p.cache.Remove(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     p.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   p.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
