package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNoSecret is returned when the session secret is not configured
	ErrNoSecret = errors.New("session secret not configured")

	// ErrInvalidSession is returned for tokens that fail signature, format or expiry checks
	ErrInvalidSession = errors.New("invalid session token")
)

// sessionIssuer is the iss claim of dashboard session tokens
const sessionIssuer = "zeno-dashboard"

// sessionClaims is the JWT payload of the session cookie
type sessionClaims struct {
	jwt.RegisteredClaims
	Email     string   `json:"email,omitempty"`
	Name      string   `json:"name,omitempty"`
	Role      string   `json:"role,omitempty"`
	Authority []string `json:"authority,omitempty"`
}

// TokenCodec signs and verifies session tokens with an HMAC secret.
type TokenCodec struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewTokenCodec creates a codec; an empty secret makes every operation fail with ErrNoSecret.
func NewTokenCodec(secret string, maxAge time.Duration) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		maxAge: maxAge,
		now:    time.Now,
	}
}

// Encode signs a session token for user, returning the token and its expiry.
func (c *TokenCodec) Encode(user User) (string, time.Time, error) {
	if len(c.secret) == 0 {
		return "", time.Time{}, ErrNoSecret
	}
	now := c.now()
	expires := now.Add(c.maxAge)

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		Authority: user.Authority,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return token, expires, nil
}

// Decode verifies a session token and returns the session it carries.
func (c *TokenCodec) Decode(token string) (*Session, error) {
	if len(c.secret) == 0 {
		return nil, ErrNoSecret
	}

	claims := &sessionClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	session := &Session{Expires: claims.ExpiresAt.Time}
	if claims.Subject != "" || claims.Email != "" {
		session.User = &User{
			ID:        claims.Subject,
			Email:     claims.Email,
			Name:      claims.Name,
			Role:      claims.Role,
			Authority: claims.Authority,
		}
	}
	return session, nil
}
