package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrNotConfigured is returned when the Supabase URL or anon key is missing
	ErrNotConfigured = errors.New("supabase not configured")

	// ErrInvalidCredentials is returned when the auth service rejects a password or refresh token
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// APIError is a non-2xx response from the Supabase Auth API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase auth: status %d: %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("supabase auth: status %d: %s", e.Status, e.Message)
}

// User is the auth user record returned by the Supabase Auth API.
type User struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	Role         string                 `json:"role"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
	AppMetadata  map[string]interface{} `json:"app_metadata,omitempty"`
}

// Session is the token set returned by the Supabase Auth API and stored in the auth cookie.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Expired reports whether the access token expires within margin of now.
func (s *Session) Expired(now time.Time, margin time.Duration) bool {
	if s.ExpiresAt == 0 {
		return false
	}
	return now.Add(margin).Unix() >= s.ExpiresAt
}

// AuthClient talks to the Supabase Auth (GoTrue) HTTP API.
type AuthClient struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	now        func() time.Time
}

// NewAuthClient creates a client for the project at baseURL.
func NewAuthClient(baseURL, anonKey string, timeout time.Duration) *AuthClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AuthClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		now: time.Now,
	}
}

// SignInWithPassword exchanges an email/password pair for a session.
func (c *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	return c.token(ctx, "password", body)
}

// RefreshSession exchanges a refresh token for a new session.
func (c *AuthClient) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	body := map[string]string{"refresh_token": refreshToken}
	return c.token(ctx, "refresh_token", body)
}

// SignOut revokes the refresh tokens of the session owning accessToken.
func (c *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil, nil)
}

func (c *AuthClient) token(ctx context.Context, grantType string, body interface{}) (*Session, error) {
	var session Session
	path := "/auth/v1/token?grant_type=" + grantType
	if err := c.do(ctx, http.MethodPost, path, "", body, &session); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusUnauthorized) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, apiErr.Message)
		}
		return nil, err
	}
	if session.AccessToken == "" {
		return nil, fmt.Errorf("no access_token in response")
	}
	if session.ExpiresAt == 0 && session.ExpiresIn > 0 {
		session.ExpiresAt = c.now().Add(time.Duration(session.ExpiresIn) * time.Second).Unix()
	}
	return &session, nil
}

func (c *AuthClient) do(ctx context.Context, method, path, accessToken string, in, out interface{}) error {
	if c.baseURL == "" || c.anonKey == "" {
		return ErrNotConfigured
	}

	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	bearer := accessToken
	if bearer == "" {
		bearer = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read auth response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse auth response: %w", err)
	}
	return nil
}

// parseAPIError understands both the legacy OAuth-style and the current error bodies.
func parseAPIError(status int, data []byte) error {
	var body struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		ErrorCode        string `json:"error_code"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
	}
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(data, &body); err != nil {
		apiErr.Message = strings.TrimSpace(string(data))
		return apiErr
	}
	apiErr.Code = firstNonEmpty(body.ErrorCode, body.Error)
	apiErr.Message = firstNonEmpty(body.Msg, body.ErrorDescription, body.Message, http.StatusText(status))
	return apiErr
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
