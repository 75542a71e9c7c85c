package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ndvals/notably/internal/client/token"
	"github.com/ndvals/notably/internal/logging"
)

// HTTPClient talks to the Notably REST API. All endpoints are relative to
// the configured base URL; authenticated requests carry the stored
// credential as a bearer header.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	store   token.Store
	cls     *classifier
	log     logging.Logger
}

type Option func(*HTTPClient)

// WithHTTPClient substitutes the underlying transport.
func WithHTTPClient(h *http.Client) Option {
	return func(c *HTTPClient) { c.http = h }
}

// WithTimeout sets the per-request timeout on the underlying transport.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

// WithOnAuthFailure registers a hook invoked when a response classifies as an
// authentication failure, after the credential store has been purged. The UI
// layer uses it to steer the user back to the login surface.
func WithOnAuthFailure(fn func()) Option {
	return func(c *HTTPClient) { c.cls.onAuthFailure = fn }
}

func NewHTTPClient(baseURL string, store token.Store, log logging.Logger, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		store:   store,
		cls:     &classifier{store: store, now: time.Now},
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// send performs one HTTP exchange and decodes the response envelope.
// Non-2xx responses are routed through the classifier; the returned error is
// always a classified *Error.
func (c *HTTPClient) send(ctx context.Context, method, path, contentType string, body io.Reader) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, transportError(err)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok, err := c.store.Get(); err == nil {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	c.log.Debug(ctx, "api request", "method", method, "path", path, "request_id", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	var env envelope
	if data, err := io.ReadAll(resp.Body); err != nil || json.Unmarshal(data, &env) != nil {
		// not a JSON envelope; fall back to the status text
		env = envelope{Message: http.StatusText(resp.StatusCode)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.cls.classify(resp.StatusCode, resp.Header, env)
	}
	return &env, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any) (*envelope, error) {
	if payload == nil {
		return c.send(ctx, method, path, "", nil)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, transportError(err)
	}
	return c.send(ctx, method, path, "application/json", bytes.NewReader(data))
}

// opError converts a success-status mismatch (2xx response without the
// expected envelope content) into a generic error with a per-operation
// fallback message.
func opError(env *envelope, fallback string) *Error {
	msg := env.Message
	if msg == "" {
		msg = fallback
	}
	return &Error{Kind: KindGeneric, Message: msg}
}

// persistToken stores a freshly issued credential. Ordering matters: the
// token must be persisted before the operation returns so any immediately
// following protected call already sees it.
func (c *HTTPClient) persistToken(tok string) error {
	if err := c.store.Set(tok); err != nil {
		return fmt.Errorf("persisting token: %w", err)
	}
	return nil
}

// Register creates a new account. POST /auth/register.
func (c *HTTPClient) Register(ctx context.Context, data RegisterData) (*User, error) {
	env, err := c.do(ctx, http.MethodPost, "/auth/register", data)
	if err != nil {
		return nil, err
	}
	if !env.success() || env.Token == "" || env.Data == nil || env.Data.User == nil {
		return nil, opError(env, "Registration failed")
	}
	if err := c.persistToken(env.Token); err != nil {
		return nil, err
	}
	return env.Data.User, nil
}

// Login authenticates with email and password. POST /auth/login.
func (c *HTTPClient) Login(ctx context.Context, credentials LoginData) (*User, error) {
	env, err := c.do(ctx, http.MethodPost, "/auth/login", credentials)
	if err != nil {
		return nil, err
	}
	if !env.success() || env.Token == "" || env.Data == nil || env.Data.User == nil {
		return nil, opError(env, "Login failed")
	}
	if err := c.persistToken(env.Token); err != nil {
		return nil, err
	}
	return env.Data.User, nil
}

// Logout ends the remote session best-effort. POST /auth/logout. The local
// token is always removed, whatever the remote outcome; local logout never
// fails.
func (c *HTTPClient) Logout(ctx context.Context) error {
	defer func() {
		if err := c.store.Remove(); err != nil {
			c.log.Warn(ctx, "removing stored token", "error", err)
		}
	}()

	if _, err := c.do(ctx, http.MethodPost, "/auth/logout", nil); err != nil {
		c.log.Warn(ctx, "logout request failed", "error", err)
	}
	return nil
}

// GetCurrentUser fetches the authenticated profile. GET /auth/me. On an
// authentication failure the stored token is cleared (idempotent with the
// classifier's own cleanup) before the error is returned.
func (c *HTTPClient) GetCurrentUser(ctx context.Context) (*User, error) {
	env, err := c.do(ctx, http.MethodGet, "/auth/me", nil)
	if err != nil {
		if IsAuthError(err) {
			_ = c.store.Remove()
		}
		return nil, err
	}
	if !env.success() || env.Data == nil || env.Data.User == nil {
		return nil, opError(env, "Failed to get current user")
	}
	return env.Data.User, nil
}

// UpdateProfile patches the profile and returns the server's replacement.
// PATCH /auth/me.
func (c *HTTPClient) UpdateProfile(ctx context.Context, data UpdateProfileData) (*User, error) {
	env, err := c.do(ctx, http.MethodPatch, "/auth/me", data)
	if err != nil {
		return nil, err
	}
	if !env.success() || env.Data == nil || env.Data.User == nil {
		return nil, opError(env, "Profile update failed")
	}
	return env.Data.User, nil
}

// ForgotPassword requests a reset email. POST /auth/forgot-password.
func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) (string, error) {
	env, err := c.do(ctx, http.MethodPost, "/auth/forgot-password", map[string]string{"email": email})
	if err != nil {
		return "", err
	}
	if !env.success() {
		return "", opError(env, "Password reset request failed")
	}
	if env.Message == "" {
		return "Password reset email sent successfully", nil
	}
	return env.Message, nil
}

// ResetPassword exchanges a reset token for a fresh session.
// POST /auth/reset-password.
func (c *HTTPClient) ResetPassword(ctx context.Context, data ResetPasswordData) (*User, error) {
	env, err := c.do(ctx, http.MethodPost, "/auth/reset-password", data)
	if err != nil {
		return nil, err
	}
	if !env.success() || env.Token == "" || env.Data == nil || env.Data.User == nil {
		return nil, opError(env, "Password reset failed")
	}
	if err := c.persistToken(env.Token); err != nil {
		return nil, err
	}
	return env.Data.User, nil
}

// UploadProfilePicture sends a multipart upload.
// POST /auth/upload-profile-picture. Without a stored token it fails fast
// with token.ErrNoToken before any network call.
func (c *HTTPClient) UploadProfilePicture(ctx context.Context, filename string, file io.Reader) (*ProfilePictureResult, error) {
	if _, err := c.store.Get(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("profilePicture", filename)
	if err != nil {
		return nil, transportError(err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, transportError(err)
	}
	if err := mw.Close(); err != nil {
		return nil, transportError(err)
	}

	env, err := c.send(ctx, http.MethodPost, "/auth/upload-profile-picture", mw.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}
	if !env.success() || env.Data == nil || env.Data.User == nil {
		return nil, opError(env, "Profile picture upload failed")
	}
	return &ProfilePictureResult{
		ProfilePictureURL: env.Data.ProfilePictureURL,
		User:              env.Data.User,
	}, nil
}

// DeleteProfilePicture removes the picture and returns the updated profile.
// DELETE /auth/delete-profile-picture.
func (c *HTTPClient) DeleteProfilePicture(ctx context.Context) (*User, error) {
	env, err := c.do(ctx, http.MethodDelete, "/auth/delete-profile-picture", nil)
	if err != nil {
		return nil, err
	}
	if !env.success() || env.Data == nil || env.Data.User == nil {
		return nil, opError(env, "Profile picture deletion failed")
	}
	return env.Data.User, nil
}

// DeleteAccount deletes the account after password confirmation.
// DELETE /auth/me. On success the stored token is cleared and the server's
// confirmation message returned.
func (c *HTTPClient) DeleteAccount(ctx context.Context, password string) (string, error) {
	env, err := c.do(ctx, http.MethodDelete, "/auth/me", map[string]string{"password": password})
	if err != nil {
		return "", err
	}
	if !env.success() {
		return "", opError(env, "Account deletion failed")
	}
	if err := c.store.Remove(); err != nil {
		c.log.Warn(ctx, "removing stored token", "error", err)
	}
	if env.Message == "" {
		return "Account deleted successfully", nil
	}
	return env.Message, nil
}

var _ Client = (*HTTPClient)(nil)
