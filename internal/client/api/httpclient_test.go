package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndvals/notably/internal/client/token"
	"github.com/ndvals/notably/internal/logging"
)

// ---- helpers ----

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*HTTPClient, *token.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := token.NewMemoryStore()
	c := NewHTTPClient(srv.URL, store, discardLogger())
	return c, store
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func sampleUser() map[string]any {
	return map[string]any{
		"id":        "u-1",
		"name":      "Ada",
		"email":     "ada@example.com",
		"createdAt": time.Now().UTC().Format(time.RFC3339),
		"updatedAt": time.Now().UTC().Format(time.RFC3339),
	}
}

// ---- TESTS ----

func TestLogin_Success_PersistsTokenAndReturnsUser(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody LoginData

	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"status": "success",
			"token":  "issued-token",
			"data":   map[string]any{"user": sampleUser()},
		})
	})

	u, err := c.Login(context.Background(), LoginData{Email: "ada@example.com", Password: "Passw0rd!"})
	require.NoError(t, err)

	assert.Equal(t, "/auth/login", gotPath)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "ada@example.com", gotBody.Email)
	assert.Equal(t, "Ada", u.Name)

	tok, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, "issued-token", tok)
}

func TestLogin_WrongCredentials(t *testing.T) {
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]any{
			"status":  "error",
			"message": "Incorrect email or password",
		})
	})

	u, err := c.Login(context.Background(), LoginData{Email: "ada@example.com", Password: "nope"})
	require.Error(t, err)
	assert.Nil(t, u)
	assert.True(t, IsAuthError(err))

	_, err = store.Get()
	assert.ErrorIs(t, err, token.ErrNoToken)
}

func TestLogin_SuccessEnvelopeWithoutToken(t *testing.T) {
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"status": "success"})
	})

	_, err := c.Login(context.Background(), LoginData{Email: "a@b.c", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, "Login failed", ErrorMessage(err))

	_, err = store.Get()
	assert.ErrorIs(t, err, token.ErrNoToken)
}

func TestRegister_Success_PersistsToken(t *testing.T) {
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/register", r.URL.Path)
		writeJSON(t, w, http.StatusCreated, map[string]any{
			"status": "success",
			"token":  "fresh-token",
			"data":   map[string]any{"user": sampleUser()},
		})
	})

	u, err := c.Register(context.Background(), RegisterData{
		Name: "Ada", Email: "ada@example.com",
		Password: "Passw0rd!", PasswordConfirm: "Passw0rd!",
	})
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)

	tok, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", tok)
}

func TestLogout_AlwaysClearsTokenLocally(t *testing.T) {
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusInternalServerError, map[string]any{
			"status":  "error",
			"message": "boom",
		})
	})
	require.NoError(t, store.Set("live-token"))

	err := c.Logout(context.Background())
	require.NoError(t, err, "local logout never fails")

	_, err = store.Get()
	assert.ErrorIs(t, err, token.ErrNoToken)
}

func TestGetCurrentUser_SendsBearerToken(t *testing.T) {
	var gotAuth string
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"status": "success",
			"data":   map[string]any{"user": sampleUser()},
		})
	})
	require.NoError(t, store.Set("live-token"))

	u, err := c.GetCurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer live-token", gotAuth)
	assert.Equal(t, "ada@example.com", u.Email)
}

func TestGetCurrentUser_AuthFailureClearsStore(t *testing.T) {
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]any{"status": "error"})
	})
	require.NoError(t, store.Set("stale-token"))

	_, err := c.GetCurrentUser(context.Background())
	require.Error(t, err)
	assert.True(t, IsAuthError(err))

	_, err = store.Get()
	assert.ErrorIs(t, err, token.ErrNoToken)
}

func TestUpdateProfile_ReplacesUserWholesale(t *testing.T) {
	name := "Ada Lovelace"
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/auth/me", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, name, body["name"])
		assert.NotContains(t, body, "mobile", "unset fields must be omitted")

		user := sampleUser()
		user["name"] = name
		writeJSON(t, w, http.StatusOK, map[string]any{
			"status": "success",
			"data":   map[string]any{"user": user},
		})
	})

	u, err := c.UpdateProfile(context.Background(), UpdateProfileData{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, u.Name)
}

func TestForgotPassword_FallbackMessage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/forgot-password", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{"status": "success"})
	})

	msg, err := c.ForgotPassword(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Password reset email sent successfully", msg)
}

func TestResetPassword_PersistsNewToken(t *testing.T) {
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/reset-password", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{
			"status": "success",
			"token":  "rotated-token",
			"data":   map[string]any{"user": sampleUser()},
		})
	})

	_, err := c.ResetPassword(context.Background(), ResetPasswordData{
		Token: "reset-tok", Password: "Passw0rd!", PasswordConfirm: "Passw0rd!",
	})
	require.NoError(t, err)

	tok, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, "rotated-token", tok)
}

func TestUploadProfilePicture_FailsFastWithoutToken(t *testing.T) {
	hits := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
	})

	_, err := c.UploadProfilePicture(context.Background(), "avatar.png", strings.NewReader("img-bytes"))
	assert.ErrorIs(t, err, token.ErrNoToken)
	assert.Zero(t, hits, "no network call may be attempted without a token")
}

func TestUploadProfilePicture_SendsMultipart(t *testing.T) {
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		require.NoError(t, err)
		assert.Equal(t, "multipart/form-data", mediaType)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, hdr, err := r.FormFile("profilePicture")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "avatar.png", hdr.Filename)

		data, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "img-bytes", string(data))

		writeJSON(t, w, http.StatusOK, map[string]any{
			"status": "success",
			"data": map[string]any{
				"user":              sampleUser(),
				"profilePictureUrl": "https://cdn.example.com/avatar.png",
			},
		})
	})
	require.NoError(t, store.Set("live-token"))

	res, err := c.UploadProfilePicture(context.Background(), "avatar.png", strings.NewReader("img-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/avatar.png", res.ProfilePictureURL)
	assert.Equal(t, "u-1", res.User.ID)
}

func TestDeleteAccount_ClearsTokenAndReturnsMessage(t *testing.T) {
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/auth/me", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Passw0rd!", body["password"])

		writeJSON(t, w, http.StatusOK, map[string]any{
			"status":  "success",
			"message": "Account deleted",
		})
	})
	require.NoError(t, store.Set("live-token"))

	msg, err := c.DeleteAccount(context.Background(), "Passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, "Account deleted", msg)

	_, err = store.Get()
	assert.ErrorIs(t, err, token.ErrNoToken)
}

func TestRateLimitedResponse(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(RateLimitResetHeader, "99999999999")
		writeJSON(t, w, http.StatusTooManyRequests, map[string]any{"status": "error"})
	})

	_, err := c.GetCurrentUser(context.Background())
	require.Error(t, err)
	assert.True(t, IsRateLimitError(err))
}

func TestNonJSONErrorBodyFallsBackToStatusText(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})

	_, err := c.GetCurrentUser(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), ErrorMessage(err))
}

func TestOnAuthFailureHookFires(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	fired := false
	store := token.NewMemoryStore()
	c := NewHTTPClient(srv.URL, store, discardLogger(), WithOnAuthFailure(func() { fired = true }))

	_, err := c.GetCurrentUser(context.Background())
	require.Error(t, err)
	assert.True(t, fired)
}
