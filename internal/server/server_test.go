package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/progtrack-dev/progtrack/internal/auth"
	"github.com/progtrack-dev/progtrack/internal/config"
	"github.com/progtrack-dev/progtrack/internal/models"
)

// newTestServer builds a server against a throwaway SQLite database.
// Redis is not running in tests, so task enqueues fail and handlers
// must degrade gracefully.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{
		Database: config.DatabaseConfig{URL: filepath.Join(t.TempDir(), "test.sqlite")},
		Redis:    config.RedisConfig{Address: "localhost:1"},
		Auth:     config.AuthConfig{JWTSecret: "test-secret"},
	}

	srv, err := New(cfg, zerolog.Nop(), "test")
	require.NoError(t, err)
	return srv
}

// createUser inserts a user directly, bypassing the register endpoint
func createUser(t *testing.T, srv *Server, username, email, password, role string, verified bool) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Verified:     verified,
	}
	require.NoError(t, srv.db.Create(user).Error)
	return user
}

// tokenFor issues a JWT for the given user
func tokenFor(t *testing.T, user *models.User) string {
	t.Helper()

	token, err := auth.GenerateToken(user.ID, user.Username, user.Role, user.Verified)
	require.NoError(t, err)
	return token
}

// doRequest performs an HTTP request against the server's router
func doRequest(t *testing.T, srv *Server, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	w := doRequest(t, srv, "GET", "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeJSON[map[string]any](t, w)
	require.Equal(t, "online", body["status"])
}

func TestVerificationTokenExpiry(t *testing.T) {
	verification := &models.EmailVerification{ExpiresAt: time.Now().Add(-time.Minute)}
	require.True(t, verification.IsExpired())
	require.False(t, verification.IsVerified())

	verification.MarkVerified()
	require.True(t, verification.IsVerified())
}
