package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/progtrack-dev/progtrack/internal/auth"
	"github.com/progtrack-dev/progtrack/internal/models"
)

func TestRegister_CreatesUnverifiedUser(t *testing.T) {
	srv := newTestServer(t)

	w := doRequest(t, srv, "POST", "/api/auth/register", RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "supersecret",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decodeJSON[RegisterResponse](t, w)
	require.Equal(t, "alice@example.com", resp.Email)
	// Redis is down in tests, so delivery cannot be queued
	require.False(t, resp.VerificationEmailSent)

	var user models.User
	require.NoError(t, srv.db.Where("email = ?", "alice@example.com").First(&user).Error)
	require.Equal(t, models.RoleUser, user.Role)
	require.False(t, user.Verified)
	require.NotEqual(t, "supersecret", user.PasswordHash)

	// A verification token is issued even when delivery fails
	var count int64
	require.NoError(t, srv.db.Model(&models.EmailVerification{}).
		Where("user_id = ?", user.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	srv := newTestServer(t)
	createUser(t, srv, "alice", "alice@example.com", "supersecret", models.RoleUser, true)

	w := doRequest(t, srv, "POST", "/api/auth/register", RegisterRequest{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "supersecret",
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeJSON[RegisterResponse](t, w)
	require.Equal(t, "Email already registered", resp.Message)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	srv := newTestServer(t)
	createUser(t, srv, "alice", "alice@example.com", "supersecret", models.RoleUser, true)

	w := doRequest(t, srv, "POST", "/api/auth/register", RegisterRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "supersecret",
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeJSON[RegisterResponse](t, w)
	require.Equal(t, "Username already taken", resp.Message)
}

func TestRegister_RejectsInvalidPayload(t *testing.T) {
	srv := newTestServer(t)

	// Username too short, invalid email, short password
	w := doRequest(t, srv, "POST", "/api/auth/register", RegisterRequest{
		Username: "al",
		Email:    "not-an-email",
		Password: "x",
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_SuccessWithEmailOrUsername(t *testing.T) {
	srv := newTestServer(t)
	createUser(t, srv, "alice", "alice@example.com", "supersecret", models.RoleUser, true)

	for _, identifier := range []string{"alice@example.com", "alice"} {
		w := doRequest(t, srv, "POST", "/api/auth/login", LoginRequest{
			EmailOrUsername: identifier,
			Password:        "supersecret",
		}, "")
		require.Equal(t, http.StatusOK, w.Code, "login with %q", identifier)

		resp := decodeJSON[LoginResponse](t, w)
		require.Equal(t, "Bearer", resp.Type)
		require.NotEmpty(t, resp.Token)
		require.Equal(t, "alice", resp.User.Username)

		claims, err := auth.ValidateToken(resp.Token)
		require.NoError(t, err)
		require.Equal(t, "alice", claims.Username)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	srv := newTestServer(t)
	createUser(t, srv, "alice", "alice@example.com", "supersecret", models.RoleUser, true)

	w := doRequest(t, srv, "POST", "/api/auth/login", LoginRequest{
		EmailOrUsername: "alice",
		Password:        "wrong",
	}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	body := decodeJSON[map[string]string](t, w)
	require.Equal(t, "Invalid email/username or password", body["error"])
}

func TestLogin_UnknownUserSameMessage(t *testing.T) {
	srv := newTestServer(t)

	// Unknown accounts and bad passwords are indistinguishable
	w := doRequest(t, srv, "POST", "/api/auth/login", LoginRequest{
		EmailOrUsername: "nobody",
		Password:        "whatever",
	}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	body := decodeJSON[map[string]string](t, w)
	require.Equal(t, "Invalid email/username or password", body["error"])
}

func TestLogin_UnverifiedAccount(t *testing.T) {
	srv := newTestServer(t)
	createUser(t, srv, "alice", "alice@example.com", "supersecret", models.RoleUser, false)

	w := doRequest(t, srv, "POST", "/api/auth/login", LoginRequest{
		EmailOrUsername: "alice",
		Password:        "supersecret",
	}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	body := decodeJSON[map[string]string](t, w)
	require.Equal(t, "Please verify your email before logging in", body["error"])
}

func issueTestVerification(t *testing.T, srv *Server, user *models.User, expiresAt time.Time) *models.EmailVerification {
	t.Helper()

	verification := &models.EmailVerification{
		UserID:    user.ID,
		Email:     user.Email,
		Token:     "test-verification-token-" + user.Username,
		ExpiresAt: expiresAt,
	}
	require.NoError(t, srv.db.Create(verification).Error)
	return verification
}

func TestVerifyEmail_Success(t *testing.T) {
	srv := newTestServer(t)
	user := createUser(t, srv, "alice", "alice@example.com", "supersecret", models.RoleUser, false)
	verification := issueTestVerification(t, srv, user, time.Now().Add(time.Hour))

	w := doRequest(t, srv, "GET", "/api/auth/verify?token="+verification.Token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeJSON[VerificationResponse](t, w)
	require.True(t, resp.Success)
	require.Equal(t, "alice@example.com", resp.Email)

	var reloaded models.User
	require.NoError(t, srv.db.Where("id = ?", user.ID).First(&reloaded).Error)
	require.True(t, reloaded.Verified)

	// Consuming the same token twice fails
	w = doRequest(t, srv, "GET", "/api/auth/verify?token="+verification.Token, nil, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyEmail_ExpiredToken(t *testing.T) {
	srv := newTestServer(t)
	user := createUser(t, srv, "alice", "alice@example.com", "supersecret", models.RoleUser, false)
	verification := issueTestVerification(t, srv, user, time.Now().Add(-time.Hour))

	w := doRequest(t, srv, "GET", "/api/auth/verify?token="+verification.Token, nil, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var reloaded models.User
	require.NoError(t, srv.db.Where("id = ?", user.ID).First(&reloaded).Error)
	require.False(t, reloaded.Verified)
}

func TestVerifyEmail_UnknownToken(t *testing.T) {
	srv := newTestServer(t)

	w := doRequest(t, srv, "GET", "/api/auth/verify?token=does-not-exist", nil, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, srv, "GET", "/api/auth/verify", nil, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResendVerification_AlreadyVerified(t *testing.T) {
	srv := newTestServer(t)
	createUser(t, srv, "alice", "alice@example.com", "supersecret", models.RoleUser, true)

	w := doRequest(t, srv, "POST", "/api/auth/resend-verification", ResendVerificationRequest{
		Email: "alice@example.com",
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeJSON[ApiResponse](t, w)
	require.Equal(t, "This email is already verified", resp.Message)
}

func TestResendVerification_RateLimited(t *testing.T) {
	srv := newTestServer(t)
	user := createUser(t, srv, "alice", "alice@example.com", "supersecret", models.RoleUser, false)

	// Burn through the hourly budget
	for i := 0; i < resendRateLimit; i++ {
		verification := &models.EmailVerification{
			UserID:    user.ID,
			Email:     user.Email,
			Token:     "burned-token-" + string(rune('a'+i)),
			ExpiresAt: time.Now().Add(time.Hour),
		}
		require.NoError(t, srv.db.Create(verification).Error)
	}

	w := doRequest(t, srv, "POST", "/api/auth/resend-verification", ResendVerificationRequest{
		Email: "alice@example.com",
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeJSON[ApiResponse](t, w)
	require.Contains(t, resp.Message, "Too many verification emails")
}

func TestGetCurrentUser(t *testing.T) {
	srv := newTestServer(t)
	user := createUser(t, srv, "alice", "alice@example.com", "supersecret", models.RoleUser, true)
	token := tokenFor(t, user)

	w := doRequest(t, srv, "GET", "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	info := decodeJSON[UserInfo](t, w)
	require.Equal(t, user.ID, info.ID)
	require.Equal(t, "alice", info.Username)
	require.Equal(t, "alice", info.FullName) // falls back to username without a name
}

func TestGetCurrentUser_RequiresToken(t *testing.T) {
	srv := newTestServer(t)

	w := doRequest(t, srv, "GET", "/api/auth/me", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, srv, "GET", "/api/auth/me", nil, "garbage-token")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListUsers_AdminOnly(t *testing.T) {
	srv := newTestServer(t)
	user := createUser(t, srv, "alice", "alice@example.com", "supersecret", models.RoleUser, true)
	admin := createUser(t, srv, "root", "root@example.com", "supersecret", models.RoleAdmin, true)

	w := doRequest(t, srv, "GET", "/api/users", nil, tokenFor(t, user))
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, srv, "GET", "/api/users", nil, tokenFor(t, admin))
	require.Equal(t, http.StatusOK, w.Code)

	users := decodeJSON[[]UserInfo](t, w)
	require.Len(t, users, 2)
}
