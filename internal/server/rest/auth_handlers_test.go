package rest

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthFlow_Alice(t *testing.T) {
	ts := newTestServer(t)
	creds := map[string]string{"email": "alice@example.com", "password": "Secret1234"}

	r := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", creds)
	require.Equal(t, http.StatusCreated, r.status)
	assert.NotEmpty(t, r.body["access_token"])
	assert.NotEmpty(t, r.body["refresh_token"])

	r = ts.do(t, http.MethodPost, "/api/v1/auth/login", "", creds)
	require.Equal(t, http.StatusOK, r.status)
	access := r.body["access_token"].(string)
	refresh := r.body["refresh_token"].(string)

	r = ts.do(t, http.MethodGet, "/api/v1/auth/me", access, nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "alice@example.com", r.body["email"])
	assert.Equal(t, "user", r.body["role"])
	assert.Equal(t, true, r.body["is_active"])
	assert.NotEmpty(t, r.body["id"])
	assert.NotEmpty(t, r.body["created_at"])

	r = ts.do(t, http.MethodPost, "/api/v1/auth/refresh", refresh, nil)
	require.Equal(t, http.StatusOK, r.status)
	newAccess := r.body["access_token"].(string)
	assert.NotEmpty(t, r.body["refresh_token"])

	r = ts.do(t, http.MethodPost, "/api/v1/auth/refresh", refresh, nil)
	assert.Equal(t, http.StatusUnauthorized, r.status)
	assert.Equal(t, "token_revoked", r.errorCode())

	r = ts.do(t, http.MethodPost, "/api/v1/auth/logout", newAccess, nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "success", r.body["status"])
	assert.Equal(t, "access token revoked", r.body["message"])

	r = ts.do(t, http.MethodGet, "/api/v1/auth/me", newAccess, nil)
	assert.Equal(t, http.StatusUnauthorized, r.status)
	assert.Equal(t, "token_revoked", r.errorCode())
}

func TestRegister_Validation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		body   any
		fields []string
	}{
		{"empty body", nil, []string{"email", "password"}},
		{"bad email", map[string]string{"email": "not-an-email", "password": "Secret1234"}, []string{"email"}},
		{"short password", map[string]string{"email": "bob@example.com", "password": "short"}, []string{"password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, r.status)
			assert.Equal(t, "validation_error", r.errorCode())
			details := r.errorDetails()
			for _, f := range tt.fields {
				assert.Contains(t, details, f)
			}
		})
	}
}

func TestRegister_MalformedJSON(t *testing.T) {
	ts := newTestServer(t)
	r := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", "just a string")
	assert.Equal(t, http.StatusBadRequest, r.status)
	assert.Equal(t, "validation_error", r.errorCode())
	assert.Contains(t, r.errorDetails(), "body")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts := newTestServer(t)
	ts.registerUser(t, "dup@example.com")

	r := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{"email": "  DUP@example.com ", "password": "Secret1234"})
	assert.Equal(t, http.StatusConflict, r.status)
	assert.Equal(t, "conflict", r.errorCode())
	assert.Equal(t, "dup@example.com", r.errorDetails()["email"])
}

func TestLogin_EnumerationResistance(t *testing.T) {
	ts := newTestServer(t)
	ts.registerUser(t, "real@example.com")

	unknown := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "nonexistent@example.com", "password": "anything"})
	wrong := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "real@example.com", "password": "wrongpass"})

	assert.Equal(t, http.StatusUnauthorized, unknown.status)
	assert.Equal(t, unknown.status, wrong.status)
	assert.Equal(t, "invalid_credentials", unknown.errorCode())
	assert.Equal(t, unknown.body, wrong.body)
}

func TestLogin_Inactive(t *testing.T) {
	ts := newTestServer(t)
	ts.registerUser(t, "gone@example.com")

	inactive := false
	_, err := ts.users.UpdateByEmail(context.Background(), "gone@example.com", userPatchPayload{IsActive: &inactive}.update())
	require.NoError(t, err)

	r := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "gone@example.com", "password": "Secret1234"})
	assert.Equal(t, http.StatusForbidden, r.status)
	assert.Equal(t, "user_inactive", r.errorCode())

	// the wrong password still looks like any other bad credential
	r = ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "gone@example.com", "password": "nope12345"})
	assert.Equal(t, "invalid_credentials", r.errorCode())
}

func TestTokenTypeSegregation(t *testing.T) {
	ts := newTestServer(t)
	access, refresh := ts.registerUser(t, "types@example.com")

	r := ts.do(t, http.MethodGet, "/api/v1/auth/me", refresh, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, r.status)
	assert.Equal(t, "token_invalid", r.errorCode())

	r = ts.do(t, http.MethodPost, "/api/v1/auth/refresh", access, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, r.status)
	assert.Equal(t, "token_invalid", r.errorCode())
}

func TestLogout_RefreshTokenLeavesAccessUsable(t *testing.T) {
	ts := newTestServer(t)
	access, refresh := ts.registerUser(t, "pair@example.com")

	r := ts.do(t, http.MethodPost, "/api/v1/auth/logout", refresh, nil)
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "refresh token revoked", r.body["message"])

	r = ts.do(t, http.MethodGet, "/api/v1/auth/me", access, nil)
	assert.Equal(t, http.StatusOK, r.status)

	r = ts.do(t, http.MethodPost, "/api/v1/auth/refresh", refresh, nil)
	assert.Equal(t, "token_revoked", r.errorCode())

	r = ts.do(t, http.MethodPost, "/api/v1/auth/logout", refresh, nil)
	assert.Equal(t, http.StatusUnauthorized, r.status)
	assert.Equal(t, "token_revoked", r.errorCode())
}
