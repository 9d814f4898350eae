package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusevents/campus-client/internal/api"
	"github.com/campusevents/campus-client/internal/models"
	"github.com/campusevents/campus-client/internal/session"
	"github.com/campusevents/campus-client/pkg/apperrors"
)

func TestLogin_PersistsToken(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeJSON(t, w, http.StatusOK, models.AuthResponse{
			Message: "Logged in",
			Token:   "tok-login",
			Role:    models.RoleStudent,
			Email:   "a@b.edu",
		})
	}))
	defer server.Close()

	client, store := newClient(t, server)
	out, err := client.Login(context.Background(), "  A@B.EDU ", "pw")
	require.NoError(t, err)

	assert.Equal(t, "tok-login", out.Token)
	assert.Equal(t, models.RoleStudent, out.Role)
	assert.Equal(t, "a@b.edu", gotBody["email"], "email must be lowercased and trimmed")

	stored, ok := store.Get(session.KeyAuthToken)
	assert.True(t, ok)
	assert.Equal(t, "tok-login", stored)
}

func TestLogin_EmptyCredentialsNoNetwork(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	client, _ := newClient(t, server)

	_, err := client.Login(context.Background(), "", "pw")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = client.Login(context.Background(), "a@b.edu", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	assert.Zero(t, calls)
}

func TestLogin_BadCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
	}))
	defer server.Close()

	client, store := newClient(t, server)
	_, err := client.Login(context.Background(), "a@b.edu", "wrong")

	assert.True(t, apperrors.IsAPIStatus(err, http.StatusUnauthorized))
	_, ok := store.Get(session.KeyAuthToken)
	assert.False(t, ok, "a failed login must not store a token")
}

func TestSignup_DefaultsRoleToStudent(t *testing.T) {
	var gotBody api.SignupInput
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/signup", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeJSON(t, w, http.StatusCreated, models.AuthResponse{Token: "tok-new"})
	}))
	defer server.Close()

	client, store := newClient(t, server)
	_, err := client.Signup(context.Background(), api.SignupInput{
		Email:    "New@Campus.edu",
		Name:     "New Student",
		Password: "pw",
	})
	require.NoError(t, err)

	assert.Equal(t, models.RoleStudent, gotBody.Role)
	assert.Equal(t, "new@campus.edu", gotBody.Email)

	stored, ok := store.Get(session.KeyAuthToken)
	assert.True(t, ok)
	assert.Equal(t, "tok-new", stored)
}

func TestSignup_Validation(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	client, _ := newClient(t, server)

	tests := []struct {
		name  string
		input api.SignupInput
	}{
		{
			name:  "missing email",
			input: api.SignupInput{Password: "pw"},
		},
		{
			name:  "malformed email",
			input: api.SignupInput{Email: "not-an-email", Password: "pw"},
		},
		{
			name:  "missing password",
			input: api.SignupInput{Email: "a@b.edu"},
		},
		{
			name:  "unknown role",
			input: api.SignupInput{Email: "a@b.edu", Password: "pw", Role: "superuser"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Signup(context.Background(), tt.input)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
	assert.Zero(t, calls)
}

func TestWhoAmI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/whoami", r.URL.Path)
		writeJSON(t, w, http.StatusOK, models.WhoAmI{
			Authenticated: true,
			Role:          models.RoleAdmin,
			Email:         "admin@campus.edu",
			Name:          "Admin",
		})
	}))
	defer server.Close()

	client, _ := newClient(t, server)
	who, err := client.WhoAmI(context.Background())
	require.NoError(t, err)

	assert.True(t, who.Authenticated)
	assert.Equal(t, models.RoleAdmin, who.Role)
	assert.Equal(t, "Admin", who.Name)
}

func TestLogout(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
	}))
	defer server.Close()

	client, _ := newClient(t, server)
	require.NoError(t, client.Logout(context.Background()))
	assert.Equal(t, "/auth/logout", gotPath)
}
