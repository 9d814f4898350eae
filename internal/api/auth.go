package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/campusevents/campus-client/internal/models"
	"github.com/campusevents/campus-client/internal/session"
	"github.com/campusevents/campus-client/pkg/apperrors"
	"github.com/campusevents/campus-client/pkg/logger"
)

// SignupInput is the payload for account creation. Role defaults to
// student when unset.
type SignupInput struct {
	Email    string      `json:"email" validate:"required,email"`
	Name     string      `json:"name"`
	Password string      `json:"password" validate:"required"`
	Role     models.Role `json:"role"`
}

// Signup creates an account. On success any returned bearer token is
// persisted into the session store before the call returns.
func (c *Client) Signup(ctx context.Context, in SignupInput) (models.AuthResponse, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Role == "" {
		in.Role = models.RoleStudent
	}
	if !in.Role.Valid() {
		return models.AuthResponse{}, apperrors.ValidationError("role", fmt.Sprintf("unknown role %q", in.Role))
	}
	if err := c.validate.Struct(in); err != nil {
		return models.AuthResponse{}, err
	}

	var out models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signup", nil, in, &out); err != nil {
		return models.AuthResponse{}, err
	}
	c.persistToken(out.Token)
	return out, nil
}

// Login authenticates with email and password, persisting any
// returned bearer token before the call returns. Cookie-mode
// deployments return no token; the transport's cookie jar carries the
// session instead.
func (c *Client) Login(ctx context.Context, email, password string) (models.AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return models.AuthResponse{}, apperrors.ValidationError("credentials", "email and password are required")
	}

	body := map[string]string{"email": email, "password": password}
	var out models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &out); err != nil {
		return models.AuthResponse{}, err
	}
	c.persistToken(out.Token)
	return out, nil
}

// Logout invalidates the server-side session. Clearing local state is
// the auth controller's job and happens regardless of this outcome.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

// WhoAmI probes the current session's validity.
func (c *Client) WhoAmI(ctx context.Context) (models.WhoAmI, error) {
	var out models.WhoAmI
	if err := c.do(ctx, http.MethodGet, "/auth/whoami", nil, nil, &out); err != nil {
		return models.WhoAmI{}, err
	}
	return out, nil
}

func (c *Client) persistToken(token string) {
	if token == "" || c.sessions == nil {
		return
	}
	if err := c.sessions.Set(session.KeyAuthToken, token); err != nil {
		// The server session is live even if the local mirror failed;
		// surface it loudly rather than fail the login.
		logger.LogError(err, "failed to persist auth token")
	}
}
