// Package auth drives the login/signup/logout lifecycle. The
// controller never trusts a login response's claimed identity: every
// transition into the authenticated state is confirmed by the whoami
// probe, so the shell always renders against server-verified role
// information.
package auth

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/campusevents/campus-client/internal/api"
	"github.com/campusevents/campus-client/internal/models"
	"github.com/campusevents/campus-client/internal/session"
	"github.com/campusevents/campus-client/pkg/apperrors"
	"github.com/campusevents/campus-client/pkg/logger"
)

// State of the auth flow.
type State int

const (
	// StateChecking is the initial state, before the first probe.
	StateChecking State = iota
	// StateAuthenticated means the server confirmed a live session.
	StateAuthenticated
	// StateAnonymous means there is no valid session.
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Landing views selected by role, mirroring the portal shell.
const (
	ViewLanding    = "landing"
	ViewCatalog    = "home"
	ViewAttendance = "attendance"
)

// Authenticator is the slice of the API client the controller needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (models.AuthResponse, error)
	Signup(ctx context.Context, in api.SignupInput) (models.AuthResponse, error)
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) (models.WhoAmI, error)
}

// Controller owns the checking → authenticated/anonymous state
// machine.
type Controller struct {
	api      Authenticator
	sessions session.Store
	onChange func(State, models.WhoAmI)

	mu       sync.Mutex
	state    State
	identity models.WhoAmI
}

// NewController creates a Controller in the checking state. onChange,
// when non-nil, is invoked after every state transition so the shell
// can re-render.
func NewController(client Authenticator, sessions session.Store, onChange func(State, models.WhoAmI)) *Controller {
	return &Controller{
		api:      client,
		sessions: sessions,
		onChange: onChange,
		state:    StateChecking,
	}
}

// State returns the current state and server-confirmed identity.
func (c *Controller) State() (State, models.WhoAmI) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.identity
}

// Resolve runs the whoami probe and settles the state machine. Any
// failure — network, server error or an explicit unauthenticated
// answer — lands in the anonymous state; a probe can never leave the
// flow stuck in checking.
func (c *Controller) Resolve(ctx context.Context) State {
	who, err := c.api.WhoAmI(ctx)
	if err != nil || !who.Authenticated {
		if err != nil {
			logger.Debug("whoami probe failed", zap.Error(err))
		}
		c.setState(StateAnonymous, models.WhoAmI{})
		return StateAnonymous
	}

	c.setState(StateAuthenticated, who)
	return StateAuthenticated
}

// Login authenticates and then re-probes whoami; only a confirmed
// session transitions the flow to authenticated.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	if _, err := c.api.Login(ctx, email, password); err != nil {
		return err
	}
	if c.Resolve(ctx) != StateAuthenticated {
		return apperrors.ErrAuthNotConfirmed
	}
	return nil
}

// Signup creates an account and confirms the resulting session the
// same way Login does.
func (c *Controller) Signup(ctx context.Context, in api.SignupInput) error {
	if _, err := c.api.Signup(ctx, in); err != nil {
		return err
	}
	if c.Resolve(ctx) != StateAuthenticated {
		return apperrors.ErrAuthNotConfirmed
	}
	return nil
}

// Logout invalidates the server session best-effort and always clears
// the local credential; a network failure must never trap the user in
// an authenticated shell.
func (c *Controller) Logout(ctx context.Context) {
	if err := c.api.Logout(ctx); err != nil {
		logger.Warn("server logout failed, clearing local session anyway", zap.Error(err))
	}

	if err := c.sessions.Clear(session.KeyAuthToken); err != nil {
		logger.LogError(err, "failed to clear stored auth token")
	}

	c.setState(StateAnonymous, models.WhoAmI{})
}

// LandingView names the role-appropriate view for the current state:
// admins land on attendance check-in, students on the event catalog.
func (c *Controller) LandingView() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateAuthenticated {
		return ViewLanding
	}
	if c.identity.Role == models.RoleAdmin {
		return ViewAttendance
	}
	return ViewCatalog
}

func (c *Controller) setState(state State, identity models.WhoAmI) {
	c.mu.Lock()
	changed := c.state != state || c.identity != identity
	c.state = state
	c.identity = identity
	c.mu.Unlock()

	if changed && c.onChange != nil {
		c.onChange(state, identity)
	}
}
