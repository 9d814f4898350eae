// Package registration drives event registration and the check-in
// token lifecycle. Tokens are cached in memory per event for instant
// QR rendering, but the server copy is authoritative: a fresh process
// recovers every token by refetching the student's registrations.
package registration

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/campusevents/campus-client/internal/models"
	"github.com/campusevents/campus-client/internal/session"
	"github.com/campusevents/campus-client/pkg/apperrors"
	"github.com/campusevents/campus-client/pkg/logger"
)

// ErrIdentityRequired is returned when an operation needs a student id
// and none has been entered yet. Callers should pause the flow and
// prompt for identity instead of failing silently.
var ErrIdentityRequired = fmt.Errorf("student id not set: %w", apperrors.ErrValidation)

// AlreadyRegisteredError reports a duplicate registration attempt. It
// carries the original check-in token, recovered from the server's
// registration list, so callers can show it instead of failing. It
// unwraps to the server's conflict error.
type AlreadyRegisteredError struct {
	EventID string
	Token   string
	cause   error
}

func (e *AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("already registered for event %s", e.EventID)
}

func (e *AlreadyRegisteredError) Unwrap() error {
	return e.cause
}

const tokenCacheCleanup = 10 * time.Minute

// EventRegistrar is the slice of the API client the flow needs.
type EventRegistrar interface {
	RegisterForEvent(ctx context.Context, eventID, studentID string) (models.RegisterResponse, error)
	RegistrationsForStudent(ctx context.Context, studentID string) ([]models.Registration, error)
	SubmitFeedback(ctx context.Context, fb models.FeedbackEntry) error
}

// Flow coordinates registration, token recovery and feedback for the
// current identity.
type Flow struct {
	api      EventRegistrar
	sessions session.Store
	tokens   *gocache.Cache // event id -> token
}

// NewFlow creates a Flow backed by the given API client and session
// store.
func NewFlow(client EventRegistrar, sessions session.Store) *Flow {
	return &Flow{
		api:      client,
		sessions: sessions,
		tokens:   gocache.New(gocache.NoExpiration, tokenCacheCleanup),
	}
}

// StudentID returns the stored student identity, if any.
func (f *Flow) StudentID() (string, bool) {
	return f.sessions.Get(session.KeyStudentID)
}

// SetStudentID stores the manually entered identity. Ids are
// normalized to lower case, matching how the server stores them.
func (f *Flow) SetStudentID(id string) error {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return apperrors.ValidationError("student_id", "is required")
	}
	return f.sessions.Set(session.KeyStudentID, id)
}

// ClearStudentID drops the stored identity and any cached tokens.
func (f *Flow) ClearStudentID() error {
	f.tokens.Flush()
	return f.sessions.Clear(session.KeyStudentID)
}

// Register registers the current identity for the event and returns
// the issued check-in token. Without a stored identity it returns
// ErrIdentityRequired so the caller can prompt. When the server
// rejects a duplicate registration the original token is recovered
// from the registration list, never minted again, and returned inside
// an *AlreadyRegisteredError.
func (f *Flow) Register(ctx context.Context, eventID string) (string, error) {
	studentID, ok := f.StudentID()
	if !ok {
		return "", ErrIdentityRequired
	}

	res, err := f.api.RegisterForEvent(ctx, eventID, studentID)
	if err != nil {
		if apperrors.IsAPIStatus(err, http.StatusConflict) {
			if token, terr := f.Token(ctx, eventID); terr == nil {
				logger.Debug("already registered, recovered existing token")
				return "", &AlreadyRegisteredError{EventID: eventID, Token: token, cause: err}
			}
		}
		return "", err
	}

	f.tokens.Set(eventID, res.Token, gocache.DefaultExpiration)
	return res.Token, nil
}

// Token returns the check-in token for a prior registration, serving
// from the in-memory cache when possible and otherwise recovering it
// from the server's registration list.
func (f *Flow) Token(ctx context.Context, eventID string) (string, error) {
	if v, ok := f.tokens.Get(eventID); ok {
		return v.(string), nil
	}

	regs, err := f.Registrations(ctx)
	if err != nil {
		return "", err
	}
	for _, reg := range regs {
		if reg.EventID == eventID && reg.Token != "" {
			return reg.Token, nil
		}
	}
	return "", apperrors.NotFoundError("registration for event " + eventID)
}

// Registrations fetches the current identity's registrations and
// refreshes the token cache from them.
func (f *Flow) Registrations(ctx context.Context) ([]models.Registration, error) {
	studentID, ok := f.StudentID()
	if !ok {
		return nil, ErrIdentityRequired
	}

	regs, err := f.api.RegistrationsForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	for _, reg := range regs {
		if reg.Token != "" {
			f.tokens.Set(reg.EventID, reg.Token, gocache.DefaultExpiration)
		}
	}
	return regs, nil
}

// IsRegistered reports whether the current identity already holds a
// registration for the event. The answer comes from the server's
// list, not the local token cache, so it stays correct across app
// reloads and devices.
func (f *Flow) IsRegistered(ctx context.Context, eventID string) (bool, error) {
	regs, err := f.Registrations(ctx)
	if err != nil {
		return false, err
	}
	for _, reg := range regs {
		if reg.EventID == eventID {
			return true, nil
		}
	}
	return false, nil
}

// SubmitFeedback attaches a rating and comment to the event for the
// current identity. Rating bounds are validated before any network
// call by the API client.
func (f *Flow) SubmitFeedback(ctx context.Context, eventID string, rating int, comment string) error {
	studentID, ok := f.StudentID()
	if !ok {
		return ErrIdentityRequired
	}

	return f.api.SubmitFeedback(ctx, models.FeedbackEntry{
		EventID:   eventID,
		StudentID: studentID,
		Rating:    rating,
		Comment:   comment,
	})
}

// CachedToken returns the in-memory token for an event without any
// network traffic.
func (f *Flow) CachedToken(eventID string) (string, bool) {
	v, ok := f.tokens.Get(eventID)
	if !ok {
		return "", false
	}
	token, ok := v.(string)
	return token, ok
}
