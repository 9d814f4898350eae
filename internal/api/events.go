package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/campusevents/campus-client/internal/models"
	"github.com/campusevents/campus-client/pkg/apperrors"
)

// ListEventsQuery filters GET /events. Zero values are omitted from
// the query string. CollegeID falls back to the client's configured
// college when empty.
type ListEventsQuery struct {
	CollegeID string
	Type      string // concrete event type; "" or "All" means no filter
	Search    string
	Feature   string
}

// ListEvents fetches the event catalog. Idempotent and side-effect
// free.
func (c *Client) ListEvents(ctx context.Context, q ListEventsQuery) ([]models.Event, error) {
	params := url.Values{}
	college := q.CollegeID
	if college == "" {
		college = c.collegeID
	}
	if college != "" {
		params.Set("college_id", college)
	}
	if q.Type != "" && q.Type != "All" {
		params.Set("type", q.Type)
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		params.Set("search", s)
	}
	if q.Feature != "" {
		params.Set("feature", q.Feature)
	}

	var out []models.Event
	if err := c.do(ctx, http.MethodGet, "/events", params, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetEvent fetches a single event by id.
func (c *Client) GetEvent(ctx context.Context, eventID string) (models.Event, error) {
	var out models.Event
	err := c.do(ctx, http.MethodGet, "/events/"+url.PathEscape(eventID), nil, nil, &out)
	return out, err
}

// CreateEvent creates an event (admin) and returns the new event id.
func (c *Client) CreateEvent(ctx context.Context, in models.EventInput) (string, error) {
	if err := c.validate.Struct(in); err != nil {
		return "", err
	}
	if !in.Type.Valid() {
		return "", apperrors.ValidationError("type", "unknown event type")
	}

	var out struct {
		Message string `json:"message"`
		EventID string `json:"event_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/events", nil, in, &out); err != nil {
		return "", err
	}
	return out.EventID, nil
}

// UpdateEvent updates only the provided fields of an event (admin).
func (c *Client) UpdateEvent(ctx context.Context, eventID string, fields map[string]any) error {
	if len(fields) == 0 {
		return apperrors.ValidationError("fields", "nothing to update")
	}
	return c.do(ctx, http.MethodPut, "/events/"+url.PathEscape(eventID), nil, fields, nil)
}

// DeleteEvent removes an event (admin).
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	return c.do(ctx, http.MethodDelete, "/events/"+url.PathEscape(eventID), nil, nil, nil)
}

// RegisterForEvent registers the student and returns the issued
// check-in token. A duplicate registration is rejected by the server
// with 409; the original token is recoverable via
// RegistrationsForStudent, never regenerated.
func (c *Client) RegisterForEvent(ctx context.Context, eventID, studentID string) (models.RegisterResponse, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return models.RegisterResponse{}, apperrors.ValidationError("student_id", "is required")
	}

	body := map[string]string{"student_id": studentID}
	var out models.RegisterResponse
	err := c.do(ctx, http.MethodPost, "/events/"+url.PathEscape(eventID)+"/register", nil, body, &out)
	return out, err
}

// RegistrationsForStudent lists the student's registrations, including
// their stable check-in tokens. Idempotent read.
func (c *Client) RegistrationsForStudent(ctx context.Context, studentID string) ([]models.Registration, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, apperrors.ValidationError("student_id", "is required")
	}

	params := url.Values{}
	params.Set("student_id", studentID)

	var out []models.Registration
	if err := c.do(ctx, http.MethodGet, "/registrations", params, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitFeedback posts a rating and comment for an event. The rating
// bounds are enforced locally, before any network traffic.
func (c *Client) SubmitFeedback(ctx context.Context, fb models.FeedbackEntry) error {
	if err := c.validate.Struct(fb); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/feedback/"+url.PathEscape(fb.EventID), nil, fb, nil)
}

// MarkAttendance marks a student present at an event (manual check-in).
func (c *Client) MarkAttendance(ctx context.Context, eventID, studentID string) (models.AttendanceResult, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return models.AttendanceResult{}, apperrors.ValidationError("student_id", "is required")
	}

	body := map[string]string{"student_id": studentID}
	var out models.AttendanceResult
	err := c.do(ctx, http.MethodPost, "/events/"+url.PathEscape(eventID)+"/attendance", nil, body, &out)
	return out, err
}

// MarkAttendanceByToken checks a student in using their registration
// token (admin). The server resolves the token to its registration; an
// unknown token is an APIError, with no local state change.
func (c *Client) MarkAttendanceByToken(ctx context.Context, token string) (models.AttendanceResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return models.AttendanceResult{}, apperrors.ValidationError("token", "is required")
	}

	body := map[string]string{"token": token}
	var out models.AttendanceResult
	err := c.do(ctx, http.MethodPost, "/attendance/token", nil, body, &out)
	return out, err
}
