package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/campusevents/campus-client/internal/models"
)

// Admin analytics. All four are idempotent reads over server-computed
// aggregates.

// ReportRegistrations returns per-event registration counts.
func (c *Client) ReportRegistrations(ctx context.Context, collegeID string) ([]models.RegistrationCount, error) {
	params := url.Values{}
	if collegeID == "" {
		collegeID = c.collegeID
	}
	if collegeID != "" {
		params.Set("college_id", collegeID)
	}

	var out []models.RegistrationCount
	if err := c.do(ctx, http.MethodGet, "/reports/registrations", params, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReportAttendancePercentage returns attendance rates, optionally
// narrowed to one event.
func (c *Client) ReportAttendancePercentage(ctx context.Context, eventID string) ([]models.AttendanceRate, error) {
	params := url.Values{}
	if eventID != "" {
		params.Set("event_id", eventID)
	}

	var out []models.AttendanceRate
	if err := c.do(ctx, http.MethodGet, "/reports/attendance_percentage", params, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReportTopActiveStudents returns the most active students by attended
// events. A non-positive limit lets the server pick its default.
func (c *Client) ReportTopActiveStudents(ctx context.Context, collegeID string, limit int) ([]models.ActiveStudent, error) {
	params := url.Values{}
	if collegeID == "" {
		collegeID = c.collegeID
	}
	if collegeID != "" {
		params.Set("college_id", collegeID)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var out []models.ActiveStudent
	if err := c.do(ctx, http.MethodGet, "/reports/top-active-students", params, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReportAvgFeedback returns per-event average ratings.
func (c *Client) ReportAvgFeedback(ctx context.Context, collegeID string) ([]models.FeedbackAverage, error) {
	params := url.Values{}
	if collegeID == "" {
		collegeID = c.collegeID
	}
	if collegeID != "" {
		params.Set("college_id", collegeID)
	}

	var out []models.FeedbackAverage
	if err := c.do(ctx, http.MethodGet, "/reports/avg_feedback", params, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
