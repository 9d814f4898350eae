package models

// Admin reporting rows. All aggregates are computed server-side; the
// client renders them as-is.

// RegistrationCount is a row of /reports/registrations.
type RegistrationCount struct {
	EventID       string    `json:"event_id"`
	Title         string    `json:"title"`
	Type          EventType `json:"type"`
	Registrations int       `json:"registrations"`
}

// AttendanceRate is a row of /reports/attendance_percentage.
// AttendancePct is null when an event has no registrations.
type AttendanceRate struct {
	EventID       string   `json:"event_id"`
	Title         string   `json:"title"`
	Registrations int      `json:"registrations"`
	Presents      int      `json:"presents"`
	AttendancePct *float64 `json:"attendance_pct"`
}

// ActiveStudent is a row of /reports/top-active-students.
type ActiveStudent struct {
	StudentID      string `json:"student_id"`
	Name           string `json:"name"`
	RollNo         string `json:"roll_no"`
	AttendedEvents int    `json:"attended_events"`
}

// FeedbackAverage is a row of /reports/avg_feedback. AvgRating is null
// for events without feedback.
type FeedbackAverage struct {
	EventID       string   `json:"event_id"`
	Title         string   `json:"title"`
	AvgRating     *float64 `json:"avg_rating"`
	FeedbackCount int      `json:"feedback_count"`
}
