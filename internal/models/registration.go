package models

// RegistrationStatus tracks a registration through its lifecycle.
type RegistrationStatus string

const (
	StatusRegistered RegistrationStatus = "registered"
	StatusAttended   RegistrationStatus = "attended"
)

// Registration mirrors a row of GET /registrations. The token is the
// sole check-in credential; once issued for (event, student) it never
// changes, so refetching the list always yields the same value. The
// Event* fields are join-enriched by the server and may be absent.
type Registration struct {
	ID            int                `json:"reg_id"`
	EventID       string             `json:"event_id"`
	StudentID     string             `json:"student_id,omitempty"`
	Token         string             `json:"token"`
	Status        RegistrationStatus `json:"status"`
	RegisteredAt  string             `json:"registered_at"`
	EventTitle    string             `json:"event_title,omitempty"`
	EventStartsAt string             `json:"event_starts_at,omitempty"`
	EventType     EventType          `json:"event_type,omitempty"`
	EventDesc     string             `json:"event_description,omitempty"`
	EventCapacity *int               `json:"event_capacity,omitempty"`
}

// RegisterResponse is returned by POST /events/:id/register.
type RegisterResponse struct {
	Message string `json:"message,omitempty"`
	Token   string `json:"token"`
}

// FeedbackEntry is a write-once feedback submission for an event the
// student registered for.
type FeedbackEntry struct {
	EventID   string `json:"-"`
	StudentID string `json:"student_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

// AttendanceResult is returned by the attendance endpoints.
type AttendanceResult struct {
	Message   string `json:"message,omitempty"`
	EventID   string `json:"event_id,omitempty"`
	StudentID string `json:"student_id,omitempty"`
}
