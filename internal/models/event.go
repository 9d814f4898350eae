package models

import (
	"strings"
	"time"
)

// EventType categorizes an event.
type EventType string

const (
	TypeWorkshop    EventType = "Workshop"
	TypeSeminar     EventType = "Seminar"
	TypeFest        EventType = "Fest"
	TypeCompetition EventType = "Competition"
	TypeDrive       EventType = "Drive"
	TypeHackathon   EventType = "Hackathon"
	TypeOther       EventType = "Other"
)

// EventTypes lists every known event type, in display order.
var EventTypes = []EventType{
	TypeWorkshop,
	TypeSeminar,
	TypeFest,
	TypeCompetition,
	TypeDrive,
	TypeHackathon,
	TypeOther,
}

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	for _, known := range EventTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Event mirrors an event row as served by the backend. RegisteredCount
// is a server-computed projection and must never be derived locally;
// it is only refreshed by refetching.
type Event struct {
	ID              string    `json:"event_id"`
	Title           string    `json:"title"`
	Type            EventType `json:"type"`
	Description     string    `json:"description"`
	StartsAt        string    `json:"starts_at"`
	Capacity        *int      `json:"capacity"`
	CollegeID       string    `json:"college_id,omitempty"`
	CancelledFlag   int       `json:"cancelled_flag,omitempty"`
	Features        string    `json:"features,omitempty"` // comma-joined tags
	RegisteredCount int       `json:"registered_count"`
	Featured        bool      `json:"featured,omitempty"`
}

// IsCancelled reports whether the event has been cancelled.
func (e *Event) IsCancelled() bool {
	return e.CancelledFlag != 0
}

// FeatureList splits the comma-joined feature tags, preserving order
// and dropping empty entries.
func (e *Event) FeatureList() []string {
	if e.Features == "" {
		return nil
	}
	parts := strings.Split(e.Features, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// HasFeature reports whether the event carries the given tag,
// case-insensitively.
func (e *Event) HasFeature(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, t := range e.FeatureList() {
		if strings.ToLower(t) == tag {
			return true
		}
	}
	return false
}

// MatchesQuery reports whether the free-text query is a
// case-insensitive substring of the title or description. An empty
// query matches everything.
func (e *Event) MatchesQuery(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Title), q) ||
		strings.Contains(strings.ToLower(e.Description), q)
}

// startsAtLayouts covers the timestamp shapes the backend emits:
// RFC3339 and a bare ISO timestamp without zone.
var startsAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// StartsAtTime parses the start timestamp, reporting false when the
// value is absent or unparseable.
func (e *Event) StartsAtTime() (time.Time, bool) {
	for _, layout := range startsAtLayouts {
		if t, err := time.Parse(layout, e.StartsAt); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// EventInput is the payload for creating an event. EventID may be
// supplied by the caller; the server generates one otherwise.
type EventInput struct {
	EventID       string    `json:"event_id,omitempty"`
	Title         string    `json:"title" validate:"required"`
	Type          EventType `json:"type" validate:"required"`
	Description   string    `json:"description,omitempty"`
	StartsAt      string    `json:"starts_at" validate:"required"`
	Capacity      *int      `json:"capacity,omitempty"`
	CollegeID     string    `json:"college_id,omitempty"`
	CancelledFlag int       `json:"cancelled_flag,omitempty"`
	Features      string    `json:"features,omitempty"`
}
