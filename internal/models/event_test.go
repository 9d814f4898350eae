package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventType_Valid(t *testing.T) {
	assert.True(t, TypeWorkshop.Valid())
	assert.True(t, TypeHackathon.Valid())
	assert.False(t, EventType("Party").Valid())
	assert.False(t, EventType("").Valid())
}

func TestEvent_FeatureList(t *testing.T) {
	tests := []struct {
		name     string
		features string
		expected []string
	}{
		{
			name:     "comma joined with spaces",
			features: "Food, Certificates, Swag",
			expected: []string{"Food", "Certificates", "Swag"},
		},
		{
			name:     "single tag",
			features: "Food",
			expected: []string{"Food"},
		},
		{
			name:     "empty string",
			features: "",
			expected: nil,
		},
		{
			name:     "stray commas dropped",
			features: ",Food,,",
			expected: []string{"Food"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Event{Features: tt.features}
			assert.Equal(t, tt.expected, ev.FeatureList())
		})
	}
}

func TestEvent_HasFeature(t *testing.T) {
	ev := Event{Features: "Food, Certificates"}

	assert.True(t, ev.HasFeature("Food"))
	assert.True(t, ev.HasFeature("food"))
	assert.True(t, ev.HasFeature(" CERTIFICATES "))
	assert.False(t, ev.HasFeature("Swag"))
}

func TestEvent_MatchesQuery(t *testing.T) {
	ev := Event{Title: "Robotics Workshop", Description: "Build and race bots"}

	assert.True(t, ev.MatchesQuery(""))
	assert.True(t, ev.MatchesQuery("robotics"))
	assert.True(t, ev.MatchesQuery("RACE"))
	assert.True(t, ev.MatchesQuery("  bots "))
	assert.False(t, ev.MatchesQuery("seminar"))
}

func TestEvent_StartsAtTime(t *testing.T) {
	tests := []struct {
		name     string
		startsAt string
		ok       bool
	}{
		{name: "rfc3339", startsAt: "2026-09-10T14:00:00Z", ok: true},
		{name: "bare iso", startsAt: "2026-09-10T14:00:00", ok: true},
		{name: "iso with micros", startsAt: "2026-09-10T14:00:00.123456", ok: true},
		{name: "space separator", startsAt: "2026-09-10 14:00:00", ok: true},
		{name: "date only", startsAt: "2026-09-10", ok: true},
		{name: "empty", startsAt: "", ok: false},
		{name: "garbage", startsAt: "next tuesday", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Event{StartsAt: tt.startsAt}
			_, ok := ev.StartsAtTime()
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestEvent_IsCancelled(t *testing.T) {
	assert.False(t, (&Event{}).IsCancelled())
	assert.True(t, (&Event{CancelledFlag: 1}).IsCancelled())
}

func TestEvent_JSONShape(t *testing.T) {
	raw := `{
		"event_id": "e1",
		"title": "Robotics Workshop",
		"type": "Workshop",
		"starts_at": "2026-09-10T14:00:00",
		"capacity": null,
		"features": "Food",
		"registered_count": 10
	}`

	var ev Event
	require.NoError(t, json.Unmarshal([]byte(raw), &ev))

	assert.Equal(t, "e1", ev.ID)
	assert.Nil(t, ev.Capacity, "null capacity means unlimited")
	assert.Equal(t, 10, ev.RegisteredCount)
	assert.False(t, ev.Featured, "featured is optional and defaults off")
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleStudent.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())
}
