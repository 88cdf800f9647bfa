// Package calendar provides the calendar backend collaborator: per-participant
// busy interval lookup and best-effort event creation.
//
// Providers are substitutable behind the Provider interface; which one serves
// a deployment is selected by configuration, including the static fallback
// provider used when no live backend is reachable.
package calendar

import (
	"context"
	"time"
)

// Interval is a time range during which a participant is unavailable.
type Interval struct {
	Participant string    `json:"participant"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Label       string    `json:"label"`
}

// EventDraft describes an event to be created.
type EventDraft struct {
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Timezone    string    `json:"timezone"`
	// Participants holds attendee identities, organizer included.
	Participants []string `json:"participants"`
}

// Event is a created calendar event.
type Event struct {
	UID string `json:"uid"`
	EventDraft
	CreatedAt time.Time `json:"created_at"`
}

// Provider is a calendar session for one participant.
//
// BusyIntervals failures are per-participant and never abort the calling
// request; callers degrade to "no known busy intervals".
type Provider interface {
	// BusyIntervals returns the participant's busy intervals overlapping
	// [timeMin, timeMax), half-open.
	BusyIntervals(ctx context.Context, participant string, timeMin, timeMax time.Time) ([]Interval, error)

	// CreateEvent materializes the draft on the organizer's calendar.
	CreateEvent(ctx context.Context, organizer string, draft EventDraft) (*Event, error)
}
