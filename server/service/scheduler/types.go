// Package scheduler implements the scheduling decision engine: resolving a
// free-text time hint into a search window, intersecting participant busy
// intervals to find a mutually free slot, and sequencing the whole flow
// through an explicit state machine.
package scheduler

import (
	"time"
)

// MeetingRequest is a request to schedule one meeting. It is passed by value
// into the engine; the engine keeps no state across requests.
type MeetingRequest struct {
	RequestID string
	Organizer string
	// Participants is the ordered, deduplicated participant set. The
	// organizer is added during Parse if absent.
	Participants []string
	Subject      string
	// Body is the free-text content time hints are read from.
	Body string
	// Hint overrides Body as the time-hint source when set.
	Hint string
	// DurationMinutes is the explicit duration; 0 means derive from text.
	DurationMinutes int
	// Timezone is the preferred display zone, defaulting to UTC.
	Timezone string
	Location string
}

// TimeWindow is the half-open [Start, End) range searched for a slot.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// NewTimeWindow builds a window, coercing a non-positive span to one hour.
func NewTimeWindow(start, end time.Time) TimeWindow {
	if !end.After(start) {
		end = start.Add(time.Hour)
	}
	return TimeWindow{Start: start, End: end}
}

// UTC returns the window normalized to UTC.
func (w TimeWindow) UTC() TimeWindow {
	return TimeWindow{Start: w.Start.UTC(), End: w.End.UTC()}
}

// BusyInterval is a participant's unavailable range, fetched fresh per
// request and never cached across requests.
type BusyInterval struct {
	Participant string    `json:"participant"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Label       string    `json:"label"`
}

// Overlaps reports half-open overlap with [start, end).
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	return start.Before(b.End) && end.After(b.Start)
}

// CandidateSlot is a tentative start/end pair considered during slot search.
type CandidateSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Status is the terminal outcome of one scheduling request.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConflict  Status = "conflict"
	StatusError     Status = "error"
)

// ProjectedEvent is one entry in a participant's post-scheduling calendar view.
type ProjectedEvent struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Summary   string    `json:"summary"`
	Attendees []string  `json:"attendees,omitempty"`
}

// ParticipantProjection is a participant's projected event list for the
// next seven days, including the newly chosen slot when one was scheduled.
type ParticipantProjection struct {
	Participant string           `json:"participant"`
	Events      []ProjectedEvent `json:"events"`
}

// SchedulingResult is the structured outcome handed back to the caller.
// EventStart/EventEnd are RFC 3339 in the request timezone, and empty
// strings unless the status is Scheduled.
type SchedulingResult struct {
	RequestID       string                  `json:"request_id"`
	Status          Status                  `json:"status"`
	EventStart      string                  `json:"event_start"`
	EventEnd        string                  `json:"event_end"`
	DurationMinutes int                     `json:"duration_minutes"`
	ChosenSlot      *CandidateSlot          `json:"chosen_slot,omitempty"`
	SuggestedSlots  []CandidateSlot         `json:"suggested_slots,omitempty"`
	Projections     []ParticipantProjection `json:"projections"`
	Message         string                  `json:"message"`
	// CreationNote records a best-effort event creation failure without
	// downgrading the status.
	CreationNote string `json:"creation_note,omitempty"`
	ErrorDetail  string `json:"error_detail,omitempty"`
}
