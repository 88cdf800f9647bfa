// Package store provides the persistence layer for calendar events.
//
// The store only deals in flat event rows; interpreting rows as busy
// intervals for a participant is the calendar provider's job.
package store

import (
	"context"
	"strings"
)

// Event is a stored calendar event.
type Event struct {
	ID          int64
	UID         string
	Organizer   string
	Summary     string
	Description string
	Location    string
	// Attendees holds participant identities, organizer included.
	Attendees []string
	StartTs   int64
	EndTs     int64
	Timezone  string
	CreatedTs int64
}

// FindEvent describes an event query. Nil fields are not filtered on.
type FindEvent struct {
	Attendee *string
	// StartTs/EndTs select events overlapping [StartTs, EndTs).
	StartTs *int64
	EndTs   *int64
}

// Driver is the storage backend interface.
type Driver interface {
	CreateEvent(ctx context.Context, create *Event) (*Event, error)
	ListEvents(ctx context.Context, find *FindEvent) ([]*Event, error)
	Close() error
}

// Store wraps a Driver with query-side filtering that is awkward in SQL.
type Store struct {
	driver Driver
}

// New creates a new Store with the given driver.
func New(driver Driver) *Store {
	return &Store{driver: driver}
}

func (s *Store) CreateEvent(ctx context.Context, create *Event) (*Event, error) {
	return s.driver.CreateEvent(ctx, create)
}

// ListEvents returns events matching find. The attendee filter is applied
// here since attendees are stored as a single encoded column.
func (s *Store) ListEvents(ctx context.Context, find *FindEvent) ([]*Event, error) {
	list, err := s.driver.ListEvents(ctx, find)
	if err != nil {
		return nil, err
	}
	if find == nil || find.Attendee == nil {
		return list, nil
	}
	filtered := make([]*Event, 0, len(list))
	for _, event := range list {
		if eventHasAttendee(event, *find.Attendee) {
			filtered = append(filtered, event)
		}
	}
	return filtered, nil
}

func (s *Store) Close() error {
	return s.driver.Close()
}

func eventHasAttendee(event *Event, attendee string) bool {
	if strings.EqualFold(event.Organizer, attendee) {
		return true
	}
	for _, a := range event.Attendees {
		if strings.EqualFold(a, attendee) {
			return true
		}
	}
	return false
}
