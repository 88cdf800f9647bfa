package calendar

import (
	"context"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/hrygo/meetsense/store"
)

// StoreProvider serves busy intervals and event creation from the local
// event store. It is the default live provider.
type StoreProvider struct {
	store *store.Store
}

// NewStoreProvider creates a store-backed calendar provider.
func NewStoreProvider(st *store.Store) *StoreProvider {
	return &StoreProvider{store: st}
}

func (p *StoreProvider) BusyIntervals(ctx context.Context, participant string, timeMin, timeMax time.Time) ([]Interval, error) {
	startTs := timeMin.Unix()
	endTs := timeMax.Unix()
	events, err := p.store.ListEvents(ctx, &store.FindEvent{
		Attendee: &participant,
		StartTs:  &startTs,
		EndTs:    &endTs,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list events for %s", participant)
	}

	intervals := make([]Interval, 0, len(events))
	for _, event := range events {
		intervals = append(intervals, Interval{
			Participant: participant,
			Start:       time.Unix(event.StartTs, 0).UTC(),
			End:         time.Unix(event.EndTs, 0).UTC(),
			Label:       event.Summary,
		})
	}
	return intervals, nil
}

func (p *StoreProvider) CreateEvent(ctx context.Context, organizer string, draft EventDraft) (*Event, error) {
	created, err := p.store.CreateEvent(ctx, &store.Event{
		UID:         shortuuid.New(),
		Organizer:   organizer,
		Summary:     draft.Subject,
		Description: draft.Description,
		Location:    draft.Location,
		Attendees:   draft.Participants,
		StartTs:     draft.Start.Unix(),
		EndTs:       draft.End.Unix(),
		Timezone:    draft.Timezone,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create event")
	}
	return &Event{
		UID:        created.UID,
		EventDraft: draft,
		CreatedAt:  time.Unix(created.CreatedTs, 0).UTC(),
	}, nil
}

var _ Provider = (*StoreProvider)(nil)
