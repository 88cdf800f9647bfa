package calendar

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/pkg/errors"
)

// ICSProvider reads busy intervals from per-participant ICS feeds.
// It is read-only; event creation is rejected and surfaces as a
// creation note on the scheduling result.
type ICSProvider struct {
	// feeds maps participant identity to feed URL.
	feeds  map[string]string
	client *http.Client
}

// NewICSProvider creates an ICS feed provider. A nil client gets a default
// with a bounded timeout.
func NewICSProvider(feeds map[string]string, client *http.Client) *ICSProvider {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &ICSProvider{feeds: feeds, client: client}
}

func (p *ICSProvider) BusyIntervals(ctx context.Context, participant string, timeMin, timeMax time.Time) ([]Interval, error) {
	url, ok := p.feeds[strings.ToLower(participant)]
	if !ok {
		return nil, errors.Errorf("no ICS feed configured for %s", participant)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build feed request")
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch ICS feed for %s", participant)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("ICS feed for %s returned status %d", participant, resp.StatusCode)
	}

	cal, err := ics.ParseCalendar(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse ICS feed")
	}
	return intervalsFromCalendar(cal, participant, timeMin, timeMax), nil
}

// CreateEvent is not supported by feed-backed calendars.
func (p *ICSProvider) CreateEvent(_ context.Context, organizer string, _ EventDraft) (*Event, error) {
	return nil, fmt.Errorf("ICS provider is read-only, cannot create event for %s", organizer)
}

// intervalsFromCalendar extracts busy intervals overlapping [timeMin, timeMax).
func intervalsFromCalendar(cal *ics.Calendar, participant string, timeMin, timeMax time.Time) []Interval {
	var intervals []Interval
	for _, event := range cal.Events() {
		start, err := event.GetStartAt()
		if err != nil {
			continue
		}
		end, err := event.GetEndAt()
		if err != nil {
			// Events without DTEND are treated as one hour long.
			end = start.Add(time.Hour)
		}
		if !start.Before(timeMax) || !end.After(timeMin) {
			continue
		}
		label := ""
		if prop := event.GetProperty(ics.ComponentPropertySummary); prop != nil {
			label = prop.Value
		}
		intervals = append(intervals, Interval{
			Participant: participant,
			Start:       start.UTC(),
			End:         end.UTC(),
			Label:       label,
		})
	}
	return intervals
}

var _ Provider = (*ICSProvider)(nil)
