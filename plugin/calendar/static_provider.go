package calendar

import (
	"context"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v4"
)

// StaticProvider serves fixed busy intervals from configuration and
// acknowledges event creation without touching any backend. It exists so
// that running without a live calendar is an explicit deployment choice
// rather than a conditional inside the scheduling engine.
type StaticProvider struct {
	intervals map[string][]Interval
}

// NewStaticProvider creates a provider over fixture intervals keyed by
// participant identity (case-insensitive).
func NewStaticProvider(intervals map[string][]Interval) *StaticProvider {
	normalized := make(map[string][]Interval, len(intervals))
	for participant, list := range intervals {
		normalized[strings.ToLower(participant)] = list
	}
	return &StaticProvider{intervals: normalized}
}

func (p *StaticProvider) BusyIntervals(_ context.Context, participant string, timeMin, timeMax time.Time) ([]Interval, error) {
	var result []Interval
	for _, iv := range p.intervals[strings.ToLower(participant)] {
		if iv.Start.Before(timeMax) && iv.End.After(timeMin) {
			iv.Participant = participant
			result = append(result, iv)
		}
	}
	return result, nil
}

func (p *StaticProvider) CreateEvent(_ context.Context, _ string, draft EventDraft) (*Event, error) {
	return &Event{
		UID:        shortuuid.New(),
		EventDraft: draft,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

var _ Provider = (*StaticProvider)(nil)
