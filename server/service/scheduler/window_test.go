package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday of a plain full business week.
var wednesday = time.Date(2026, 9, 2, 11, 0, 0, 0, time.UTC)

func TestResolveRuleTable(t *testing.T) {
	resolver := NewWindowResolver(time.UTC)

	tests := []struct {
		name      string
		hint      string
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "next week from wednesday spans monday to friday",
			hint:      "sometime next week",
			now:       wednesday,
			wantStart: time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 9, 11, 17, 0, 0, 0, time.UTC),
		},
		{
			name:      "weekday hint resolves to that day",
			hint:      "can we meet on Thursday?",
			now:       wednesday,
			wantStart: time.Date(2026, 9, 3, 10, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 9, 3, 17, 0, 0, 0, time.UTC),
		},
		{
			name:      "today's weekday before close stays today",
			hint:      "wednesday works for me",
			now:       wednesday,
			wantStart: time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 9, 2, 17, 0, 0, 0, time.UTC),
		},
		{
			name:      "today's weekday after close rolls a week forward",
			hint:      "wednesday works for me",
			now:       time.Date(2026, 9, 2, 18, 0, 0, 0, time.UTC),
			wantStart: time.Date(2026, 9, 9, 10, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 9, 9, 17, 0, 0, 0, time.UTC),
		},
		{
			name:      "this week runs from now to friday close",
			hint:      "this week if possible",
			now:       wednesday,
			wantStart: time.Date(2026, 9, 2, 11, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 9, 4, 17, 0, 0, 0, time.UTC),
		},
		{
			name:      "this week after hours starts tomorrow morning",
			hint:      "this week if possible",
			now:       time.Date(2026, 9, 2, 18, 0, 0, 0, time.UTC),
			wantStart: time.Date(2026, 9, 3, 10, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 9, 4, 17, 0, 0, 0, time.UTC),
		},
		{
			name:      "this week on friday evening moves to next week",
			hint:      "this week",
			now:       time.Date(2026, 9, 4, 18, 0, 0, 0, time.UTC),
			wantStart: time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 9, 11, 17, 0, 0, 0, time.UTC),
		},
		{
			name:      "weekday beats next week when both appear",
			hint:      "next week, ideally Monday",
			now:       wednesday,
			wantStart: time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 9, 7, 17, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			window := resolver.Resolve(tc.hint, tc.now)
			assert.True(t, window.Start.Equal(tc.wantStart), "start: got %v want %v", window.Start, tc.wantStart)
			assert.True(t, window.End.Equal(tc.wantEnd), "end: got %v want %v", window.End, tc.wantEnd)
		})
	}
}

func TestResolveFallbackWindow(t *testing.T) {
	resolver := NewWindowResolver(time.UTC)

	window := resolver.Resolve("whenever suits everyone", wednesday)

	assert.True(t, window.Start.Equal(wednesday))
	assert.True(t, window.End.Equal(wednesday.AddDate(0, 0, DefaultWindowDays)))
}

func TestResolveNormalizesToUTC(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	resolver := NewWindowResolver(ist)

	window := resolver.Resolve("thursday", wednesday)

	require.Equal(t, time.UTC, window.Start.Location())
	require.Equal(t, time.UTC, window.End.Location())
	// 10:00 IST on Thursday is 04:30 UTC.
	assert.True(t, window.Start.Equal(time.Date(2026, 9, 3, 4, 30, 0, 0, time.UTC)))
	assert.True(t, window.End.Equal(time.Date(2026, 9, 3, 11, 30, 0, 0, time.UTC)))
}

func TestResolveHintIsCaseInsensitive(t *testing.T) {
	resolver := NewWindowResolver(time.UTC)

	upper := resolver.Resolve("NEXT WEEK", wednesday)
	lower := resolver.Resolve("next week", wednesday)

	assert.True(t, upper.Start.Equal(lower.Start))
	assert.True(t, upper.End.Equal(lower.End))
}

func TestNewTimeWindowRejectsInvertedBounds(t *testing.T) {
	start := wednesday
	window := NewTimeWindow(start, start.Add(-time.Hour))

	assert.True(t, window.End.Equal(start.Add(time.Hour)))
}
