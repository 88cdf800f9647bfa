package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleUnknownTimezoneFallsBackToUTC(t *testing.T) {
	sessions := newFakeSessions("alice@corp.test", "carol@corp.test")
	engine := newTestEngine(sessions, nil)

	req := thursdayRequest()
	req.Participants = []string{"alice@corp.test"}
	req.Timezone = "Mars/Olympus_Mons"
	result := engine.Schedule(context.Background(), req)

	require.Equal(t, StatusScheduled, result.Status)
	assert.Equal(t, "2026-09-03T10:00:00Z", result.EventStart)
}

func TestAssembleDisplaysInRequestTimezone(t *testing.T) {
	if _, err := time.LoadLocation("Asia/Kolkata"); err != nil {
		t.Skip("tzdata not available")
	}
	sessions := newFakeSessions("alice@corp.test", "carol@corp.test")
	engine := newTestEngine(sessions, nil)

	req := thursdayRequest()
	req.Participants = []string{"alice@corp.test"}
	req.Timezone = "Asia/Kolkata"
	result := engine.Schedule(context.Background(), req)

	require.Equal(t, StatusScheduled, result.Status)
	// 10:00 UTC is 15:30 IST.
	assert.Equal(t, "2026-09-03T15:30:00+05:30", result.EventStart)
}

func TestAssembleProjectionSurvivesLookupFailure(t *testing.T) {
	sessions := newFakeSessions("alice@corp.test", "carol@corp.test")
	engine := newTestEngine(sessions, nil)

	req := thursdayRequest()
	req.Participants = []string{"alice@corp.test"}
	first := engine.Schedule(context.Background(), req)
	require.Equal(t, StatusScheduled, first.Status)

	// If alice's backend dies between scheduling and projection, her entry
	// holds just the freshly scheduled event.
	sessions.providers["alice@corp.test"].busyErr = errors.New("backend unavailable")
	second := engine.Schedule(context.Background(), req)

	require.Equal(t, StatusScheduled, second.Status)
	var alice *ParticipantProjection
	for i := range second.Projections {
		if second.Projections[i].Participant == "alice@corp.test" {
			alice = &second.Projections[i]
		}
	}
	require.NotNil(t, alice)
	require.Len(t, alice.Events, 1)
	assert.Equal(t, "Planning sync", alice.Events[0].Summary)
}
