package scheduler

import (
	"context"
	"time"
)

// assembler turns the terminal machine state into the outward result,
// including the per-participant schedule projections.
type assembler struct {
	sessions SessionRegistry
	now      func() time.Time
}

func (a *assembler) assemble(ctx context.Context, st *requestState) *SchedulingResult {
	result := &SchedulingResult{
		RequestID:       st.req.RequestID,
		DurationMinutes: int(st.duration.Minutes()),
		CreationNote:    st.creationNote,
	}

	displayLoc := time.UTC
	if loc, err := time.LoadLocation(st.req.Timezone); err == nil {
		displayLoc = loc
	}

	if st.chosen != nil {
		result.Status = StatusScheduled
		result.EventStart = st.chosen.Start.In(displayLoc).Format(time.RFC3339)
		result.EventEnd = st.chosen.End.In(displayLoc).Format(time.RFC3339)
		chosen := *st.chosen
		result.ChosenSlot = &chosen
		result.Message = "meeting scheduled"
		if st.rankingNote != "" {
			result.Message = "meeting scheduled: " + st.rankingNote
		}
	} else {
		// Conflict keeps the event fields present but empty so callers can
		// rely on the shape being stable across outcomes.
		result.Status = StatusConflict
		result.EventStart = ""
		result.EventEnd = ""
		result.SuggestedSlots = st.suggestions
		result.Message = "no common free slot in the requested window"
		if len(st.suggestions) == 0 {
			result.Message = "no common free slot in the requested window or the widened search"
		}
	}

	result.Projections = a.projectParticipants(ctx, st)
	return result
}

// projectParticipants builds a seven-day view per participant. A lookup
// failure yields a projection holding only the newly scheduled event, if
// any; the participant is never dropped from the response.
func (a *assembler) projectParticipants(ctx context.Context, st *requestState) []ParticipantProjection {
	start := a.now().UTC()
	end := start.AddDate(0, 0, ProjectionWindowDays)

	projections := make([]ParticipantProjection, 0, len(st.req.Participants))
	for _, participant := range st.req.Participants {
		projection := ParticipantProjection{Participant: participant}

		if session, err := a.sessions.SessionFor(participant); err == nil {
			callCtx, cancel := context.WithTimeout(ctx, CollaboratorTimeout)
			intervals, err := session.BusyIntervals(callCtx, participant, start, end)
			cancel()
			if err == nil {
				for _, iv := range intervals {
					projection.Events = append(projection.Events, ProjectedEvent{
						Start:     iv.Start.UTC(),
						End:       iv.End.UTC(),
						Summary:   iv.Label,
						Attendees: []string{participant},
					})
				}
			}
		}

		if st.chosen != nil {
			projection.Events = append(projection.Events, ProjectedEvent{
				Start:     st.chosen.Start,
				End:       st.chosen.End,
				Summary:   st.req.Subject,
				Attendees: st.req.Participants,
			})
		}
		projections = append(projections, projection)
	}
	return projections
}
