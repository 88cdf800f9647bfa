package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hrygo/meetsense/plugin/ai"
	"github.com/hrygo/meetsense/plugin/calendar"
	schederr "github.com/hrygo/meetsense/server/internal/errors"
	"github.com/hrygo/meetsense/server/internal/observability"
)

// State identifies a step of the scheduling flow.
type State string

const (
	StateParse             State = "parse"
	StateCheckAvailability State = "check_availability"
	StateSchedule          State = "schedule"
	StateConflict          State = "conflict"
	StateRespond           State = "respond"
	StateError             State = "error"

	// stateDone marks the end of the transition loop.
	stateDone State = "done"
)

// SessionRegistry resolves the calendar session for a participant.
type SessionRegistry interface {
	SessionFor(participant string) (calendar.Provider, error)
}

// stateHandler executes one state and names the next. Each state runs at
// most once per request; there are no retries.
type stateHandler func(ctx context.Context, st *requestState) State

// requestState is the transient state owned by the engine for the lifetime
// of exactly one request.
type requestState struct {
	req    MeetingRequest
	reqCtx *observability.RequestContext

	window         TimeWindow
	duration       time.Duration
	busy           map[string][]BusyInterval
	lookupFailures []string

	candidates   []CandidateSlot
	chosen       *CandidateSlot
	suggestions  []CandidateSlot
	rankingNote  string
	creationNote string

	err    error
	result *SchedulingResult
}

// Engine sequences Parse, CheckAvailability, Schedule or Conflict, and
// Respond for one meeting request at a time. It holds no per-request state
// between calls; concurrent requests each get their own requestState.
type Engine struct {
	sessions    SessionRegistry
	completion  ai.CompletionService
	resolver    *WindowResolver
	intersector *Intersector
	assembler   *assembler
	logger      *slog.Logger
	now         func() time.Time
}

// EngineOption customizes engine construction.
type EngineOption func(*Engine)

// WithClock overrides the engine clock.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// WithLogger overrides the engine logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine creates the scheduling engine. completion may be nil; the
// engine then relies purely on the deterministic parsing fallbacks, and the
// schedule path always takes the first chronological slot.
func NewEngine(sessions SessionRegistry, completion ai.CompletionService, loc *time.Location, opts ...EngineOption) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	e := &Engine{
		sessions:    sessions,
		completion:  completion,
		resolver:    NewWindowResolver(loc),
		intersector: NewIntersector(loc),
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.assembler = &assembler{sessions: sessions, now: e.now}
	return e
}

// transitions is the fixed state table. The flow is linear except for the
// availability branch point.
func (e *Engine) transitions() map[State]stateHandler {
	return map[State]stateHandler{
		StateParse:             e.handleParse,
		StateCheckAvailability: e.handleCheckAvailability,
		StateSchedule:          e.handleSchedule,
		StateConflict:          e.handleConflict,
		StateRespond:           e.handleRespond,
		StateError:             e.handleError,
	}
}

// Schedule processes one request end to end and always returns a structured
// result; no failure propagates past this method.
func (e *Engine) Schedule(ctx context.Context, req MeetingRequest) (result SchedulingResult) {
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}
	st := &requestState{
		req:    req,
		reqCtx: observability.NewRequestContextWithID(e.logger, req.RequestID, req.Organizer),
	}

	defer func() {
		if r := recover(); r != nil {
			st.reqCtx.Error("scheduling panicked", fmt.Errorf("%v", r))
			result = SchedulingResult{
				RequestID:   req.RequestID,
				Status:      StatusError,
				Message:     "internal error while scheduling",
				ErrorDetail: fmt.Sprintf("%v", r),
			}
		}
	}()

	state := StateParse
	table := e.transitions()
	for state != stateDone {
		handler, ok := table[state]
		if !ok {
			st.err = schederr.Internal(fmt.Sprintf("no handler for state %s", state), nil)
			handler = e.handleError
		}
		next := handler(ctx, st)
		st.reqCtx.Debug("state transition",
			slog.String(observability.LogFieldState, string(state)),
			slog.String("next", string(next)),
		)
		state = next
	}

	st.reqCtx.Info("request finished",
		slog.String("status", string(st.result.Status)),
		slog.Int64(observability.LogFieldDuration, st.reqCtx.DurationMs()),
	)
	return *st.result
}

// handleParse validates the request, derives duration and the search window.
func (e *Engine) handleParse(ctx context.Context, st *requestState) State {
	if strings.TrimSpace(st.req.Organizer) == "" {
		st.err = schederr.InvalidRequest("organizer is required")
		return StateError
	}

	st.req.Participants = dedupeParticipants(st.req.Organizer, st.req.Participants)
	if st.req.Timezone == "" {
		st.req.Timezone = "UTC"
	}

	hint := st.req.Hint
	extractedDuration := 0
	if e.completion != nil {
		extraction, err := ai.ExtractRequest(ctx, e.completion, st.req.Body)
		if err != nil {
			// Soft failure: the deterministic fallbacks below take over.
			st.reqCtx.Warn("request extraction degraded",
				slog.String(observability.LogFieldErrorCode, string(schederr.ErrCodeCompletionUnavailable)),
				slog.String("error", err.Error()),
			)
		} else {
			extractedDuration = extraction.MeetingDuration
			if hint == "" {
				hint = extraction.TimeConstraints
			}
			merged := append(st.req.Participants, extraction.Participants...)
			st.req.Participants = dedupeParticipants(st.req.Organizer, merged)
		}
	}

	st.duration = deriveDuration(st.req.DurationMinutes, extractedDuration, st.req.Body)
	if hint == "" {
		hint = st.req.Body
	}
	st.window = e.resolver.Resolve(hint, e.now())

	st.reqCtx.Info("request parsed",
		slog.Int("participants", len(st.req.Participants)),
		slog.Int("duration_minutes", int(st.duration.Minutes())),
		slog.Time("window_start", st.window.Start),
		slog.Time("window_end", st.window.End),
	)
	return StateCheckAvailability
}

// handleCheckAvailability fetches busy intervals per participant and scans
// the primary window.
func (e *Engine) handleCheckAvailability(ctx context.Context, st *requestState) State {
	st.busy = e.fetchBusy(ctx, st, st.window)
	st.candidates = e.intersector.FindSlots(st.window, st.duration, st.busy, MaxRankingCandidates)
	if len(st.candidates) > 0 {
		return StateSchedule
	}
	return StateConflict
}

// handleSchedule picks the slot and asks the calendar backend to create the
// event. Creation is best-effort: a failure is noted but the slot stands.
func (e *Engine) handleSchedule(ctx context.Context, st *requestState) State {
	chosen := st.candidates[0]
	if e.completion != nil && len(st.candidates) > 1 {
		views := make([]ai.SlotView, 0, len(st.candidates))
		for i, slot := range st.candidates {
			views = append(views, ai.NewSlotView(i, slot.Start, slot.End))
		}
		choice := ai.RankSlots(ctx, e.completion, st.req.Subject, st.req.Body, views)
		chosen = st.candidates[choice.SelectedSlot]
		st.rankingNote = choice.Reasoning
	}
	st.chosen = &chosen

	draft := calendar.EventDraft{
		Subject:      st.req.Subject,
		Description:  st.req.Body,
		Location:     st.req.Location,
		Start:        chosen.Start,
		End:          chosen.End,
		Timezone:     st.req.Timezone,
		Participants: st.req.Participants,
	}
	if err := e.createEvent(ctx, st.req.Organizer, draft); err != nil {
		st.creationNote = err.Error()
		st.reqCtx.Warn("event creation degraded",
			slog.String(observability.LogFieldErrorCode, string(schederr.ErrCodeEventCreationFailed)),
			slog.String("error", err.Error()),
		)
	}

	st.reqCtx.Info("slot chosen",
		slog.Time("slot_start", chosen.Start),
		slog.Time("slot_end", chosen.End),
	)
	return StateRespond
}

// handleConflict widens the search one day past the primary window across a
// fourteen-day horizon and collects suggestions.
func (e *Engine) handleConflict(ctx context.Context, st *requestState) State {
	widened := NewTimeWindow(
		st.window.End.AddDate(0, 0, 1),
		st.window.End.AddDate(0, 0, 1+WidenedWindowDays),
	)
	busy := e.fetchBusy(ctx, st, widened)
	st.suggestions = e.intersector.FindSlots(widened, st.duration, busy, MaxSuggestions)

	st.reqCtx.Info("conflict: collected suggestions",
		slog.Int("suggestions", len(st.suggestions)),
	)
	return StateRespond
}

func (e *Engine) handleRespond(ctx context.Context, st *requestState) State {
	st.result = e.assembler.assemble(ctx, st)
	return stateDone
}

func (e *Engine) handleError(_ context.Context, st *requestState) State {
	detail := "unknown error"
	if st.err != nil {
		detail = st.err.Error()
		st.reqCtx.Error("request failed", st.err)
	}
	st.result = &SchedulingResult{
		RequestID:       st.req.RequestID,
		Status:          StatusError,
		DurationMinutes: int(st.duration.Minutes()),
		Message:         "could not process scheduling request",
		ErrorDetail:     detail,
	}
	return stateDone
}

// fetchBusy loads busy intervals per participant. Failures are recorded and
// degrade that participant to fully free; they never abort the request.
func (e *Engine) fetchBusy(ctx context.Context, st *requestState, window TimeWindow) map[string][]BusyInterval {
	busy := make(map[string][]BusyInterval, len(st.req.Participants))
	for _, participant := range st.req.Participants {
		intervals, err := e.busyFor(ctx, participant, window)
		if err != nil {
			st.lookupFailures = append(st.lookupFailures, participant)
			st.reqCtx.Warn("availability lookup degraded, participant treated as free",
				slog.String(observability.LogFieldParticipant, participant),
				slog.String(observability.LogFieldErrorCode, string(schederr.ErrCodeAvailabilityLookupFailed)),
				slog.String("error", err.Error()),
			)
			continue
		}
		busy[participant] = intervals
	}
	return busy
}

func (e *Engine) busyFor(ctx context.Context, participant string, window TimeWindow) ([]BusyInterval, error) {
	session, err := e.sessions.SessionFor(participant)
	if err != nil {
		return nil, schederr.SessionUnavailable(participant, err)
	}
	callCtx, cancel := context.WithTimeout(ctx, CollaboratorTimeout)
	defer cancel()
	intervals, err := session.BusyIntervals(callCtx, participant, window.Start, window.End)
	if err != nil {
		return nil, schederr.AvailabilityLookupFailed(participant, err)
	}
	return fromCalendarIntervals(intervals), nil
}

func (e *Engine) createEvent(ctx context.Context, organizer string, draft calendar.EventDraft) error {
	session, err := e.sessions.SessionFor(organizer)
	if err != nil {
		return schederr.SessionUnavailable(organizer, err)
	}
	callCtx, cancel := context.WithTimeout(ctx, CollaboratorTimeout)
	defer cancel()
	if _, err := session.CreateEvent(callCtx, organizer, draft); err != nil {
		return schederr.EventCreationFailed(err)
	}
	return nil
}

// deriveDuration applies the precedence: explicit value, then extraction,
// then a coarse text scan, then the default.
func deriveDuration(explicitMinutes, extractedMinutes int, body string) time.Duration {
	switch {
	case explicitMinutes > 0:
		return time.Duration(explicitMinutes) * time.Minute
	case extractedMinutes > 0 && extractedMinutes != DefaultDurationMinutes:
		return time.Duration(extractedMinutes) * time.Minute
	}

	lowered := strings.ToLower(body)
	switch {
	case strings.Contains(lowered, "30 minutes"):
		return 30 * time.Minute
	case strings.Contains(lowered, "1 hour"), strings.Contains(lowered, "60 minutes"):
		return time.Hour
	}
	return DefaultDurationMinutes * time.Minute
}

// dedupeParticipants returns the participant set with the organizer
// included, deduplicated case-insensitively with first-seen order kept.
func dedupeParticipants(organizer string, participants []string) []string {
	seen := make(map[string]struct{}, len(participants)+1)
	result := make([]string, 0, len(participants)+1)
	for _, p := range participants {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		key := strings.ToLower(p)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, p)
	}
	if _, ok := seen[strings.ToLower(organizer)]; !ok {
		result = append(result, organizer)
	}
	return result
}

func fromCalendarIntervals(intervals []calendar.Interval) []BusyInterval {
	result := make([]BusyInterval, 0, len(intervals))
	for _, iv := range intervals {
		result = append(result, BusyInterval{
			Participant: iv.Participant,
			Start:       iv.Start,
			End:         iv.End,
			Label:       iv.Label,
		})
	}
	return result
}
