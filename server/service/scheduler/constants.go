package scheduler

import "time"

// Package-level constants for the scheduling engine.

const (
	// BusinessStartHour is the first business hour of a weekday.
	BusinessStartHour = 9
	// BusinessEndHour is the exclusive end of business hours.
	BusinessEndHour = 17
	// HintStartHour is where resolved hint windows begin on their first day.
	HintStartHour = 10

	// SlotGranularity is the step between successive candidate start times.
	SlotGranularity = 30 * time.Minute

	// DefaultDurationMinutes applies when no duration can be derived.
	DefaultDurationMinutes = 30

	// DefaultWindowDays is the span of the fallback search window.
	DefaultWindowDays = 7

	// MaxSuggestions is the number of alternatives offered on conflict.
	MaxSuggestions = 3
	// WidenedWindowDays is the span of the widened conflict-path window.
	WidenedWindowDays = 14

	// MaxRankingCandidates bounds how many slots are offered for ranking.
	MaxRankingCandidates = 5

	// CollaboratorTimeout bounds each calendar or completion call.
	CollaboratorTimeout = 5 * time.Second

	// ProjectionWindowDays is the span of per-participant projections.
	ProjectionWindowDays = 7
)
