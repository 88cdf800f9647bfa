package scheduler

import (
	"strings"
	"time"
)

// WindowResolver turns a free-text time hint into a bounded search window.
// Hints are matched against a fixed, ordered rule table over a closed
// vocabulary; no rule matching falls back to the next seven days. Resolve
// never fails.
type WindowResolver struct {
	loc *time.Location
}

// NewWindowResolver creates a resolver evaluating hints in the given local
// zone. Returned windows are normalized to UTC.
func NewWindowResolver(loc *time.Location) *WindowResolver {
	if loc == nil {
		loc = time.UTC
	}
	return &WindowResolver{loc: loc}
}

// windowRule pairs a hint pattern with its window construction.
type windowRule struct {
	name    string
	matches func(hint string) bool
	build   func(local time.Time) TimeWindow
}

var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// ruleOrder fixes evaluation priority: explicit weekday names first, then
// "next week", then "this week".
var ruleOrder = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"next week", "this week",
}

// Resolve maps hint text to a search window anchored at now.
func (r *WindowResolver) Resolve(hint string, now time.Time) TimeWindow {
	lowered := strings.ToLower(hint)
	local := now.In(r.loc)

	for _, rule := range r.rules() {
		if rule.matches(lowered) {
			return rule.build(local).UTC()
		}
	}
	return NewTimeWindow(now, now.AddDate(0, 0, DefaultWindowDays)).UTC()
}

func (r *WindowResolver) rules() []windowRule {
	rules := make([]windowRule, 0, len(ruleOrder))
	for _, name := range ruleOrder {
		name := name
		var build func(time.Time) TimeWindow
		switch name {
		case "next week":
			build = r.nextWeekWindow
		case "this week":
			build = r.thisWeekWindow
		default:
			weekday := weekdayNames[name]
			build = func(local time.Time) TimeWindow {
				return r.weekdayWindow(local, weekday)
			}
		}
		rules = append(rules, windowRule{
			name:    name,
			matches: func(hint string) bool { return strings.Contains(hint, name) },
			build:   build,
		})
	}
	return rules
}

// weekdayWindow resolves to the named weekday's 10:00-17:00. A hint naming
// today rolls a full week forward once business hours have passed, so the
// window can never have already elapsed.
func (r *WindowResolver) weekdayWindow(local time.Time, target time.Weekday) TimeWindow {
	daysAhead := (int(target) - int(local.Weekday()) + 7) % 7
	if daysAhead == 0 && local.Hour() >= BusinessEndHour {
		daysAhead = 7
	}
	day := local.AddDate(0, 0, daysAhead)
	return NewTimeWindow(r.at(day, HintStartHour), r.at(day, BusinessEndHour))
}

// nextWeekWindow resolves to Monday 10:00 through Friday 17:00 of the
// following week.
func (r *WindowResolver) nextWeekWindow(local time.Time) TimeWindow {
	offset := (8 - int(local.Weekday())) % 7
	if offset == 0 {
		offset = 7
	}
	monday := local.AddDate(0, 0, offset)
	friday := monday.AddDate(0, 0, 4)
	return NewTimeWindow(r.at(monday, HintStartHour), r.at(friday, BusinessEndHour))
}

// thisWeekWindow resolves to the remainder of the current business week,
// rolling wholly into next week when it is already Friday past hours.
func (r *WindowResolver) thisWeekWindow(local time.Time) TimeWindow {
	daysToFriday := (int(time.Friday) - int(local.Weekday()) + 7) % 7
	if daysToFriday == 0 && local.Hour() >= BusinessEndHour {
		monday := local.AddDate(0, 0, 3)
		friday := local.AddDate(0, 0, 7)
		return NewTimeWindow(r.at(monday, HintStartHour), r.at(friday, BusinessEndHour))
	}

	var start time.Time
	if local.Hour() >= BusinessEndHour {
		start = r.at(local.AddDate(0, 0, 1), HintStartHour)
	} else {
		start = r.at(local, local.Hour())
	}
	friday := local.AddDate(0, 0, daysToFriday)
	return NewTimeWindow(start, r.at(friday, BusinessEndHour))
}

// at returns day at hour:00 in the resolver zone.
func (r *WindowResolver) at(day time.Time, hour int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, r.loc)
}
