package scheduler

import (
	"time"
)

// Intersector enumerates candidate slots inside a window and filters them
// against every participant's busy intervals.
//
// Scanning is strictly time-ordered with no parallelism, so identical
// inputs always produce the identical slot sequence. Candidates outside
// business hours are skipped by jumping straight to the next business day's
// open rather than stepping through the night.
type Intersector struct {
	loc *time.Location
}

// NewIntersector creates an intersector with business hours evaluated in
// the given local zone.
func NewIntersector(loc *time.Location) *Intersector {
	if loc == nil {
		loc = time.UTC
	}
	return &Intersector{loc: loc}
}

// FindSlot returns the first chronologically available slot in the window.
func (x *Intersector) FindSlot(window TimeWindow, duration time.Duration, busy map[string][]BusyInterval) (CandidateSlot, bool) {
	slots := x.FindSlots(window, duration, busy, 1)
	if len(slots) == 0 {
		return CandidateSlot{}, false
	}
	return slots[0], true
}

// FindSlots returns up to maxResults available slots in chronological order.
// A participant with no entry in busy is treated as fully free.
func (x *Intersector) FindSlots(window TimeWindow, duration time.Duration, busy map[string][]BusyInterval, maxResults int) []CandidateSlot {
	if maxResults <= 0 || duration <= 0 {
		return nil
	}

	var result []CandidateSlot
	cursor := window.Start.In(x.loc).Truncate(time.Minute)
	for cursor.Before(window.End) {
		if adjusted, jumped := x.clampToBusinessHours(cursor, duration); jumped {
			cursor = adjusted
			continue
		}

		slotEnd := cursor.Add(duration)
		if slotEnd.After(window.End) {
			// slotEnd only grows as the scan advances.
			break
		}

		if isAvailable(cursor, slotEnd, busy) {
			result = append(result, CandidateSlot{Start: cursor.UTC(), End: slotEnd.UTC()})
			if len(result) >= maxResults {
				return result
			}
		}
		cursor = cursor.Add(SlotGranularity)
	}
	return result
}

// clampToBusinessHours moves a cursor that cannot start a valid slot to the
// next position that can. The second return value reports whether the
// cursor moved.
func (x *Intersector) clampToBusinessHours(cursor time.Time, duration time.Duration) (time.Time, bool) {
	if isWeekend(cursor.Weekday()) {
		return x.nextBusinessDayOpen(cursor), true
	}

	dayOpen := x.atHour(cursor, BusinessStartHour)
	if cursor.Before(dayOpen) {
		return dayOpen, true
	}

	dayClose := x.atHour(cursor, BusinessEndHour)
	if !cursor.Before(dayClose) || cursor.Add(duration).After(dayClose) {
		return x.nextBusinessDayOpen(cursor), true
	}
	return cursor, false
}

// nextBusinessDayOpen returns 09:00 on the next weekday after t's day.
func (x *Intersector) nextBusinessDayOpen(t time.Time) time.Time {
	day := t.AddDate(0, 0, 1)
	for isWeekend(day.Weekday()) {
		day = day.AddDate(0, 0, 1)
	}
	return x.atHour(day, BusinessStartHour)
}

func (x *Intersector) atHour(day time.Time, hour int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, x.loc)
}

func isWeekend(d time.Weekday) bool {
	return d == time.Saturday || d == time.Sunday
}

// isAvailable reports whether [start, end) is free for every participant.
func isAvailable(start, end time.Time, busy map[string][]BusyInterval) bool {
	for _, intervals := range busy {
		for _, interval := range intervals {
			if interval.Overlaps(start, end) {
				return false
			}
		}
	}
	return true
}
