// Package flow derives per-period flow metrics from work item populations:
// the date axis that buckets time, the period flow aggregator, and the
// daily WIP sampler.
package flow

import (
	"fmt"
	"time"
)

// Cadence selects the period length of a date axis.
type Cadence string

const (
	CadenceDay   Cadence = "day"
	CadenceWeek  Cadence = "week"
	CadenceMonth Cadence = "month"
)

// Period is a half-open time interval [Start, End) aligned to a cadence.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Days returns the start of every calendar day inside the period.
func (p Period) Days() []time.Time {
	var days []time.Time
	for d := SnapToStart(p.Start, CadenceDay); d.Before(p.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// DateAxis is an ordered, gap-free sequence of periods covering a range.
type DateAxis struct {
	Periods []Period
	Cadence Cadence
}

// NewDateAxis builds an axis from start through end at the given cadence.
// The first period snaps down to the cadence boundary (weeks snap to
// Monday), so year-boundary weeks bucket consistently by their Monday
// regardless of calendar month or year. An inverted or zero range yields
// an empty axis, not an error.
func NewDateAxis(start, end time.Time, cadence Cadence) DateAxis {
	if cadence == "" {
		cadence = CadenceDay
	}

	axis := DateAxis{Cadence: cadence}
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return axis
	}

	current := SnapToStart(start, cadence)
	for !current.After(end) {
		next := advance(current, cadence)
		axis.Periods = append(axis.Periods, Period{Start: current, End: next})
		current = next
	}
	return axis
}

// Len returns the number of periods on the axis.
func (a DateAxis) Len() int {
	return len(a.Periods)
}

// Last returns the final period. Only valid for a non-empty axis.
func (a DateAxis) Last() Period {
	return a.Periods[len(a.Periods)-1]
}

// IndexOf returns the index of the period containing t, or -1.
func (a DateAxis) IndexOf(t time.Time) int {
	for i, p := range a.Periods {
		if p.Contains(t) {
			return i
		}
	}
	return -1
}

// Label renders a human-readable label for the i-th period, e.g.
// "2024-01-02", "2024-W01" or "Jan 2024".
func (a DateAxis) Label(i int) string {
	start := a.Periods[i].Start
	switch a.Cadence {
	case CadenceMonth:
		return start.Format("Jan 2006")
	case CadenceWeek:
		year, week := start.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	default:
		return start.Format("2006-01-02")
	}
}

// SnapToStart normalizes a timestamp to the beginning of its period.
func SnapToStart(t time.Time, cadence Cadence) time.Time {
	if t.IsZero() {
		return t
	}
	switch cadence {
	case CadenceMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	case CadenceWeek:
		// Snap to Monday
		weekday := int(t.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday -> 7
		}
		return time.Date(t.Year(), t.Month(), t.Day()-(weekday-1), 0, 0, 0, 0, t.Location())
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
}

// PeriodContaining returns the full period that t falls into.
func PeriodContaining(t time.Time, cadence Cadence) Period {
	start := SnapToStart(t, cadence)
	return Period{Start: start, End: advance(start, cadence)}
}

func advance(t time.Time, cadence Cadence) time.Time {
	switch cadence {
	case CadenceMonth:
		return t.AddDate(0, 1, 0)
	case CadenceWeek:
		return t.AddDate(0, 0, 7)
	default:
		return t.AddDate(0, 0, 1)
	}
}
