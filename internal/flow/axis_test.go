package flow

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSnapToStart_WeekSnapsToMonday(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected time.Time
	}{
		{"Wednesday", date(2024, time.March, 13), date(2024, time.March, 11)},
		{"Monday", date(2024, time.March, 11), date(2024, time.March, 11)},
		{"Sunday", date(2024, time.March, 17), date(2024, time.March, 11)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SnapToStart(tt.input, CadenceWeek); !got.Equal(tt.expected) {
				t.Errorf("SnapToStart() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNewDateAxis_WeekIsGapFree(t *testing.T) {
	axis := NewDateAxis(date(2024, time.January, 3), date(2024, time.February, 5), CadenceWeek)

	if axis.Len() == 0 {
		t.Fatal("expected non-empty axis")
	}
	for i := 1; i < axis.Len(); i++ {
		if !axis.Periods[i].Start.Equal(axis.Periods[i-1].End) {
			t.Errorf("gap between period %d and %d: %v != %v",
				i-1, i, axis.Periods[i-1].End, axis.Periods[i].Start)
		}
	}
}

func TestNewDateAxis_YearBoundaryWeek(t *testing.T) {
	// 2020-12-30 (Wednesday) falls in ISO week 53 of 2020, which runs
	// into January 2021. The week must bucket once, by its Monday.
	axis := NewDateAxis(date(2020, time.December, 30), date(2021, time.January, 10), CadenceWeek)

	if got := axis.Periods[0].Start; !got.Equal(date(2020, time.December, 28)) {
		t.Errorf("first period start = %v, want 2020-12-28 (Monday of ISO week 53)", got)
	}
	if got := axis.Label(0); got != "2020-W53" {
		t.Errorf("Label(0) = %q, want %q", got, "2020-W53")
	}

	// Jan 1st 2021 belongs to the same week period, not a new one.
	if idx := axis.IndexOf(date(2021, time.January, 1)); idx != 0 {
		t.Errorf("IndexOf(2021-01-01) = %d, want 0", idx)
	}
}

func TestPeriod_HalfOpenContainment(t *testing.T) {
	p := Period{Start: date(2024, time.March, 11), End: date(2024, time.March, 18)}

	if !p.Contains(p.Start) {
		t.Error("period must contain its start")
	}
	if p.Contains(p.End) {
		t.Error("period must not contain its end (half-open)")
	}
	if !p.Contains(date(2024, time.March, 17)) {
		t.Error("period must contain interior days")
	}
}

func TestNewDateAxis_EmptyAndInvertedRanges(t *testing.T) {
	if got := NewDateAxis(time.Time{}, date(2024, time.March, 1), CadenceWeek).Len(); got != 0 {
		t.Errorf("zero start: Len() = %d, want 0", got)
	}
	if got := NewDateAxis(date(2024, time.March, 10), date(2024, time.March, 1), CadenceWeek).Len(); got != 0 {
		t.Errorf("inverted range: Len() = %d, want 0", got)
	}
}

func TestNewDateAxis_MonthCadence(t *testing.T) {
	axis := NewDateAxis(date(2024, time.January, 15), date(2024, time.March, 2), CadenceMonth)

	if axis.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", axis.Len())
	}
	if got := axis.Periods[0].Start; !got.Equal(date(2024, time.January, 1)) {
		t.Errorf("first period start = %v, want 2024-01-01", got)
	}
	if got := axis.Label(0); got != "Jan 2024" {
		t.Errorf("Label(0) = %q, want %q", got, "Jan 2024")
	}
}

func TestPeriodContaining(t *testing.T) {
	p := PeriodContaining(date(2024, time.March, 13), CadenceWeek)
	if !p.Start.Equal(date(2024, time.March, 11)) || !p.End.Equal(date(2024, time.March, 18)) {
		t.Errorf("PeriodContaining() = [%v, %v), want [2024-03-11, 2024-03-18)", p.Start, p.End)
	}
}

func TestPeriod_Days(t *testing.T) {
	p := Period{Start: date(2024, time.March, 11), End: date(2024, time.March, 18)}
	days := p.Days()
	if len(days) != 7 {
		t.Errorf("Days() returned %d entries, want 7", len(days))
	}
}
