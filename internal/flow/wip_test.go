package flow

import (
	"testing"
	"time"

	"flowcast/internal/workitem"
)

func TestAverageWIP(t *testing.T) {
	day0 := date(2024, time.April, 1)
	period := Period{Start: day0, End: day0.AddDate(0, 0, 4)}
	noon := func(d int) *time.Time {
		v := day0.AddDate(0, 0, d).Add(12 * time.Hour)
		return &v
	}

	tests := []struct {
		name  string
		items []workitem.WorkItem
		want  float64
	}{
		{
			name:  "NoItems",
			items: nil,
			want:  0,
		},
		{
			name: "OpenItemCountsEveryDay",
			items: []workitem.WorkItem{
				{ID: "a", CreatedAt: day0, CommittedAt: noon(0)},
			},
			want: 1,
		},
		{
			name: "FinishedMidPeriodCountsFractionally",
			items: []workitem.WorkItem{
				{ID: "a", CreatedAt: day0, CommittedAt: noon(0)},
				{ID: "b", CreatedAt: day0, CommittedAt: &day0, FinishedAt: noon(2)},
			},
			// a on all 4 days, b on days 0 and 1: (4+2)/4.
			want: 1.5,
		},
		{
			name: "UncommittedItemIgnored",
			items: []workitem.WorkItem{
				{ID: "a", CreatedAt: day0},
			},
			want: 0,
		},
		{
			name: "DiscardedItemIgnored",
			items: []workitem.WorkItem{
				{ID: "a", CreatedAt: day0, CommittedAt: noon(0), DiscardedAt: noon(1)},
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AverageWIP(tt.items, period); got != tt.want {
				t.Errorf("AverageWIP() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAverageWIP_EmptyPeriod(t *testing.T) {
	day0 := date(2024, time.April, 1)
	items := []workitem.WorkItem{{ID: "a", CreatedAt: day0, CommittedAt: &day0}}

	if got := AverageWIP(items, Period{Start: day0, End: day0}); got != 0 {
		t.Errorf("AverageWIP() = %v, want 0 for empty period", got)
	}
}
