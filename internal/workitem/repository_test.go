package workitem

import (
	"context"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMemoryRepository_KeptByProject(t *testing.T) {
	discarded := date(2024, time.March, 5)
	repo := NewMemoryRepository()
	repo.Add(
		WorkItem{ID: "b", CreatedAt: date(2024, time.March, 2), ProjectID: "p1"},
		WorkItem{ID: "a", CreatedAt: date(2024, time.March, 1), ProjectID: "p1"},
		WorkItem{ID: "c", CreatedAt: date(2024, time.March, 3), ProjectID: "p2"},
		WorkItem{ID: "d", CreatedAt: date(2024, time.March, 4), ProjectID: "p1", DiscardedAt: &discarded},
	)

	items, err := repo.KeptByProject(context.Background(), "p1")
	if err != nil {
		t.Fatalf("KeptByProject() error = %v", err)
	}

	wantIDs := []string{"a", "b"}
	if len(items) != len(wantIDs) {
		t.Fatalf("KeptByProject() returned %d items, want %d", len(items), len(wantIDs))
	}
	for i, want := range wantIDs {
		if items[i].ID != want {
			t.Errorf("items[%d].ID = %s, want %s (sorted by creation date)", i, items[i].ID, want)
		}
	}
}

func TestMemoryRepository_KeptByTeam(t *testing.T) {
	repo := NewMemoryRepository()
	repo.Add(
		WorkItem{ID: "a", CreatedAt: date(2024, time.March, 1), ProjectID: "p1", TeamID: "t1"},
		WorkItem{ID: "b", CreatedAt: date(2024, time.March, 2), ProjectID: "p2", TeamID: "t1"},
		WorkItem{ID: "c", CreatedAt: date(2024, time.March, 3), ProjectID: "p3", TeamID: "t2"},
	)

	items, err := repo.KeptByTeam(context.Background(), "t1")
	if err != nil {
		t.Fatalf("KeptByTeam() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("KeptByTeam() returned %d items, want 2", len(items))
	}
}

func TestMemoryRepository_TieBreaksOnID(t *testing.T) {
	created := date(2024, time.March, 1)
	repo := NewMemoryRepository()
	repo.Add(
		WorkItem{ID: "z", CreatedAt: created, ProjectID: "p1"},
		WorkItem{ID: "a", CreatedAt: created, ProjectID: "p1"},
	)

	items, _ := repo.KeptByProject(context.Background(), "p1")
	if items[0].ID != "a" || items[1].ID != "z" {
		t.Errorf("tie order = [%s %s], want [a z]", items[0].ID, items[1].ID)
	}
}

func TestWorkItem_LeadTimeHours(t *testing.T) {
	committed := date(2024, time.March, 1)
	finished := committed.Add(36 * time.Hour)

	tests := []struct {
		name string
		item WorkItem
		want float64
	}{
		{"BothTimestamps", WorkItem{CommittedAt: &committed, FinishedAt: &finished}, 36},
		{"NeverCommitted", WorkItem{FinishedAt: &finished}, 0},
		{"NeverFinished", WorkItem{CommittedAt: &committed}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.LeadTimeHours(); got != tt.want {
				t.Errorf("LeadTimeHours() = %v, want %v", got, tt.want)
			}
		})
	}
}
