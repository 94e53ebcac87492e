package workitem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFeed(t *testing.T) {
	feed := `{"id":"a","createdAt":"2024-03-01T00:00:00Z","kind":"feature","projectId":"p1","teamId":"t1"}
{"id":"b","createdAt":"2024-03-02T00:00:00Z","kind":"bug","streamMembership":"downstream","projectId":"p1","teamId":"t1"}
not json at all
{"createdAt":"2024-03-03T00:00:00Z"}

{"id":"c","createdAt":"2024-03-04T00:00:00Z","discardedAt":"2024-03-05T00:00:00Z","projectId":"p1"}
`
	repo := NewMemoryRepository()
	count, err := LoadFeed(writeFile(t, "items.jsonl", feed), repo)
	if err != nil {
		t.Fatalf("LoadFeed() error = %v", err)
	}
	if count != 3 {
		t.Errorf("LoadFeed() count = %d, want 3 (invalid lines skipped)", count)
	}

	items, _ := repo.KeptByProject(context.Background(), "p1")
	if len(items) != 2 {
		t.Fatalf("kept items = %d, want 2 (discarded item filtered at read)", len(items))
	}
	if items[1].Kind != KindBug || items[1].Stream != StreamDownstream {
		t.Errorf("item b = %+v, want bug/downstream", items[1])
	}
}

func TestLoadFeed_MissingFile(t *testing.T) {
	repo := NewMemoryRepository()
	if _, err := LoadFeed(filepath.Join(t.TempDir(), "absent.jsonl"), repo); err == nil {
		t.Error("LoadFeed() error = nil, want error for missing file")
	}
}

func TestLoadProjects(t *testing.T) {
	path := writeFile(t, "projects.json", `[
		{"id":"p1","name":"Checkout","teamId":"t1","startDate":"2024-03-11T00:00:00Z","endDate":"2024-06-02T00:00:00Z","wipLimit":2,"initialScope":40}
	]`)

	projects, err := LoadProjects(path)
	if err != nil {
		t.Fatalf("LoadProjects() error = %v", err)
	}
	if len(projects) != 1 || projects[0].ID != "p1" || projects[0].InitialScope != 40 {
		t.Errorf("LoadProjects() = %+v", projects)
	}
}

func TestLoadTeams(t *testing.T) {
	path := writeFile(t, "teams.json", `[
		{"id":"t1","name":"Platform","wipLimit":8},
		{"id":"t2","name":"Growth","wipLimit":4}
	]`)

	teams, err := LoadTeams(path)
	if err != nil {
		t.Fatalf("LoadTeams() error = %v", err)
	}
	if len(teams) != 2 {
		t.Fatalf("LoadTeams() returned %d teams, want 2", len(teams))
	}
	if teams["t1"].WIPLimit != 8 {
		t.Errorf("teams[t1].WIPLimit = %d, want 8", teams["t1"].WIPLimit)
	}
}
