package workitem

import (
	"context"
	"sort"
	"sync"
)

// Repository hands materialized, already-filtered work item sets to the
// analytical layers. Implementations must return only kept items, sorted
// by creation date, so that callers never depend on query laziness or
// implicit filtering.
type Repository interface {
	// KeptByProject returns the kept items owned by a project.
	KeptByProject(ctx context.Context, projectID string) ([]WorkItem, error)
	// KeptByTeam returns the kept items owned by any project of a team.
	KeptByTeam(ctx context.Context, teamID string) ([]WorkItem, error)
}

// MemoryRepository is a thread-safe in-memory Repository fed by the
// collaborator-supplied work item feed.
type MemoryRepository struct {
	mu    sync.RWMutex
	items []WorkItem
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Verify interface compliance
var _ Repository = (*MemoryRepository)(nil)

// Add appends items to the repository. Discarded items are stored too;
// they are filtered out at read time.
func (r *MemoryRepository) Add(items ...WorkItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, items...)
}

// KeptByProject returns the kept items owned by projectID, sorted by
// creation date.
func (r *MemoryRepository) KeptByProject(_ context.Context, projectID string) ([]WorkItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(func(w WorkItem) bool {
		return w.ProjectID == projectID
	}), nil
}

// KeptByTeam returns the kept items owned by teamID, sorted by creation date.
func (r *MemoryRepository) KeptByTeam(_ context.Context, teamID string) ([]WorkItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(func(w WorkItem) bool {
		return w.TeamID == teamID
	}), nil
}

// filter must be called with the read lock held.
func (r *MemoryRepository) filter(match func(WorkItem) bool) []WorkItem {
	out := make([]WorkItem, 0, len(r.items))
	for _, item := range r.items {
		if item.Kept() && match(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
