package consolidation

import (
	"context"
	"errors"
	"time"
)

// Sentinel kinds for snapshot store errors.
var (
	// ErrNotFound signals that no snapshot exists for the requested key.
	ErrNotFound = errors.New("snapshot not found")
	// ErrConflict signals a concurrent upsert collision on the same
	// (projectID, periodEnd) key. Callers retry once with fresh reads.
	ErrConflict = errors.New("snapshot upsert conflict")
	// ErrInvalidRange signals an iteration range whose start lies after
	// its end. It aborts a consolidation run before any write.
	ErrInvalidRange = errors.New("invalid consolidation date range")
)

// Store provides keyed access to consolidation snapshots. Upsert follows
// find-or-initialize-then-overwrite semantics: at most one row per
// (projectID, periodEnd), never a duplicate.
type Store interface {
	Upsert(ctx context.Context, s Snapshot) error
	Get(ctx context.Context, projectID string, periodEnd time.Time) (Snapshot, error)
	ByProject(ctx context.Context, projectID string) ([]Snapshot, error)
}
