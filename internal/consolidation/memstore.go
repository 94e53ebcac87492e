package consolidation

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// MemoryStore is a thread-safe in-process snapshot store with optional
// JSONL persistence per project. It is the reference Store implementation;
// production deployments may swap in a database-backed one behind the same
// contract.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[string]Snapshot // keyed by projectID|periodEnd
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows: make(map[string]Snapshot),
	}
}

// Verify interface compliance
var _ Store = (*MemoryStore)(nil)

func snapshotKey(projectID string, periodEnd time.Time) string {
	return projectID + "|" + periodEnd.UTC().Format(time.RFC3339)
}

// Upsert writes the snapshot for its (projectID, periodEnd) key,
// overwriting any existing row.
func (s *MemoryStore) Upsert(_ context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[snapshotKey(snap.ProjectID, snap.PeriodEnd)] = snap
	return nil
}

// Get returns the snapshot for the key, or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, projectID string, periodEnd time.Time) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.rows[snapshotKey(projectID, periodEnd)]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return snap, nil
}

// ByProject returns the project's snapshots ordered by period end.
func (s *MemoryStore) ByProject(_ context.Context, projectID string) ([]Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Snapshot
	for _, snap := range s.rows {
		if snap.ProjectID == projectID {
			out = append(out, snap)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PeriodEnd.Before(out[j].PeriodEnd)
	})
	return out, nil
}

// Save persists a project's snapshots to a JSONL file, one row per period,
// written atomically via a temp file rename.
func (s *MemoryStore) Save(dir, projectID string) error {
	snaps, _ := s.ByProject(context.Background(), projectID)
	if len(snaps) == 0 {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s.jsonl", projectID))
	tmpPath := path + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot file: %w", err)
	}

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)
	for _, snap := range snaps {
		if err := encoder.Encode(snap); err != nil {
			file.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("failed to encode snapshot: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush snapshot writer: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close snapshot file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename snapshot file: %w", err)
	}

	log.Info().Str("project", projectID).Int("count", len(snaps)).Str("path", path).Msg("Snapshots saved")
	return nil
}

// Load reads a project's snapshots back from its JSONL file. A missing
// file is not an error; invalid lines are skipped with a warning.
func (s *MemoryStore) Load(dir, projectID string) error {
	path := filepath.Join(dir, fmt.Sprintf("%s.jsonl", projectID))
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer file.Close()

	count := 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		var snap Snapshot
		if err := json.Unmarshal(scanner.Bytes(), &snap); err != nil {
			log.Warn().Err(err).Str("project", projectID).Msg("Skipping invalid JSON line in snapshot file")
			continue
		}
		if err := s.Upsert(context.Background(), snap); err != nil {
			return err
		}
		count++
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading snapshot file: %w", err)
	}

	log.Info().Str("project", projectID).Int("count", count).Msg("Snapshots loaded from file")
	return nil
}
