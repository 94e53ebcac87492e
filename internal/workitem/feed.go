package workitem

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// LoadFeed reads a collaborator-supplied JSONL work item feed into the
// repository. Invalid lines are skipped with a warning rather than
// aborting the load; data-quality enforcement belongs to the ingestion
// collaborator, not this engine.
func LoadFeed(path string, repo *MemoryRepository) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open work item feed: %w", err)
	}
	defer file.Close()

	count := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var item WorkItem
		if err := json.Unmarshal(line, &item); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Skipping invalid JSON line in work item feed")
			continue
		}
		if item.ID == "" || item.CreatedAt.IsZero() {
			log.Warn().Str("path", path).Msg("Skipping work item record without id or createdAt")
			continue
		}
		repo.Add(item)
		count++
	}

	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("error reading work item feed: %w", err)
	}

	log.Info().Str("path", path).Int("count", count).Msg("Loaded work item feed")
	return count, nil
}

// LoadProjects reads a JSON array of project descriptors.
func LoadProjects(path string) ([]Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project descriptors: %w", err)
	}
	var projects []Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("failed to parse project descriptors: %w", err)
	}
	return projects, nil
}

// LoadTeams reads a JSON array of team descriptors keyed by team id.
func LoadTeams(path string) (map[string]Team, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read team descriptors: %w", err)
	}
	var teams []Team
	if err := json.Unmarshal(data, &teams); err != nil {
		return nil, fmt.Errorf("failed to parse team descriptors: %w", err)
	}
	byID := make(map[string]Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}
	return byID, nil
}
