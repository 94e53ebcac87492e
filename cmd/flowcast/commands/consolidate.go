package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"flowcast/internal/consolidation"
	"flowcast/internal/metrics"
	"flowcast/internal/notify"
	"flowcast/internal/simulation"
	"flowcast/internal/workitem"
)

var (
	itemsPath    string
	projectsPath string
	teamsPath    string
	outDir       string
)

var consolidateCmd = &cobra.Command{
	Use:   "consolidate",
	Short: "Run the consolidation walk for every project in the feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo := workitem.NewMemoryRepository()
		if _, err := workitem.LoadFeed(itemsPath, repo); err != nil {
			return err
		}

		projects, err := workitem.LoadProjects(projectsPath)
		if err != nil {
			return err
		}
		teams, err := workitem.LoadTeams(teamsPath)
		if err != nil {
			return err
		}

		if cfg.MetricsAddr != "" {
			go func() {
				log.Info().Str("addr", cfg.MetricsAddr).Msg("Serving metrics")
				if err := http.ListenAndServe(cfg.MetricsAddr, metrics.Handler()); err != nil {
					log.Warn().Err(err).Msg("Metrics listener stopped")
				}
			}()
		}

		store := consolidation.NewMemoryStore()
		orchestrator := consolidation.NewOrchestrator(
			repo,
			store,
			simulation.NewEngine(),
			notify.NewLogNotifier(),
			consolidation.WithCadence(cfg.Cadence),
			consolidation.WithNumTrials(cfg.NumTrials),
			consolidation.WithTrailingWindows(cfg.ProjectTrailingWindow, cfg.TeamTrailingWindow),
			consolidation.WithTeamLookback(cfg.TeamLookbackPeriods),
			consolidation.WithMaxConcurrency(cfg.MaxConcurrentProjects),
			consolidation.WithRecipient(cfg.NotifyRecipient, cfg.NotifyRecipientName),
			consolidation.WithDeepLinkBase(cfg.DeepLinkBase),
		)

		jobs := make([]consolidation.Job, 0, len(projects))
		for _, p := range projects {
			team, ok := teams[p.TeamID]
			if !ok {
				log.Warn().Str("project", p.ID).Str("team", p.TeamID).Msg("Skipping project without team descriptor")
				continue
			}
			jobs = append(jobs, consolidation.Job{Project: p, Team: team})
		}

		summaries, runErr := orchestrator.ConsolidateAll(cmd.Context(), jobs)

		dir := outDir
		if dir == "" {
			dir = cfg.SnapshotDir
		}
		for _, job := range jobs {
			if err := store.Save(dir, job.Project.ID); err != nil {
				log.Warn().Err(err).Str("project", job.Project.ID).Msg("Failed to save snapshots")
			}
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(summaries); err != nil {
			return fmt.Errorf("failed to encode run summaries: %w", err)
		}

		return runErr
	},
}

func init() {
	consolidateCmd.Flags().StringVar(&itemsPath, "items", "items.jsonl", "work item feed (JSONL)")
	consolidateCmd.Flags().StringVar(&projectsPath, "projects", "projects.json", "project descriptors (JSON array)")
	consolidateCmd.Flags().StringVar(&teamsPath, "teams", "teams.json", "team descriptors (JSON array)")
	consolidateCmd.Flags().StringVar(&outDir, "out", "", "snapshot output directory (defaults to SNAPSHOT_DIR)")
	rootCmd.AddCommand(consolidateCmd)
}
