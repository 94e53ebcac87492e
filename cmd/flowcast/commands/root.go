package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"flowcast/internal/config"
	"flowcast/internal/logging"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "flowcast",
	Short: "flowcast consolidates work item flow metrics and Monte Carlo forecasts",
	Long: `flowcast walks a project's delivery history one period at a time, derives
flow metrics (scope, throughput, WIP, defect load) and probabilistic
completion forecasts via Monte Carlo simulation, and persists one
idempotent snapshot per period for dashboards.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("flowcast starting")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
