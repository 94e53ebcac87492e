package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"flowcast/internal/simulation"
	"flowcast/internal/stats"
)

var (
	backlogSize int
	samplesRaw  string
	trials      int
	deadline    int
	seed        int64
)

// simulateResult is the ad-hoc forecast shape printed to stdout.
type simulateResult struct {
	Backlog        int     `json:"backlog"`
	Trials         int     `json:"trials"`
	P50            float64 `json:"p50"`
	P85            float64 `json:"p85"`
	P95            float64 `json:"p95"`
	Average        float64 `json:"average"`
	StdDev         float64 `json:"stdDev"`
	Mode           float64 `json:"mode"`
	OddsToDeadline float64 `json:"oddsToDeadline,omitempty"`
	Unavailable    bool    `json:"forecastUnavailable,omitempty"`
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run an ad-hoc Monte Carlo forecast over a throughput sample",
	RunE: func(cmd *cobra.Command, args []string) error {
		samples, err := parseSamples(samplesRaw)
		if err != nil {
			return err
		}

		opts := []simulation.Option{}
		if seed != 0 {
			opts = append(opts, simulation.WithSeed(seed))
		}
		engine := simulation.NewEngine(opts...)

		durations := engine.Run(backlogSize, samples, trials)

		res := simulateResult{Backlog: backlogSize, Trials: trials}
		if len(durations) > 0 && durations[0] == simulation.Undeterminable {
			res.Unavailable = true
		} else {
			values := make([]float64, len(durations))
			for i, d := range durations {
				values[i] = float64(d)
			}
			res.P50 = stats.Percentile(50, values)
			res.P85 = stats.Percentile(85, values)
			res.P95 = stats.Percentile(95, values)
			res.Average = stats.Average(values, 0)
			res.StdDev = stats.PopulationStdDev(values)
			res.Mode = stats.Mode(values)
			if deadline > 0 {
				res.OddsToDeadline = simulation.OddsToDeadline(deadline, durations)
			}
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(res)
	},
}

func parseSamples(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	samples := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid throughput sample %q: %w", p, err)
		}
		samples = append(samples, v)
	}
	return samples, nil
}

func init() {
	simulateCmd.Flags().IntVar(&backlogSize, "backlog", 0, "remaining backlog size in items")
	simulateCmd.Flags().StringVar(&samplesRaw, "samples", "", "comma-separated historical throughput samples")
	simulateCmd.Flags().IntVar(&trials, "trials", 5000, "number of simulation trials")
	simulateCmd.Flags().IntVar(&deadline, "deadline", 0, "deadline in periods for odds computation")
	simulateCmd.Flags().Int64Var(&seed, "seed", 0, "RNG seed for reproducible runs (0 = time-seeded)")
	rootCmd.AddCommand(simulateCmd)
}
