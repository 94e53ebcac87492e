// Package consolidation walks a project's active date range one period at
// a time, derives flow metrics and Monte Carlo forecasts for each period,
// and persists them as idempotent per-period snapshots.
package consolidation

import (
	"time"

	"flowcast/internal/stats"
)

// Snapshot is the immutable-per-period record consumed by dashboards.
// Exactly one row exists per (ProjectID, PeriodEnd); re-running a
// consolidation overwrites the row in place, it never duplicates it.
// Units: lead times in hours, CurrentWIP in item count (fractional due to
// daily averaging), Monte Carlo durations in whole periods, throughput in
// whole items per period.
type Snapshot struct {
	ProjectID string    `json:"projectId"`
	PeriodEnd time.Time `json:"periodEnd"`

	WIPLimit   int     `json:"wipLimit"`
	CurrentWIP float64 `json:"currentWip"`

	KnownWorkItemIDs    []string `json:"knownWorkItemIds"`
	FinishedWorkItemIDs []string `json:"finishedWorkItemIds"`

	FinishedLeadTimes       []float64 `json:"finishedLeadTimes"`
	PeriodFinishedLeadTimes []float64 `json:"periodFinishedLeadTimes"`

	LeadTimeHistogram []stats.HistogramBin `json:"leadTimeHistogram"`

	ProjectThroughputSeries []int `json:"projectThroughputSeries"`
	TeamThroughputSeries    []int `json:"teamThroughputSeries"`

	ProjectMonteCarloDurations []int `json:"projectMonteCarloDurations"`
	TeamMonteCarloDurations    []int `json:"teamMonteCarloDurations"`

	PopulationStart time.Time `json:"populationStartDate"`
	PopulationEnd   time.Time `json:"populationEndDate"`
}
