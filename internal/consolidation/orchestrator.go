package consolidation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"flowcast/internal/flow"
	"flowcast/internal/metrics"
	"flowcast/internal/notify"
	"flowcast/internal/simulation"
	"flowcast/internal/stats"
	"flowcast/internal/workitem"
)

// Default forecasting policy constants.
const (
	defaultNumTrials      = 5000
	defaultProjectWindow  = 10 // trailing throughput samples for project forecasts
	defaultTeamWindow     = 20 // trailing throughput samples for team forecasts
	defaultTeamLookback   = 20 // periods of team history considered
	defaultMaxConcurrency = 4
	subjectKindLabel      = "project"
)

// Orchestrator runs the per-period consolidation walk for projects.
// A single project never consolidates concurrently with itself; distinct
// projects may run in parallel and share no mutable state.
type Orchestrator struct {
	repo     workitem.Repository
	store    Store
	engine   *simulation.Engine
	notifier notify.Notifier
	now      func() time.Time

	cadence        flow.Cadence
	numTrials      int
	projectWindow  int
	teamWindow     int
	teamLookback   int
	maxConcurrency int

	recipientAddress string
	recipientName    string
	deepLinkBase     string

	locks sync.Map // projectID -> *sync.Mutex
}

// Option applies a configuration option to the Orchestrator.
type Option func(*Orchestrator)

// WithCadence sets the period cadence (default week).
func WithCadence(c flow.Cadence) Option {
	return func(o *Orchestrator) {
		if c != "" {
			o.cadence = c
		}
	}
}

// WithNumTrials sets the number of Monte Carlo trials per forecast.
func WithNumTrials(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.numTrials = n
		}
	}
}

// WithTrailingWindows sets the trailing sample counts for project and team
// forecasts.
func WithTrailingWindows(project, team int) Option {
	return func(o *Orchestrator) {
		if project > 0 {
			o.projectWindow = project
		}
		if team > 0 {
			o.teamWindow = team
		}
	}
}

// WithTeamLookback bounds the team date axis to the last n periods.
func WithTeamLookback(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.teamLookback = n
		}
	}
}

// WithMaxConcurrency bounds how many projects consolidate in parallel.
func WithMaxConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxConcurrency = n
		}
	}
}

// WithClock injects the wall clock. Every "now" read inside a run goes
// through it, which keeps the do-not-project-beyond-now rule testable.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithRecipient sets the completion notification recipient.
func WithRecipient(address, name string) Option {
	return func(o *Orchestrator) {
		o.recipientAddress = address
		o.recipientName = name
	}
}

// WithDeepLinkBase sets the base URL used to build notification deep links.
func WithDeepLinkBase(base string) Option {
	return func(o *Orchestrator) {
		o.deepLinkBase = base
	}
}

// NewOrchestrator wires a consolidation orchestrator.
func NewOrchestrator(repo workitem.Repository, store Store, engine *simulation.Engine, notifier notify.Notifier, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		repo:           repo,
		store:          store,
		engine:         engine,
		notifier:       notifier,
		now:            time.Now,
		cadence:        flow.CadenceWeek,
		numTrials:      defaultNumTrials,
		projectWindow:  defaultProjectWindow,
		teamWindow:     defaultTeamWindow,
		teamLookback:   defaultTeamLookback,
		maxConcurrency: defaultMaxConcurrency,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RunSummary reports what a single project consolidation did.
type RunSummary struct {
	RunID            string    `json:"runId"`
	ProjectID        string    `json:"projectId"`
	PeriodsProcessed int       `json:"periodsProcessed"`
	Warnings         []string  `json:"warnings,omitempty"`
	StartedAt        time.Time `json:"startedAt"`
	FinishedAt       time.Time `json:"finishedAt"`
}

// ConsolidateProject walks the project's active range one period at a
// time, computing flow metrics and forecasts and upserting one snapshot
// per period. An invalid date range aborts before any write. Cancellation
// is honored between periods; already-persisted periods stay intact and a
// resumed run overwrites them with identical results. The completion
// notification fires whether the run succeeds or aborts.
func (o *Orchestrator) ConsolidateProject(ctx context.Context, project workitem.Project, team workitem.Team) (RunSummary, error) {
	summary := RunSummary{
		RunID:     uuid.NewString(),
		ProjectID: project.ID,
		StartedAt: o.now(),
	}

	if project.StartDate.After(project.EndDate) {
		metrics.RecordRunFailed()
		o.finish(ctx, project, &summary)
		return summary, fmt.Errorf("project %s: start %s after end %s: %w",
			project.ID, project.StartDate.Format("2006-01-02"), project.EndDate.Format("2006-01-02"), ErrInvalidRange)
	}

	// One writer per project at a time; the snapshot upsert key assumes it.
	lock := o.projectLock(project.ID)
	lock.Lock()
	defer lock.Unlock()

	metrics.RecordRunStarted()
	runStart := o.now()

	projectItems, err := o.repo.KeptByProject(ctx, project.ID)
	if err != nil {
		metrics.RecordRunFailed()
		o.finish(ctx, project, &summary)
		return summary, fmt.Errorf("loading project work items: %w", err)
	}
	teamItems, err := o.repo.KeptByTeam(ctx, team.ID)
	if err != nil {
		metrics.RecordRunFailed()
		o.finish(ctx, project, &summary)
		return summary, fmt.Errorf("loading team work items: %w", err)
	}

	now := o.now()
	rangeEnd := project.EndDate
	if currentPeriodEnd := flow.PeriodContaining(now, o.cadence).End; currentPeriodEnd.Before(rangeEnd) {
		rangeEnd = currentPeriodEnd
	}
	axis := flow.NewDateAxis(project.StartDate, rangeEnd.Add(-time.Nanosecond), o.cadence)

	log.Info().
		Str("runId", summary.RunID).
		Str("project", project.ID).
		Int("periods", axis.Len()).
		Int("projectItems", len(projectItems)).
		Int("teamItems", len(teamItems)).
		Msg("Consolidation run starting")

	for i := range axis.Periods {
		// Cancellation is only honored between periods, never mid-period,
		// so a persisted snapshot is always complete.
		if err := ctx.Err(); err != nil {
			o.finish(ctx, project, &summary)
			return summary, fmt.Errorf("consolidation canceled after %d periods: %w", summary.PeriodsProcessed, err)
		}

		snap := o.consolidatePeriod(project, team, projectItems, teamItems, axis.Periods[i], now)
		o.upsertWithRetry(ctx, snap, &summary)
		summary.PeriodsProcessed++
	}

	metrics.ObserveRunDuration(o.now().Sub(runStart).Seconds())
	o.finish(ctx, project, &summary)
	return summary, nil
}

// consolidatePeriod computes the snapshot for a single period.
func (o *Orchestrator) consolidatePeriod(project workitem.Project, team workitem.Team, projectItems, teamItems []workitem.WorkItem, period flow.Period, now time.Time) Snapshot {
	// a. Population splits at the period boundary
	var knownIDs, finishedIDs []string
	var finishedLeadTimes, periodLeadTimes []float64
	finishedCount := 0

	for _, item := range projectItems {
		if !item.CreatedAt.Before(period.End) {
			continue
		}
		knownIDs = append(knownIDs, item.ID)

		if item.FinishedAt != nil && item.FinishedAt.Before(period.End) {
			finishedIDs = append(finishedIDs, item.ID)
			finishedLeadTimes = append(finishedLeadTimes, item.LeadTimeHours())
			finishedCount++
			if period.Contains(*item.FinishedAt) {
				periodLeadTimes = append(periodLeadTimes, item.LeadTimeHours())
			}
		}
	}

	// b. Daily-sampled WIP
	currentWIP := flow.AverageWIP(projectItems, period)

	// c. Project-scoped throughput history
	projectAxis := flow.NewDateAxis(project.StartDate, period.End.Add(-time.Nanosecond), o.cadence)
	projectSeries := flow.Aggregate(projectAxis, project.InitialScope, projectItems, now)

	// d. Team-scoped throughput history over a bounded trailing window
	teamAxis := o.teamAxis(teamItems, period)
	teamSeries := flow.Aggregate(teamAxis, 0, teamItems, now)

	// e. Project-capacity forecast
	scope := project.InitialScope
	if len(projectSeries.Scope) > 0 {
		scope = projectSeries.Scope[len(projectSeries.Scope)-1]
	}
	backlog := scope - finishedCount
	if backlog < 0 {
		backlog = 0
	}

	projectDurations := o.simulate(backlog, simulation.TrailingWindow(projectSeries.Throughput, o.projectWindow), project.ID, period)

	// f. Team-shared-capacity forecast, scaled by the project's share
	share := CapacityShare(project.WIPLimit, team.WIPLimit)
	scaled := ScaleThroughput(simulation.TrailingWindow(teamSeries.Throughput, o.teamWindow), share)
	teamDurations := o.simulate(backlog, scaled, project.ID, period)

	return Snapshot{
		ProjectID:                  project.ID,
		PeriodEnd:                  period.End,
		WIPLimit:                   project.WIPLimit,
		CurrentWIP:                 currentWIP,
		KnownWorkItemIDs:           knownIDs,
		FinishedWorkItemIDs:        finishedIDs,
		FinishedLeadTimes:          finishedLeadTimes,
		PeriodFinishedLeadTimes:    periodLeadTimes,
		LeadTimeHistogram:          stats.LeadTimeHistogram(finishedLeadTimes),
		ProjectThroughputSeries:    projectSeries.Throughput,
		TeamThroughputSeries:       teamSeries.Throughput,
		ProjectMonteCarloDurations: projectDurations,
		TeamMonteCarloDurations:    teamDurations,
		PopulationStart:            project.StartDate,
		PopulationEnd:              period.End,
	}
}

// teamAxis bounds the team history window: it starts at the later of the
// team's earliest finish and the lookback floor, and ends at the period end.
func (o *Orchestrator) teamAxis(teamItems []workitem.WorkItem, period flow.Period) flow.DateAxis {
	floor := period.Start
	for i := 0; i < o.teamLookback-1; i++ {
		floor = flow.SnapToStart(floor.Add(-time.Nanosecond), o.cadence)
	}

	start := floor
	var earliestFinish time.Time
	for _, item := range teamItems {
		if item.FinishedAt != nil && (earliestFinish.IsZero() || item.FinishedAt.Before(earliestFinish)) {
			earliestFinish = *item.FinishedAt
		}
	}
	if !earliestFinish.IsZero() && earliestFinish.After(start) {
		start = earliestFinish
	}

	return flow.NewDateAxis(start, period.End.Add(-time.Nanosecond), o.cadence)
}

// simulate runs one Monte Carlo call, tracking degenerate forecasts.
func (o *Orchestrator) simulate(backlog int, samples []int, projectID string, period flow.Period) []int {
	simStart := o.now()
	durations := o.engine.Run(backlog, samples, o.numTrials)
	metrics.ObserveSimulationDuration(o.now().Sub(simStart).Seconds())

	if len(durations) > 0 && durations[0] == simulation.Undeterminable {
		metrics.RecordDegenerateForecast()
		log.Debug().
			Str("project", projectID).
			Time("periodEnd", period.End).
			Msg("No usable throughput history, forecast recorded as unavailable")
	}
	return durations
}

// upsertWithRetry persists the snapshot, retrying a conflicted upsert once
// with fresh reads. A second conflict becomes a run warning, not an abort.
func (o *Orchestrator) upsertWithRetry(ctx context.Context, snap Snapshot, summary *RunSummary) {
	err := o.store.Upsert(ctx, snap)
	if errors.Is(err, ErrConflict) {
		metrics.RecordPersistenceConflict()
		if _, getErr := o.store.Get(ctx, snap.ProjectID, snap.PeriodEnd); getErr != nil && !errors.Is(getErr, ErrNotFound) {
			err = getErr
		} else {
			err = o.store.Upsert(ctx, snap)
		}
	}

	if err != nil {
		warning := fmt.Sprintf("period %s: snapshot upsert failed: %v", snap.PeriodEnd.Format("2006-01-02"), err)
		summary.Warnings = append(summary.Warnings, warning)
		log.Warn().Str("project", snap.ProjectID).Time("periodEnd", snap.PeriodEnd).Err(err).Msg("Snapshot upsert failed")
		return
	}
	metrics.RecordSnapshotUpserted()
}

// finish stamps the summary and fires the completion notification.
// Notification failures are logged and counted, never propagated.
func (o *Orchestrator) finish(ctx context.Context, project workitem.Project, summary *RunSummary) {
	summary.FinishedAt = o.now()

	if o.notifier == nil || o.recipientAddress == "" {
		return
	}

	deepLink := ""
	if o.deepLinkBase != "" {
		deepLink = fmt.Sprintf("%s/projects/%s", o.deepLinkBase, project.ID)
	}

	err := o.notifier.Notify(ctx, notify.Notification{
		RecipientAddress: o.recipientAddress,
		RecipientName:    o.recipientName,
		SubjectKindLabel: subjectKindLabel,
		SubjectName:      project.Name,
		StartedAt:        summary.StartedAt,
		FinishedAt:       summary.FinishedAt,
		DeepLink:         deepLink,
	})
	if err != nil {
		metrics.RecordNotificationFailure()
		log.Warn().Err(err).Str("project", project.ID).Msg("Completion notification failed")
	}
}

// projectLock returns the mutex guarding a project's consolidation runs.
func (o *Orchestrator) projectLock(projectID string) *sync.Mutex {
	lock, _ := o.locks.LoadOrStore(projectID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// Job pairs a project with its team for a batch run.
type Job struct {
	Project workitem.Project
	Team    workitem.Team
}

// ConsolidateAll fans the jobs out across a bounded errgroup, one job per
// project. A fatal error in one project does not cancel the others; every
// summary that completed is returned alongside the joined errors.
func (o *Orchestrator) ConsolidateAll(ctx context.Context, jobs []Job) ([]RunSummary, error) {
	summaries := make([]RunSummary, len(jobs))
	errs := make([]error, len(jobs))

	var g errgroup.Group
	g.SetLimit(o.maxConcurrency)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			summaries[i], errs[i] = o.ConsolidateProject(ctx, job.Project, job.Team)
			return nil
		})
	}
	_ = g.Wait()

	return summaries, errors.Join(errs...)
}

// CapacityShare returns the project's share of team capacity:
// projectWIP/teamWIP when both are positive, else 1.
func CapacityShare(projectWIPLimit, teamWIPLimit int) float64 {
	if projectWIPLimit > 0 && teamWIPLimit > 0 {
		return float64(projectWIPLimit) / float64(teamWIPLimit)
	}
	return 1
}

// ScaleThroughput scales each sample by share, rounding to the nearest
// whole item. The input is never mutated.
func ScaleThroughput(samples []int, share float64) []int {
	scaled := make([]int, len(samples))
	for i, s := range samples {
		scaled[i] = int(float64(s)*share + 0.5)
	}
	return scaled
}
