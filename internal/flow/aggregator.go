package flow

import (
	"time"

	"flowcast/internal/stats"
	"flowcast/internal/workitem"
)

// Series holds the per-period flow metrics for one work item population.
// Every slice has exactly one entry per period of the source axis.
type Series struct {
	Scope                    []int     `json:"scope"`
	Ideal                    []float64 `json:"ideal"`
	Throughput               []int     `json:"throughput"`
	AccumulatedThroughput    []int     `json:"accumulatedThroughput"`
	DefectsOpened            []int     `json:"defectsOpened"`
	DefectsClosed            []int     `json:"defectsClosed"`
	AccumulatedDefectsOpened []int     `json:"accumulatedDefectsOpened"`
	DefectShare              []float64 `json:"defectShare"`
}

// Aggregate buckets the kept work items onto the axis and derives the flow
// series. currentDate is injected wall-clock "now": periods that have not
// ended yet contribute zero throughput rather than speculative data.
func Aggregate(axis DateAxis, initialScope int, items []workitem.WorkItem, currentDate time.Time) Series {
	n := axis.Len()
	s := Series{
		Scope:                    make([]int, n),
		Ideal:                    make([]float64, n),
		Throughput:               make([]int, n),
		AccumulatedThroughput:    make([]int, n),
		DefectsOpened:            make([]int, n),
		DefectsClosed:            make([]int, n),
		AccumulatedDefectsOpened: make([]int, n),
		DefectShare:              make([]float64, n),
	}
	if n == 0 {
		return s
	}

	// 1. Bucket raw counts per period
	for i, p := range axis.Periods {
		elapsed := !p.End.After(currentDate)

		for _, item := range items {
			if !item.Kept() {
				continue
			}

			if item.CreatedAt.Before(p.End) {
				s.Scope[i]++
				if item.Kind == workitem.KindBug && elapsed && p.Contains(item.CreatedAt) {
					s.DefectsOpened[i]++
				}
			}

			if elapsed && item.FinishedAt != nil && p.Contains(*item.FinishedAt) {
				s.Throughput[i]++
				if item.Kind == workitem.KindBug {
					s.DefectsClosed[i]++
				}
			}
		}
		s.Scope[i] += initialScope
	}

	// 2. Running sums and derived ratios
	finalScope := s.Scope[n-1]
	accThroughput := 0
	accDefects := 0
	for i := 0; i < n; i++ {
		accThroughput += s.Throughput[i]
		accDefects += s.DefectsOpened[i]
		s.AccumulatedThroughput[i] = accThroughput
		s.AccumulatedDefectsOpened[i] = accDefects
		s.Ideal[i] = float64(finalScope) * float64(i+1) / float64(n)
		s.DefectShare[i] = stats.ComputePercentage(float64(accDefects), float64(accThroughput))
	}

	return s
}

// AggregateByStream computes the same series separately for upstream and
// downstream membership, separating discovery work from delivery work.
func AggregateByStream(axis DateAxis, initialScope int, items []workitem.WorkItem, currentDate time.Time) map[workitem.Stream]Series {
	split := make(map[workitem.Stream][]workitem.WorkItem, 2)
	for _, item := range items {
		split[item.Stream] = append(split[item.Stream], item)
	}

	out := make(map[workitem.Stream]Series, 2)
	for _, stream := range []workitem.Stream{workitem.StreamUpstream, workitem.StreamDownstream} {
		out[stream] = Aggregate(axis, initialScope, split[stream], currentDate)
	}
	return out
}
