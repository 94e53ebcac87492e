package flow

import (
	"flowcast/internal/workitem"
)

// AverageWIP samples work in progress at the end of every calendar day
// inside the period and returns the mean of the daily counts. An item
// counts as in progress on a day when it was committed by the end of that
// day and not yet finished, or when it entered before the day started and
// finished only after the day ended. An empty day set yields 0.
func AverageWIP(items []workitem.WorkItem, period Period) float64 {
	days := period.Days()
	if len(days) == 0 {
		return 0
	}

	total := 0
	for _, day := range days {
		dayEnd := day.AddDate(0, 0, 1)
		count := 0
		for _, item := range items {
			if !item.Kept() || item.CommittedAt == nil {
				continue
			}

			inFlight := !item.CommittedAt.After(dayEnd) && item.FinishedAt == nil
			spansDay := !item.CommittedAt.After(day) &&
				item.FinishedAt != nil && item.FinishedAt.After(dayEnd)

			if inFlight || spansDay {
				count++
			}
		}
		total += count
	}

	return float64(total) / float64(len(days))
}
