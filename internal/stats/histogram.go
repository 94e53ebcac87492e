package stats

import (
	"fmt"
	"math"
)

// HistogramBin is one fixed-width bucket of a lead time distribution.
type HistogramBin struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// LeadTimeHistogram buckets a lead time sample into fixed-width bins.
// The bin count follows the square-root rule (ceil(sqrt(n))), the width is
// range/binCount, and the top edge of the last bin is inclusive so the
// maximum is never dropped. Returns an empty slice for empty input; a
// sample of identical values collapses into a single bin.
func LeadTimeHistogram(values []float64) []HistogramBin {
	if len(values) == 0 {
		return []HistogramBin{}
	}

	minV, maxV := values[0], values[0]
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	if minV == maxV {
		return []HistogramBin{{
			Label: binLabel(minV, maxV),
			Count: len(values),
		}}
	}

	binCount := int(math.Ceil(math.Sqrt(float64(len(values)))))
	width := (maxV - minV) / float64(binCount)

	counts := make([]int, binCount)
	for _, v := range values {
		idx := int((v - minV) / width)
		if idx >= binCount {
			idx = binCount - 1 // top edge inclusive
		}
		counts[idx]++
	}

	bins := make([]HistogramBin, binCount)
	for i := range bins {
		lo := minV + float64(i)*width
		hi := lo + width
		bins[i] = HistogramBin{
			Label: binLabel(lo, hi),
			Count: counts[i],
		}
	}
	return bins
}

func binLabel(lo, hi float64) string {
	return fmt.Sprintf("%.1f-%.1f", lo, hi)
}
