// Package stats provides the pure numeric kernels used by the flow
// aggregation and forecasting layers. Nothing in here knows about work
// items or dates; empty inputs resolve to neutral values instead of errors.
package stats

import (
	"math"
	"slices"
)

// Percentile returns the p-th percentile (0..100) of values using linear
// interpolation on the sorted data: rank = (p/100)*(n-1), interpolating
// between the neighboring order statistics. Returns 0 for an empty slice.
func Percentile(p float64, values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	temp := make([]float64, len(values))
	copy(temp, values)
	slices.Sort(temp)

	rank := (p / 100.0) * float64(len(temp)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower < 0 {
		lower = 0
	}
	if upper > len(temp)-1 {
		upper = len(temp) - 1
	}
	if lower == upper {
		return temp[lower]
	}
	return temp[lower] + (rank-float64(lower))*(temp[upper]-temp[lower])
}

// Average returns the population mean of values. A trailingWindow > 0
// restricts the computation to the last N elements.
func Average(values []float64, trailingWindow int) float64 {
	sample := tail(values, trailingWindow)
	if len(sample) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range sample {
		sum += v
	}
	return sum / float64(len(sample))
}

// PopulationStdDev returns the population (not sample) standard deviation.
// Returns 0 for an empty slice.
func PopulationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	mean := Average(values, 0)
	sumSquares := 0.0
	for _, v := range values {
		d := v - mean
		sumSquares += d * d
	}
	return math.Sqrt(sumSquares / float64(len(values)))
}

// Mode returns the most frequent value, breaking ties toward the smallest
// value. Returns 0 for an empty slice.
func Mode(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	counts := make(map[float64]int, len(values))
	for _, v := range values {
		counts[v]++
	}

	best := values[0]
	bestCount := 0
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best = v
			bestCount = c
		}
	}
	return best
}

// ComputePercentage returns numerator/(numerator+denominator) as a
// percentage, or 0 when both parts are 0.
func ComputePercentage(numerator, denominator float64) float64 {
	total := numerator + denominator
	if total == 0 {
		return 0
	}
	return numerator / total * 100.0
}

// tail returns the last n elements, or the whole slice when n <= 0 or
// n >= len(values).
func tail(values []float64, n int) []float64 {
	if n <= 0 || n >= len(values) {
		return values
	}
	return values[len(values)-n:]
}
