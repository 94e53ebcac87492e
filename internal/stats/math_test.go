package stats

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name     string
		p        float64
		values   []float64
		expected float64
	}{
		{"Empty", 50, []float64{}, 0},
		{"SingleItem", 50, []float64{7}, 7},
		{"Median", 50, []float64{1, 2, 3, 4, 5}, 3},
		{"Min", 0, []float64{1, 2, 3, 4, 5}, 1},
		{"Max", 100, []float64{1, 2, 3, 4, 5}, 5},
		{"Interpolated", 25, []float64{1, 2, 3, 4}, 1.75},
		{"Unsorted", 50, []float64{5, 1, 4, 2, 3}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentile(tt.p, tt.values); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Percentile(%v) = %v, want %v", tt.p, got, tt.expected)
			}
		})
	}
}

func TestPercentile_MonotonicInP(t *testing.T) {
	values := []float64{12, 3, 45, 7, 19, 2, 30, 8}

	prev := math.Inf(-1)
	for p := 0.0; p <= 100; p++ {
		got := Percentile(p, values)
		if got < prev {
			t.Fatalf("Percentile not monotonic: p=%v gave %v after %v", p, got, prev)
		}
		prev = got
	}
}

func TestPercentile_DoesNotMutateInput(t *testing.T) {
	values := []float64{5, 1, 3}
	Percentile(50, values)
	if values[0] != 5 || values[1] != 1 || values[2] != 3 {
		t.Errorf("Percentile mutated its input: %v", values)
	}
}

func TestAverage(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		window   int
		expected float64
	}{
		{"Empty", []float64{}, 0, 0},
		{"Whole", []float64{2, 4, 6}, 0, 4},
		{"TrailingWindow", []float64{10, 10, 2, 4}, 2, 3},
		{"WindowLargerThanSlice", []float64{2, 4}, 10, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Average(tt.values, tt.window); got != tt.expected {
				t.Errorf("Average() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestPopulationStdDev(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"Empty", []float64{}, 0},
		{"Uniform", []float64{3, 3, 3}, 0},
		// Population form: sqrt(((2-4)^2 + (4-4)^2 + (6-4)^2) / 3)
		{"Spread", []float64{2, 4, 6}, math.Sqrt(8.0 / 3.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PopulationStdDev(tt.values); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("PopulationStdDev() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMode(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"Empty", []float64{}, 0},
		{"SingleWinner", []float64{1, 2, 2, 3}, 2},
		{"TieBreaksToSmallest", []float64{5, 5, 1, 1, 9}, 1},
		{"AllDistinct", []float64{4, 2, 8}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Mode(tt.values); got != tt.expected {
				t.Errorf("Mode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestComputePercentage(t *testing.T) {
	tests := []struct {
		name        string
		numerator   float64
		denominator float64
		expected    float64
	}{
		{"BothZero", 0, 0, 0},
		{"Half", 5, 5, 50},
		{"AllNumerator", 3, 0, 100},
		{"Quarter", 1, 3, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputePercentage(tt.numerator, tt.denominator); got != tt.expected {
				t.Errorf("ComputePercentage() = %v, want %v", got, tt.expected)
			}
		})
	}
}
