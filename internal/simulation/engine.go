// Package simulation runs Monte Carlo resampling over historical
// throughput to estimate completion duration distributions.
package simulation

import (
	"math"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Undeterminable is the documented "forecast unavailable" sentinel. When a
// simulation has no usable throughput history (empty sample set, or no
// positive sample), every trial reports this value instead of a duration.
// It is far outside any legitimate period count, so consumers can tell
// "no forecast yet" apart from "forecast is wide".
const Undeterminable = math.MaxInt32

// Engine performs Monte Carlo trials over a throughput sample population.
// One engine may serve concurrent Run calls: the seed stream is guarded by
// a mutex and every call draws from its own child RNG.
type Engine struct {
	mu      sync.Mutex
	rng     *rand.Rand
	workers int
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithSeed makes the engine's draw sequence reproducible.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

// WithWorkers sets the number of goroutines trials are partitioned across.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// NewEngine creates an engine, time-seeded by default.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run simulates trials independent futures: each trial draws uniformly,
// with replacement, from samples until the running sum reaches
// backlogSize, and records the number of draws as its duration. The
// result has exactly trials entries (empty when trials <= 0) and is owned
// by the caller.
//
// A backlog of zero or less needs no draws, so every entry is 0. With no
// positive sample to draw from the forecast is degenerate and every entry
// is Undeterminable.
func (e *Engine) Run(backlogSize int, samples []int, trials int) []int {
	if trials <= 0 {
		return []int{}
	}

	durations := make([]int, trials)
	if backlogSize <= 0 {
		return durations
	}

	if !hasPositive(samples) {
		for i := range durations {
			durations[i] = Undeterminable
		}
		return durations
	}

	// Each call owns a child RNG seeded from the shared parent stream;
	// only the seed draw needs the lock.
	e.mu.Lock()
	rng := rand.New(rand.NewSource(e.rng.Int63()))
	e.mu.Unlock()

	workers := e.workers
	if workers > trials {
		workers = trials
	}
	if workers <= 1 {
		runTrials(rng, backlogSize, samples, durations)
		return durations
	}

	// Partition trials into contiguous batches. Each batch owns a child
	// RNG seeded from the call's stream and writes to a disjoint range,
	// so no RNG or slice state is shared across goroutines.
	var g errgroup.Group
	batch := (trials + workers - 1) / workers
	for start := 0; start < trials; start += batch {
		end := start + batch
		if end > trials {
			end = trials
		}
		batchRng := rand.New(rand.NewSource(rng.Int63()))
		slot := durations[start:end]
		g.Go(func() error {
			runTrials(batchRng, backlogSize, samples, slot)
			return nil
		})
	}
	_ = g.Wait() // trial workers never fail

	return durations
}

func runTrials(rng *rand.Rand, backlog int, samples []int, out []int) {
	for i := range out {
		remaining := backlog
		draws := 0
		for remaining > 0 {
			remaining -= samples[rng.Intn(len(samples))]
			draws++
		}
		out[i] = draws
	}
}

func hasPositive(samples []int) bool {
	for _, s := range samples {
		if s > 0 {
			return true
		}
	}
	return false
}

// OddsToDeadline returns the fraction of simulated durations that finish
// on or before deadlinePeriods, in [0,1]. Empty input yields 0; sentinel
// entries naturally count as misses.
func OddsToDeadline(deadlinePeriods int, durations []int) float64 {
	if len(durations) == 0 {
		return 0
	}

	hits := 0
	for _, d := range durations {
		if d <= deadlinePeriods {
			hits++
		}
	}
	return float64(hits) / float64(len(durations))
}

// TrailingWindow returns the last n samples of a throughput series, or the
// whole series when n <= 0 or the series is shorter than n.
func TrailingWindow(samples []int, n int) []int {
	if n <= 0 || n >= len(samples) {
		return samples
	}
	return samples[len(samples)-n:]
}
