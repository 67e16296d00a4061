package algo

import (
	"fmt"
	"strings"
	"time"
)

// Strategy selects how the next closest unvisited node is picked.
type Strategy int

const (
	// StrategyLinearScan scans every unvisited node per step. Fine for small maps.
	StrategyLinearScan Strategy = iota
	// StrategyHeap keeps candidates in a binary heap.
	StrategyHeap
)

func (s Strategy) String() string {
	switch s {
	case StrategyLinearScan:
		return "linear"
	case StrategyHeap:
		return "heap"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy maps "linear" / "heap" to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "linear", "linear-scan":
		return StrategyLinearScan, nil
	case "heap", "priority-queue", "pq":
		return StrategyHeap, nil
	default:
		return 0, fmt.Errorf("unknown search strategy %q", s)
	}
}

// Options configures FindShortestPath.
//
// MaxIterations and Timeout bound a single search; zero means unbounded.
// Exceeding either yields a ComputationTimeoutError.
type Options struct {
	Strategy      Strategy
	MaxIterations int
	Timeout       time.Duration

	now func() time.Time
}

// Option is a functional option for FindShortestPath.
type Option func(*Options)

// DefaultOptions returns linear-scan selection with no bounds.
func DefaultOptions() Options {
	return Options{
		Strategy: StrategyLinearScan,
		now:      time.Now,
	}
}

// WithStrategy sets the node selection strategy.
func WithStrategy(s Strategy) Option {
	return func(o *Options) {
		o.Strategy = s
	}
}

// WithMaxIterations caps the number of nodes the search may finalize.
func WithMaxIterations(n int) Option {
	return func(o *Options) {
		o.MaxIterations = n
	}
}

// WithTimeout caps the wall-clock time of one search.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

func withClock(now func() time.Time) Option {
	return func(o *Options) {
		o.now = now
	}
}
