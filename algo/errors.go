package algo

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors. The typed errors below match them with errors.Is.
var (
	ErrUnknownNode        = errors.New("algo: unknown node")
	ErrInvalidGraph       = errors.New("algo: invalid graph")
	ErrNoPathFound        = errors.New("algo: no path found")
	ErrComputationTimeout = errors.New("algo: computation bound exceeded")
)

// UnknownNodeError is returned when a node ID is not in the graph.
type UnknownNodeError struct {
	ID string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("algo: unknown node %q", e.ID)
}

func (e *UnknownNodeError) Is(target error) bool { return target == ErrUnknownNode }

// InvalidGraphError describes why graph construction was rejected.
type InvalidGraphError struct {
	From, To string // empty when the problem is a node, not an edge
	Reason   string
}

func (e *InvalidGraphError) Error() string {
	if e.From == "" && e.To == "" {
		return "algo: invalid graph: " + e.Reason
	}
	return fmt.Sprintf("algo: invalid graph: edge %q→%q: %s", e.From, e.To, e.Reason)
}

func (e *InvalidGraphError) Is(target error) bool { return target == ErrInvalidGraph }

// NoPathFoundError is returned when end cannot be reached from start.
type NoPathFoundError struct {
	Start, End string
}

func (e *NoPathFoundError) Error() string {
	return fmt.Sprintf("algo: no path from %q to %q", e.Start, e.End)
}

func (e *NoPathFoundError) Is(target error) bool { return target == ErrNoPathFound }

// ComputationTimeoutError is returned when a search exceeds its iteration
// or wall-clock bound.
type ComputationTimeoutError struct {
	Iterations int
	Elapsed    time.Duration
}

func (e *ComputationTimeoutError) Error() string {
	return fmt.Sprintf("algo: search stopped after %d iterations (%s)", e.Iterations, e.Elapsed)
}

func (e *ComputationTimeoutError) Is(target error) bool { return target == ErrComputationTimeout }
