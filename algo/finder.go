package algo

import (
	"fmt"
	"strings"
)

// Finder binds a graph to a fixed set of search options. It keeps no state
// between queries and is safe for concurrent use.
type Finder struct {
	graph *Graph
	opts  []Option
}

// NewFinder returns a Finder over g.
func NewFinder(g *Graph, opts ...Option) *Finder {
	return &Finder{graph: g, opts: opts}
}

// Graph returns the underlying graph, or nil for a nil Finder.
func (f *Finder) Graph() *Graph {
	if f == nil {
		return nil
	}
	return f.graph
}

// Find computes the shortest path between two node IDs.
func (f *Finder) Find(start, end string) (PathResult, error) {
	if f == nil || f.graph == nil {
		return PathResult{}, &InvalidGraphError{Reason: "graph is nil"}
	}
	return FindShortestPath(f.graph, start, end, f.opts...)
}

// FormatRoute renders a result the way the map page prints it, e.g.
// "Shortest route from A to C is 3 units long: A -> B -> C".
func FormatRoute(start, end string, result PathResult) string {
	return fmt.Sprintf("Shortest route from %s to %s is %s units long: %s",
		start, end, formatDistance(result.Distance), strings.Join(result.Path, " -> "))
}

func formatDistance(d float64) string {
	if d == float64(int64(d)) {
		return fmt.Sprintf("%d", int64(d))
	}
	return fmt.Sprintf("%.2f", d)
}
