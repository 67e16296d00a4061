package algo

import (
	"container/heap"
	"fmt"
	"math"
	"slices"
)

// PathResult is the outcome of one shortest-path query.
type PathResult struct {
	Path     []string `json:"path"`     // node IDs from start to end, inclusive
	Distance float64  `json:"distance"` // sum of edge weights along Path
	Visited  int      `json:"-"`        // nodes finalized before the search stopped
}

// PriorityQueueItem is a candidate node in the heap.
type PriorityQueueItem struct {
	Node  int     // index into the node order
	Cost  float64 // tentative distance when pushed
	Index int     // position in the heap
}

// PriorityQueue implements heap.Interface. Equal costs are ordered by node
// index so the heap picks the same node the linear scan would.
type PriorityQueue []*PriorityQueueItem

func (pq PriorityQueue) Len() int { return len(pq) }

func (pq PriorityQueue) Less(i, j int) bool {
	if pq[i].Cost != pq[j].Cost {
		return pq[i].Cost < pq[j].Cost
	}
	return pq[i].Node < pq[j].Node
}

func (pq PriorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *PriorityQueue) Push(x interface{}) {
	n := len(*pq)
	item := x.(*PriorityQueueItem)
	item.Index = n
	*pq = append(*pq, item)
}

func (pq *PriorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.Index = -1
	*pq = old[0 : n-1]
	return item
}

// search holds the per-query state. Nothing in it outlives the call.
type search struct {
	g       Store
	opts    Options
	ids     []string
	index   map[string]int
	dist    []float64
	prev    []int
	visited []bool
	pq      PriorityQueue
}

// FindShortestPath runs Dijkstra's algorithm from start and returns the
// cheapest path to end.
//
// Both nodes must exist (UnknownNodeError). If end is unreachable the error
// is a NoPathFoundError. Among equally distant candidates the node that
// comes first in g.AllNodes() is finalized first, for either strategy.
func FindShortestPath(g Store, start, end string, opts ...Option) (PathResult, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if gr, ok := g.(*Graph); g == nil || ok && gr == nil {
		return PathResult{}, &InvalidGraphError{Reason: "graph is nil"}
	}

	ids := g.AllNodes()
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	s, ok := index[start]
	if !ok {
		return PathResult{}, &UnknownNodeError{ID: start}
	}
	e, ok := index[end]
	if !ok {
		return PathResult{}, &UnknownNodeError{ID: end}
	}
	if s == e {
		return PathResult{Path: []string{start}, Distance: 0, Visited: 1}, nil
	}

	r := &search{
		g:       g,
		opts:    cfg,
		ids:     ids,
		index:   index,
		dist:    make([]float64, len(ids)),
		prev:    make([]int, len(ids)),
		visited: make([]bool, len(ids)),
	}
	for i := range ids {
		r.dist[i] = math.Inf(1)
		r.prev[i] = -1
	}
	r.dist[s] = 0
	if cfg.Strategy == StrategyHeap {
		r.pq = make(PriorityQueue, 0, len(ids))
		heap.Push(&r.pq, &PriorityQueueItem{Node: s, Cost: 0})
	}

	visited, err := r.run(e)
	if err != nil {
		return PathResult{}, err
	}

	if math.IsInf(r.dist[e], 1) {
		return PathResult{}, &NoPathFoundError{Start: start, End: end}
	}

	path := []string{}
	for at := e; at != -1; at = r.prev[at] {
		path = append(path, ids[at])
	}
	slices.Reverse(path)
	if path[0] != start {
		return PathResult{}, &NoPathFoundError{Start: start, End: end}
	}

	return PathResult{Path: path, Distance: r.dist[e], Visited: visited}, nil
}

// ShortestPath is FindShortestPath over g.
func (g *Graph) ShortestPath(start, end string, opts ...Option) (PathResult, error) {
	return FindShortestPath(g, start, end, opts...)
}

// run finalizes nodes until target is reached or nothing reachable is left.
func (r *search) run(target int) (int, error) {
	began := r.opts.now()
	visited := 0
	for {
		u := r.next()
		if u < 0 {
			return visited, nil
		}

		if r.opts.MaxIterations > 0 && visited >= r.opts.MaxIterations {
			return visited, &ComputationTimeoutError{Iterations: visited, Elapsed: r.opts.now().Sub(began)}
		}
		if r.opts.Timeout > 0 {
			if elapsed := r.opts.now().Sub(began); elapsed > r.opts.Timeout {
				return visited, &ComputationTimeoutError{Iterations: visited, Elapsed: elapsed}
			}
		}

		r.visited[u] = true
		visited++
		if u == target {
			return visited, nil
		}

		if err := r.relax(u); err != nil {
			return visited, err
		}
	}
}

// next returns the closest unvisited node with a finite distance, or -1.
func (r *search) next() int {
	if r.opts.Strategy == StrategyHeap {
		for r.pq.Len() > 0 {
			item := heap.Pop(&r.pq).(*PriorityQueueItem)
			if r.visited[item.Node] || item.Cost > r.dist[item.Node] {
				continue // stale entry
			}
			return item.Node
		}
		return -1
	}

	best := -1
	for i := range r.ids {
		if r.visited[i] || math.IsInf(r.dist[i], 1) {
			continue
		}
		if best < 0 || r.dist[i] < r.dist[best] {
			best = i
		}
	}
	return best
}

func (r *search) relax(u int) error {
	from := r.ids[u]
	neighbors, err := r.g.Neighbors(from)
	if err != nil {
		return fmt.Errorf("neighbors of %q: %w", from, err)
	}
	for to, w := range neighbors {
		v, ok := r.index[to]
		if !ok {
			return &InvalidGraphError{From: from, To: to, Reason: "unknown target node"}
		}
		if w < 0 || math.IsNaN(w) {
			return &InvalidGraphError{From: from, To: to, Reason: fmt.Sprintf("weight %v must be non-negative", w)}
		}
		if r.visited[v] {
			continue
		}
		alt := r.dist[u] + w
		if alt < r.dist[v] {
			r.dist[v] = alt
			r.prev[v] = u
			if r.opts.Strategy == StrategyHeap {
				heap.Push(&r.pq, &PriorityQueueItem{Node: v, Cost: alt})
			}
		}
	}
	return nil
}
