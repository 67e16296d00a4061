package algo

import (
	"fmt"
	"math"

	"city-route/model"
	"city-route/utils"
)

// Store is the read-only view of a weighted graph that the path finder needs.
type Store interface {
	// Neighbors returns the outgoing edges of id as neighbor -> weight.
	Neighbors(id string) (map[string]float64, error)
	// AllNodes returns every node ID in a stable order.
	AllNodes() []string
}

// Graph is the static weighted graph of named locations. It is immutable
// after NewGraph returns, so concurrent readers need no locking.
type Graph struct {
	nodes    map[string]*model.Node
	adj      map[string]map[string]float64
	order    []string
	nodeList []model.Node
	edges    int
}

var _ Store = (*Graph)(nil)

// NewGraph validates nodes and edges and builds the graph. Node order is
// kept as given and becomes the tie-break order of the path finder.
func NewGraph(nodes []model.Node, edges []model.Edge) (*Graph, error) {
	g := &Graph{
		nodes:    make(map[string]*model.Node, len(nodes)),
		adj:      make(map[string]map[string]float64, len(nodes)),
		order:    make([]string, 0, len(nodes)),
		nodeList: make([]model.Node, 0, len(nodes)),
	}

	for i := range nodes {
		n := nodes[i]
		if n.ID == "" {
			return nil, &InvalidGraphError{Reason: fmt.Sprintf("node #%d has an empty id", i)}
		}
		if _, dup := g.nodes[n.ID]; dup {
			return nil, &InvalidGraphError{Reason: fmt.Sprintf("duplicate node %q", n.ID)}
		}
		n.Seq = i
		g.nodeList = append(g.nodeList, n)
		g.nodes[n.ID] = &g.nodeList[len(g.nodeList)-1]
		g.order = append(g.order, n.ID)
		g.adj[n.ID] = make(map[string]float64)
	}

	for _, e := range edges {
		if _, ok := g.nodes[e.From]; !ok {
			return nil, &InvalidGraphError{From: e.From, To: e.To, Reason: "unknown source node"}
		}
		if _, ok := g.nodes[e.To]; !ok {
			return nil, &InvalidGraphError{From: e.From, To: e.To, Reason: "unknown target node"}
		}
		if e.Weight < 0 || math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) {
			return nil, &InvalidGraphError{From: e.From, To: e.To, Reason: fmt.Sprintf("weight %v must be finite and non-negative", e.Weight)}
		}
		if _, dup := g.adj[e.From][e.To]; dup {
			return nil, &InvalidGraphError{From: e.From, To: e.To, Reason: "duplicate edge"}
		}
		g.adj[e.From][e.To] = e.Weight
		g.edges++
	}

	return g, nil
}

// FromMapData builds a graph from a decoded map file.
func FromMapData(data *model.MapData) (*Graph, error) {
	return NewGraph(data.Nodes, data.Edges)
}

// Neighbors returns a copy of the outgoing edges of id.
func (g *Graph) Neighbors(id string) (map[string]float64, error) {
	out, ok := g.adj[id]
	if !ok {
		return nil, &UnknownNodeError{ID: id}
	}
	cp := make(map[string]float64, len(out))
	for k, v := range out {
		cp[k] = v
	}
	return cp, nil
}

// AllNodes returns node IDs in definition order.
func (g *Graph) AllNodes() []string {
	return append([]string(nil), g.order...)
}

// Weight returns the weight of the edge from -> to.
func (g *Graph) Weight(from, to string) (float64, bool) {
	w, ok := g.adj[from][to]
	return w, ok
}

// Node looks up a node by ID.
func (g *Graph) Node(id string) (*model.Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// NodeList returns all nodes in definition order.
func (g *Graph) NodeList() []model.Node {
	return append([]model.Node(nil), g.nodeList...)
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.order) }

// EdgeCount returns the number of directed edges.
func (g *Graph) EdgeCount() int { return g.edges }

// FindNearestNode returns the node closest to the given coordinate, or nil
// for an empty graph. Ties go to the earlier node.
func (g *Graph) FindNearestNode(lat, lng float64) *model.Node {
	var nearest *model.Node
	minDist := -1.0

	target := model.Point{Lat: lat, Lng: lng}
	for i := range g.nodeList {
		node := &g.nodeList[i]
		dist := utils.HaversineDistance(target, node.Point())
		if minDist < 0 || dist < minDist {
			minDist = dist
			nearest = node
		}
	}

	return nearest
}

// Coordinates maps a path of node IDs to their coordinates, in order. It is
// the polyline the map page draws for a route.
func (g *Graph) Coordinates(path []string) ([]model.Point, error) {
	pts := make([]model.Point, 0, len(path))
	for _, id := range path {
		n, ok := g.nodes[id]
		if !ok {
			return nil, &UnknownNodeError{ID: id}
		}
		pts = append(pts, n.Point())
	}
	return pts, nil
}
