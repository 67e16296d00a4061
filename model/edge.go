package model

// Edge is a directed connection between two nodes. Weight is the traversal
// cost and must be non-negative.
type Edge struct {
	ID     uint    `json:"-" gorm:"primaryKey"`
	From   string  `json:"from" gorm:"index"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
	Desc   string  `json:"desc,omitempty"`
}

// MapData is the on-disk layout of a map file.
type MapData struct {
	Meta  map[string]interface{} `json:"meta,omitempty"`
	Nodes []Node                 `json:"nodes"`
	Edges []Edge                 `json:"edges"`
}

// Mirror appends the reverse of every edge that has no explicit reverse.
// Sources that describe each road once are mirrored before the graph is
// built (graph.bidirectional, two-way OSM ways).
func (d *MapData) Mirror() {
	seen := make(map[[2]string]bool, len(d.Edges))
	for _, e := range d.Edges {
		seen[[2]string{e.From, e.To}] = true
	}
	n := len(d.Edges)
	for i := 0; i < n; i++ {
		e := d.Edges[i]
		key := [2]string{e.To, e.From}
		if seen[key] {
			continue
		}
		seen[key] = true
		d.Edges = append(d.Edges, Edge{From: e.To, To: e.From, Weight: e.Weight, Desc: e.Desc})
	}
}
