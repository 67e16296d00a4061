package importer

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"city-route/model"
	"city-route/utils"

	"github.com/paulmach/osm"
)

// LoadOSM reads an OSM XML extract. See ReadOSM.
func LoadOSM(path string) (*model.MapData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open osm file: %w", err)
	}
	defer f.Close()
	return ReadOSM(f)
}

// ReadOSM builds a map from an OSM XML document.
//
// Every node carrying a name tag becomes a location. Each way links the
// named nodes it passes through, in order; the weight of a link is the way's
// "cost" tag when present, otherwise the distance travelled along the way in
// kilometers. Ways tagged oneway=yes produce a single direction.
func ReadOSM(r io.Reader) (*model.MapData, error) {
	var doc osm.OSM
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse osm xml: %w", err)
	}

	coords := make(map[osm.NodeID]model.Point, len(doc.Nodes))
	named := make(map[osm.NodeID]string)
	data := &model.MapData{Meta: map[string]interface{}{"source": "osm"}}
	taken := make(map[string]bool)

	for _, n := range doc.Nodes {
		coords[n.ID] = model.Point{Lat: n.Lat, Lng: n.Lon}
		name := n.Tags.Find("name")
		if name == "" {
			continue
		}
		id := name
		if taken[id] {
			id = fmt.Sprintf("%s (%d)", name, n.ID)
		}
		taken[id] = true
		named[n.ID] = id
		data.Nodes = append(data.Nodes, model.Node{
			ID:   id,
			Name: name,
			Lat:  n.Lat,
			Lng:  n.Lon,
			Type: nodeType(n.Tags),
		})
	}
	if len(data.Nodes) == 0 {
		return nil, fmt.Errorf("parse osm xml: no named nodes")
	}

	// Two-way links are kept once per pair at their cheapest weight and
	// mirrored afterwards. One-way links stay as given.
	roads := &model.MapData{}
	pairs := make(map[[2]string]int) // index into roads.Edges
	var oneways []model.Edge

	for _, w := range doc.Ways {
		cost, hasCost := parseCost(w.Tags.Find("cost"))
		oneway := w.Tags.Find("oneway") == "yes"
		desc := w.Tags.Find("name")

		last := ""
		var travelled float64
		var prev model.Point
		for i, ref := range w.Nodes {
			p, ok := coords[ref.ID]
			if !ok {
				return nil, fmt.Errorf("parse osm xml: way %d references missing node %d", w.ID, ref.ID)
			}
			if i > 0 {
				travelled += utils.HaversineDistance(prev, p)
			}
			prev = p

			id, ok := named[ref.ID]
			if !ok {
				continue
			}
			if last != "" && last != id {
				weight := math.Round(travelled) / 1000
				if hasCost {
					weight = cost
				}
				e := model.Edge{From: last, To: id, Weight: weight, Desc: desc}
				if oneway {
					oneways = append(oneways, e)
				} else {
					key := pairKey(last, id)
					if j, ok := pairs[key]; ok {
						if weight < roads.Edges[j].Weight {
							roads.Edges[j].Weight = weight
						}
					} else {
						pairs[key] = len(roads.Edges)
						roads.Edges = append(roads.Edges, e)
					}
				}
			}
			last = id
			travelled = 0
		}
	}
	roads.Mirror()

	best := make(map[[2]string]int) // index into data.Edges
	for _, e := range append(roads.Edges, oneways...) {
		key := [2]string{e.From, e.To}
		if i, ok := best[key]; ok {
			if e.Weight < data.Edges[i].Weight {
				data.Edges[i].Weight = e.Weight
			}
			continue
		}
		best[key] = len(data.Edges)
		data.Edges = append(data.Edges, e)
	}

	return data, nil
}

func pairKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}

func nodeType(tags osm.Tags) string {
	for _, k := range []string{"amenity", "tourism", "place", "highway"} {
		if v := tags.Find(k); v != "" {
			return v
		}
	}
	return "landmark"
}

func parseCost(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
