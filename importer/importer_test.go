package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"city-route/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSON(t *testing.T) {
	data, err := ReadJSON(strings.NewReader(`{
		"nodes": [{"id": "a", "lat": 1, "lng": 2}, {"id": "b", "lat": 3, "lng": 4}],
		"edges": [{"from": "a", "to": "b", "weight": 2.5}]
	}`))
	require.NoError(t, err)
	require.Len(t, data.Nodes, 2)
	require.Len(t, data.Edges, 1)
	assert.Equal(t, 2.5, data.Edges[0].Weight)
	assert.Equal(t, 2.0, data.Nodes[0].Lng)
}

func TestReadJSON_Errors(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`{"nodes": [{"id": "a"}], "edges": [{"from": "a", "to": "a", "wieght": 1}]}`))
	assert.Error(t, err)

	_, err = ReadJSON(strings.NewReader(`{"nodes": [], "edges": []}`))
	assert.Error(t, err)

	_, err = ReadJSON(strings.NewReader(`not json`))
	assert.Error(t, err)
}

func TestLoadJSON_SampleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.json")
	require.NoError(t, os.WriteFile(path, dataset.Raw(), 0o600))

	data, err := LoadJSON(path)
	require.NoError(t, err)
	assert.Len(t, data.Nodes, 21)

	_, err = LoadJSON(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

const sampleOSM = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
  <node id="1" lat="40.7128" lon="-74.0060"><tag k="name" v="City Hall"/><tag k="amenity" v="townhall"/></node>
  <node id="2" lat="40.7150" lon="-74.0060"/>
  <node id="3" lat="40.7180" lon="-74.0060"><tag k="name" v="Park"/></node>
  <node id="4" lat="40.7180" lon="-74.0100"><tag k="name" v="Pier"/></node>
  <node id="5" lat="40.7200" lon="-74.0100"><tag k="name" v="Park"/></node>
  <way id="10">
    <nd ref="1"/><nd ref="2"/><nd ref="3"/>
    <tag k="name" v="Broadway"/>
  </way>
  <way id="11">
    <nd ref="3"/><nd ref="4"/>
    <tag k="oneway" v="yes"/><tag k="cost" v="7"/>
  </way>
</osm>`

func TestReadOSM(t *testing.T) {
	data, err := ReadOSM(strings.NewReader(sampleOSM))
	require.NoError(t, err)

	require.Len(t, data.Nodes, 4)
	assert.Equal(t, "City Hall", data.Nodes[0].ID)
	assert.Equal(t, "townhall", data.Nodes[0].Type)
	assert.Equal(t, "Park", data.Nodes[1].ID)
	assert.Equal(t, "landmark", data.Nodes[1].Type)
	// second node named Park gets a disambiguated ID
	assert.Equal(t, "Park (5)", data.Nodes[3].ID)
	assert.Equal(t, "Park", data.Nodes[3].Name)

	require.Len(t, data.Edges, 3)
	hall := data.Edges[0]
	assert.Equal(t, "City Hall", hall.From)
	assert.Equal(t, "Park", hall.To)
	assert.Equal(t, "Broadway", hall.Desc)
	// 0.0052 degrees of latitude is about 579 m
	assert.InDelta(t, 0.579, hall.Weight, 0.005)
	assert.Equal(t, "City Hall", data.Edges[1].To)
	assert.Equal(t, hall.Weight, data.Edges[1].Weight)

	pier := data.Edges[2]
	assert.Equal(t, "Park", pier.From)
	assert.Equal(t, "Pier", pier.To)
	assert.Equal(t, 7.0, pier.Weight)
}

func TestReadOSM_TwoWayRoadsShareCheapestWeight(t *testing.T) {
	data, err := ReadOSM(strings.NewReader(`<osm>
		<node id="1" lat="0" lon="0"><tag k="name" v="a"/></node>
		<node id="2" lat="0" lon="0.01"><tag k="name" v="b"/></node>
		<way id="10"><nd ref="1"/><nd ref="2"/><tag k="cost" v="5"/></way>
		<way id="11"><nd ref="2"/><nd ref="1"/><tag k="cost" v="3"/></way>
		<way id="12"><nd ref="2"/><nd ref="1"/><tag k="cost" v="1"/><tag k="oneway" v="yes"/></way>
	</osm>`))
	require.NoError(t, err)

	weights := map[string]float64{}
	for _, e := range data.Edges {
		weights[e.From+">"+e.To] = e.Weight
	}
	assert.Equal(t, map[string]float64{"a>b": 3, "b>a": 1}, weights)
}

func TestReadOSM_Errors(t *testing.T) {
	_, err := ReadOSM(strings.NewReader(`<osm><node id="1" lat="0" lon="0"/></osm>`))
	assert.Error(t, err, "no named nodes")

	_, err = ReadOSM(strings.NewReader(`<osm>
		<node id="1" lat="0" lon="0"><tag k="name" v="a"/></node>
		<way id="2"><nd ref="1"/><nd ref="99"/></way>
	</osm>`))
	assert.Error(t, err, "missing node")

	_, err = ReadOSM(strings.NewReader(`<osm`))
	assert.Error(t, err)
}
