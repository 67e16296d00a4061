// Package importer turns map files into model.MapData.
package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"city-route/model"
)

// LoadJSON reads a map file in the MapData layout.
func LoadJSON(path string) (*model.MapData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open map file: %w", err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// ReadJSON decodes a MapData document. Unknown fields are rejected so that
// typos like "wieght" do not silently become zero-cost roads.
func ReadJSON(r io.Reader) (*model.MapData, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var data model.MapData
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("parse map JSON: %w", err)
	}
	if len(data.Nodes) == 0 {
		return nil, fmt.Errorf("parse map JSON: no nodes")
	}
	return &data, nil
}
