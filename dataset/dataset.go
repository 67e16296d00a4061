// Package dataset ships the built-in downtown sample map: 21 named
// locations and the weighted roads between them.
package dataset

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"city-route/model"
)

//go:embed map_data.json
var raw []byte

// Raw returns the embedded map file.
func Raw() []byte {
	return append([]byte(nil), raw...)
}

// Sample decodes the embedded map. Each call returns a fresh copy.
func Sample() (*model.MapData, error) {
	var data model.MapData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode sample map: %w", err)
	}
	return &data, nil
}
