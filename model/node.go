package model

import (
	"database/sql/driver"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Point is a WGS84 latitude/longitude pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Node is a named location on the map. ID doubles as the display name
// unless Name is set.
type Node struct {
	ID      string  `json:"id" gorm:"primaryKey"`
	Name    string  `json:"name" gorm:"index"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Type    string  `json:"type" gorm:"index"` // "landmark", "junction", ...
	Aliases Aliases `json:"aliases,omitempty"`
	// Seq keeps the order nodes were defined in; the store relies on it for tie-breaks.
	Seq int `json:"-" gorm:"index"`
}

// Aliases are alternative names a location can be searched by. They are
// stored as a PostgreSQL text[] and as array literal text elsewhere.
type Aliases []string

func (a Aliases) Value() (driver.Value, error) {
	return pq.StringArray(a).Value()
}

func (a *Aliases) Scan(src interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	*a = Aliases(arr)
	return nil
}

func (Aliases) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

// Point returns the node's coordinate.
func (n Node) Point() Point {
	return Point{Lat: n.Lat, Lng: n.Lng}
}

// DisplayName falls back to the ID when no name was given.
func (n Node) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}
