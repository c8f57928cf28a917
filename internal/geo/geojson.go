// Package geo holds the GeoJSON data structures and coordinate math used
// by the traffic pipeline.
package geo

import (
	"encoding/json"
	"fmt"
)

// FeatureCollection represents a top-level GeoJSON document.
type FeatureCollection struct {
	Type     string    `json:"type" yaml:"type"`
	Features []Feature `json:"features" yaml:"features"`
}

// Feature represents a single geographic feature with geometry and properties.
type Feature struct {
	Properties map[string]interface{} `json:"properties" yaml:"properties"`
	Type       string                 `json:"type" yaml:"type"`
	Geometry   Geometry               `json:"geometry" yaml:"geometry"`
}

// Geometry represents the geometry of a feature. Coordinates are kept raw
// because real-world exports contain malformed entries that must not abort
// decoding of the whole document.
type Geometry struct {
	Type        string          `json:"type" yaml:"type"`
	Coordinates json.RawMessage `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`
}

// Coordinate is a WGS84 position. GeoJSON order is [lon, lat, (elevation)];
// elevation is dropped on decode.
type Coordinate struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Path decodes the coordinate sequence of a LineString geometry.
//
// A bare number in place of a coordinate pair decodes as (value, 0). This
// mirrors the upstream dataset tooling and is intentionally preserved:
// latitude 0 is a real location, so such entries skew downstream length
// math instead of failing. Anything else malformed returns an error so the
// caller can fall back for the whole segment.
func (g Geometry) Path() ([]Coordinate, error) {
	if len(g.Coordinates) == 0 {
		return nil, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(g.Coordinates, &entries); err != nil {
		return nil, fmt.Errorf("coordinates are not a sequence: %w", err)
	}

	path := make([]Coordinate, 0, len(entries))
	for i, entry := range entries {
		var pair []float64
		if err := json.Unmarshal(entry, &pair); err == nil {
			if len(pair) < 2 {
				return nil, fmt.Errorf("coordinate %d has %d elements", i, len(pair))
			}
			path = append(path, Coordinate{Lon: pair[0], Lat: pair[1]})
			continue
		}

		var scalar float64
		if err := json.Unmarshal(entry, &scalar); err == nil {
			path = append(path, Coordinate{Lon: scalar, Lat: 0})
			continue
		}

		return nil, fmt.Errorf("coordinate %d is not a position", i)
	}

	return path, nil
}

// IsLineString reports whether the geometry is typed as a LineString.
func (g Geometry) IsLineString() bool {
	return g.Type == "LineString"
}

// LineStringGeometry builds a Geometry from a decoded path, for writing
// normalized documents back out.
func LineStringGeometry(path []Coordinate) Geometry {
	pairs := make([][2]float64, len(path))
	for i, c := range path {
		pairs[i] = [2]float64{c.Lon, c.Lat}
	}

	// Marshal of [][2]float64 cannot fail
	raw, _ := json.Marshal(pairs)

	return Geometry{Type: "LineString", Coordinates: raw}
}
