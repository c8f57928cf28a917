// Package segment flattens GeoJSON features into analyzable road-segment
// records with derived length and endpoint fields.
package segment

import (
	"math"

	"github.com/opendc/trafficmap/internal/geo"

	"github.com/rs/zerolog/log"
)

// Segment is the flat record derived from one input feature. Pointer fields
// are nil when the source property is absent or not a number.
type Segment struct {
	RouteID     string
	AADT        *float64
	AADTYear    *int
	FromMeasure *float64
	ToMeasure   *float64
	LengthKm    float64
	StartCoord  *geo.Coordinate
	EndCoord    *geo.Coordinate
	GISID       string
	ObjectID    *int64

	// GeometryType is the raw GeoJSON geometry type tag ("LineString"
	// for well-formed inputs). Path holds the decoded coordinates, nil
	// when the geometry could not be decoded.
	GeometryType string
	Path         []geo.Coordinate
}

// HasAADT reports whether the segment carries a traffic-volume count.
func (s *Segment) HasAADT() bool {
	return s.AADT != nil
}

// Extract maps every feature to exactly one Segment, malformed ones
// included: a feature that cannot be measured still yields a record with
// zero length and nil endpoints, so the output always has the same length
// as the input.
//
// LengthKm is always finite and non-negative. Geometry decode failures and
// non-finite sums fall back to 0 for the whole segment and are logged, not
// propagated.
func Extract(features []geo.Feature, radiusKm float64) []Segment {
	segments := make([]Segment, 0, len(features))

	for i, f := range features {
		seg := Segment{
			RouteID:      propString(f.Properties, "ROUTEID"),
			AADT:         propFloat(f.Properties, "AADT"),
			AADTYear:     propInt(f.Properties, "AADT_YEAR"),
			FromMeasure:  propFloat(f.Properties, "FROMMEASURE"),
			ToMeasure:    propFloat(f.Properties, "TOMEASURE"),
			GISID:        propString(f.Properties, "GIS_ID"),
			ObjectID:     propInt64(f.Properties, "OBJECTID"),
			GeometryType: f.Geometry.Type,
		}

		path, err := f.Geometry.Path()
		if err != nil {
			log.Warn().
				Err(err).
				Int("feature", i).
				Str("route", seg.RouteID).
				Msg("Length calculation skipped for malformed geometry")
			segments = append(segments, seg)
			continue
		}

		seg.Path = path
		if len(path) > 0 {
			start, end := path[0], path[len(path)-1]
			seg.StartCoord = &start
			seg.EndCoord = &end
		}

		length := geo.PathLengthKm(path, radiusKm)
		if math.IsNaN(length) || math.IsInf(length, 0) || length < 0 {
			log.Warn().
				Int("feature", i).
				Str("route", seg.RouteID).
				Float64("length_km", length).
				Msg("Non-finite segment length, falling back to 0")
			length = 0
		}
		seg.LengthKm = length

		segments = append(segments, seg)
	}

	return segments
}

func propString(props map[string]interface{}, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

func propFloat(props map[string]interface{}, key string) *float64 {
	if v, ok := props[key].(float64); ok {
		return &v
	}
	return nil
}

func propInt(props map[string]interface{}, key string) *int {
	if v, ok := props[key].(float64); ok {
		n := int(v)
		return &n
	}
	return nil
}

func propInt64(props map[string]interface{}, key string) *int64 {
	if v, ok := props[key].(float64); ok {
		n := int64(v)
		return &n
	}
	return nil
}
