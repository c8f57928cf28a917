package segment

import "github.com/opendc/trafficmap/internal/geo"

// ToFeatureCollection builds a normalized GeoJSON document from the
// segment records, with flat lower-case properties and derived fields
// included. Segments whose geometry failed to decode come out with an
// empty geometry so the collection keeps one feature per input feature.
func ToFeatureCollection(segments []Segment) geo.FeatureCollection {
	fc := geo.FeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]geo.Feature, 0, len(segments)),
	}

	for i := range segments {
		seg := &segments[i]

		props := map[string]interface{}{
			"length_km": seg.LengthKm,
		}
		if seg.RouteID != "" {
			props["route_id"] = seg.RouteID
		}
		if seg.AADT != nil {
			props["aadt"] = *seg.AADT
		}
		if seg.AADTYear != nil {
			props["aadt_year"] = *seg.AADTYear
		}
		if seg.FromMeasure != nil {
			props["from_measure"] = *seg.FromMeasure
		}
		if seg.ToMeasure != nil {
			props["to_measure"] = *seg.ToMeasure
		}
		if seg.GISID != "" {
			props["gis_id"] = seg.GISID
		}
		if seg.ObjectID != nil {
			props["object_id"] = *seg.ObjectID
		}

		geom := geo.Geometry{Type: seg.GeometryType}
		if seg.Path != nil {
			geom = geo.LineStringGeometry(seg.Path)
			geom.Type = seg.GeometryType
		}

		fc.Features = append(fc.Features, geo.Feature{
			Type:       "Feature",
			Geometry:   geom,
			Properties: props,
		})
	}

	return fc
}
