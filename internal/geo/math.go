package geo

import "math"

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometers between two
// WGS84 coordinates on a sphere of the given radius.
func Haversine(a, b Coordinate, radiusKm float64) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return radiusKm * c
}

// PathLengthKm sums the great-circle distances over consecutive coordinate
// pairs of a path. A path with fewer than two coordinates has length 0.
func PathLengthKm(path []Coordinate, radiusKm float64) float64 {
	if len(path) < 2 {
		return 0
	}

	var total float64
	for i := 0; i < len(path)-1; i++ {
		total += Haversine(path[i], path[i+1], radiusKm)
	}

	return total
}

func radians(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
