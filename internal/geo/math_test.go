package geo

import (
	"math"
	"testing"
)

func TestHaversineZeroDistance(t *testing.T) {
	p := Coordinate{Lon: -77.0369, Lat: 38.9072}

	if d := Haversine(p, p, EarthRadiusKm); d != 0 {
		t.Errorf("distance from a point to itself = %g, want 0", d)
	}
}

func TestHaversineSymmetry(t *testing.T) {
	a := Coordinate{Lon: -77.0, Lat: 38.9}
	b := Coordinate{Lon: -76.5, Lat: 39.2}

	ab := Haversine(a, b, EarthRadiusKm)
	ba := Haversine(b, a, EarthRadiusKm)

	if math.Abs(ab-ba) > 1e-12 {
		t.Errorf("d(a,b) = %g, d(b,a) = %g, want equal", ab, ba)
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// Two points ~1.4 km apart in DC
	a := Coordinate{Lon: -77.0, Lat: 38.9}
	b := Coordinate{Lon: -77.01, Lat: 38.91}

	d := Haversine(a, b, EarthRadiusKm)

	if math.Abs(d-1.409) > 0.01 {
		t.Errorf("distance = %g km, want 1.409 +/- 0.01", d)
	}
}

func TestPathLengthKm(t *testing.T) {
	a := Coordinate{Lon: -77.0, Lat: 38.9}
	b := Coordinate{Lon: -77.01, Lat: 38.91}
	c := Coordinate{Lon: -77.02, Lat: 38.92}

	tests := []struct {
		name string
		path []Coordinate
		want float64
	}{
		{name: "empty", path: nil, want: 0},
		{name: "single point", path: []Coordinate{a}, want: 0},
		{name: "two points", path: []Coordinate{a, b}, want: Haversine(a, b, EarthRadiusKm)},
		{
			name: "three points sum",
			path: []Coordinate{a, b, c},
			want: Haversine(a, b, EarthRadiusKm) + Haversine(b, c, EarthRadiusKm),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PathLengthKm(tt.path, EarthRadiusKm)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("PathLengthKm = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestHaversineRadiusScales(t *testing.T) {
	a := Coordinate{Lon: -77.0, Lat: 38.9}
	b := Coordinate{Lon: -77.01, Lat: 38.91}

	d1 := Haversine(a, b, EarthRadiusKm)
	d2 := Haversine(a, b, 2*EarthRadiusKm)

	if math.Abs(d2-2*d1) > 1e-9 {
		t.Errorf("doubling the radius should double the distance: %g vs %g", d1, d2)
	}
}
