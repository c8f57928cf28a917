package stats

import (
	"math"
	"testing"

	"github.com/opendc/trafficmap/internal/segment"
)

func seg(route string, aadt float64, lengthKm float64) segment.Segment {
	return segment.Segment{RouteID: route, AADT: &aadt, LengthKm: lengthKm}
}

func segNoAADT(route string, lengthKm float64) segment.Segment {
	return segment.Segment{RouteID: route, LengthKm: lengthKm}
}

func TestComputeGlobalStats(t *testing.T) {
	segments := []segment.Segment{
		seg("A", 500, 1),
		seg("A", 1500, 2),
		seg("B", 8000, 3),
		seg("B", 20000, 4),
		segNoAADT("B", 5), // excluded from numeric stats
	}

	sum := Compute(segments, nil)

	if sum.TotalSegments != 5 {
		t.Errorf("TotalSegments = %d, want 5", sum.TotalSegments)
	}
	if sum.WithAADT != 4 {
		t.Errorf("WithAADT = %d, want 4", sum.WithAADT)
	}
	if want := (500.0 + 1500 + 8000 + 20000) / 4; sum.MeanAADT != want {
		t.Errorf("MeanAADT = %g, want %g", sum.MeanAADT, want)
	}
	if want := (1500.0 + 8000) / 2; sum.MedianAADT != want {
		t.Errorf("MedianAADT = %g, want %g", sum.MedianAADT, want)
	}
	if sum.MinAADT != 500 || sum.MaxAADT != 20000 {
		t.Errorf("Min/Max = %g/%g, want 500/20000", sum.MinAADT, sum.MaxAADT)
	}
	if want := 1.0 + 2 + 3 + 4 + 5; sum.TotalLengthKm != want {
		t.Errorf("TotalLengthKm = %g, want %g", sum.TotalLengthKm, want)
	}
}

func TestComputeMedianOdd(t *testing.T) {
	segments := []segment.Segment{seg("A", 100, 0), seg("A", 900, 0), seg("A", 300, 0)}

	sum := Compute(segments, nil)
	if sum.MedianAADT != 300 {
		t.Errorf("MedianAADT = %g, want 300", sum.MedianAADT)
	}
}

func TestHistogramBins(t *testing.T) {
	segments := []segment.Segment{
		seg("A", 0, 0),     // first bin, inclusive edge below
		seg("A", 1000, 0),  // first bin, inclusive edge
		seg("A", 1001, 0),  // second bin
		seg("A", 5000, 0),  // second bin, inclusive edge
		seg("A", 9999, 0),  // third bin
		seg("A", 10001, 0), // open-ended bin
		segNoAADT("A", 0),  // not binned
	}

	sum := Compute(segments, []float64{1000, 5000, 10000})

	wantCounts := []int{2, 2, 1, 1}
	if len(sum.Bins) != len(wantCounts) {
		t.Fatalf("got %d bins, want %d", len(sum.Bins), len(wantCounts))
	}

	total := 0
	for i, bin := range sum.Bins {
		if bin.Count != wantCounts[i] {
			t.Errorf("bin %q count = %d, want %d", bin.Label, bin.Count, wantCounts[i])
		}
		total += bin.Count
	}
	if total != sum.WithAADT {
		t.Errorf("bin counts sum to %d, want WithAADT = %d", total, sum.WithAADT)
	}

	// Percentages are over the full segment count
	if want := 2.0 / 7 * 100; math.Abs(sum.Bins[0].Percent-want) > 1e-9 {
		t.Errorf("bin 0 percent = %g, want %g", sum.Bins[0].Percent, want)
	}
}

func TestHistogramLabels(t *testing.T) {
	sum := Compute(nil, []float64{1000, 5000, 10000})

	want := []string{"0-1000", "1001-5000", "5001-10000", "10001+"}
	for i, bin := range sum.Bins {
		if bin.Label != want[i] {
			t.Errorf("bin %d label = %q, want %q", i, bin.Label, want[i])
		}
	}
}

func TestRouteAggregates(t *testing.T) {
	segments := []segment.Segment{
		seg("low", 100, 1),
		seg("high", 9000, 2),
		seg("high", 11000, 3),
		seg("low", 300, 4),
		segNoAADT("low", 5),
		segNoAADT("", 6), // no route: dropped from the table
	}

	sum := Compute(segments, nil)

	if sum.UniqueRoutes != 2 {
		t.Fatalf("UniqueRoutes = %d, want 2", sum.UniqueRoutes)
	}
	if sum.WithRoute != 5 {
		t.Errorf("WithRoute = %d, want 5", sum.WithRoute)
	}

	counted := 0
	for _, r := range sum.Routes {
		counted += r.SegmentCount
	}
	if counted != sum.WithRoute {
		t.Errorf("route segment counts sum to %d, want %d", counted, sum.WithRoute)
	}

	// Sorted by mean AADT, highest first
	if sum.Routes[0].RouteID != "high" || sum.Routes[1].RouteID != "low" {
		t.Fatalf("routes = [%s, %s], want [high, low]", sum.Routes[0].RouteID, sum.Routes[1].RouteID)
	}

	high := sum.Routes[0]
	if high.AvgAADT != 10000 || high.MinAADT != 9000 || high.MaxAADT != 11000 {
		t.Errorf("high route stats = %g/%g/%g, want 10000/9000/11000", high.AvgAADT, high.MinAADT, high.MaxAADT)
	}
	if high.SegmentCount != 2 || high.TotalLengthKm != 5 {
		t.Errorf("high route count/length = %d/%g, want 2/5", high.SegmentCount, high.TotalLengthKm)
	}

	low := sum.Routes[1]
	if low.SegmentCount != 3 {
		t.Errorf("low route count = %d, want 3 (AADT-less segments still counted)", low.SegmentCount)
	}
	if low.AvgAADT != 200 {
		t.Errorf("low route avg = %g, want 200 (AADT-less segments excluded)", low.AvgAADT)
	}
}

func TestComputeEmptyInput(t *testing.T) {
	sum := Compute(nil, nil)

	if sum.TotalSegments != 0 || sum.WithAADT != 0 {
		t.Errorf("counts = %d/%d, want 0/0", sum.TotalSegments, sum.WithAADT)
	}
	if sum.MeanAADT != 0 || sum.MedianAADT != 0 {
		t.Error("numeric stats over no values must stay zero")
	}
	if len(sum.Bins) != len(DefaultThresholds)+1 {
		t.Errorf("got %d bins, want %d", len(sum.Bins), len(DefaultThresholds)+1)
	}
}
