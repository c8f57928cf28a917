// Package stats computes dataset-wide and per-route descriptive statistics
// over extracted road segments.
package stats

import (
	"fmt"
	"sort"

	"github.com/opendc/trafficmap/internal/segment"
)

// DefaultThresholds are the traffic-volume histogram bin edges.
var DefaultThresholds = []float64{1000, 5000, 10000}

// Bin is one row of the traffic-volume distribution table. Percent is
// relative to the total segment count, matching the historical reports.
type Bin struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// RouteAggregate summarizes the segments of one route.
type RouteAggregate struct {
	RouteID       string  `json:"route_id"`
	AvgAADT       float64 `json:"avg_aadt"`
	MinAADT       float64 `json:"min_aadt"`
	MaxAADT       float64 `json:"max_aadt"`
	SegmentCount  int     `json:"segment_count"`
	TotalLengthKm float64 `json:"total_length_km"`
}

// Summary holds everything the report and the renderer need.
type Summary struct {
	TotalSegments int `json:"total_segments"`
	WithAADT      int `json:"with_aadt"`
	WithRoute     int `json:"with_route"`

	MeanAADT   float64 `json:"mean_aadt"`
	MedianAADT float64 `json:"median_aadt"`
	MinAADT    float64 `json:"min_aadt"`
	MaxAADT    float64 `json:"max_aadt"`

	Bins   []Bin            `json:"bins"`
	Routes []RouteAggregate `json:"routes"`

	UniqueRoutes  int     `json:"unique_routes"`
	TotalLengthKm float64 `json:"total_length_km"`
}

// Compute aggregates the segment sequence. Segments without an AADT value
// are excluded from every numeric statistic but still counted in
// TotalSegments; segments without a route id are excluded from the
// per-route table. Routes come out sorted by mean AADT, highest first.
func Compute(segments []segment.Segment, thresholds []float64) Summary {
	if len(thresholds) == 0 {
		thresholds = DefaultThresholds
	}

	s := Summary{TotalSegments: len(segments)}

	var values []float64
	for i := range segments {
		seg := &segments[i]
		s.TotalLengthKm += seg.LengthKm
		if seg.HasAADT() {
			values = append(values, *seg.AADT)
		}
	}
	s.WithAADT = len(values)

	if len(values) > 0 {
		s.MeanAADT = mean(values)
		s.MedianAADT = median(values)
		s.MinAADT, s.MaxAADT = minMax(values)
	}

	s.Bins = histogram(values, thresholds, len(segments))
	s.Routes, s.WithRoute = routeAggregates(segments)
	s.UniqueRoutes = len(s.Routes)

	return s
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// median averages the two middle values for even-sized inputs. The input
// slice is not modified.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func minMax(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// histogram counts values into len(thresholds)+1 bins: one per threshold
// (inclusive upper edge) plus an open-ended last bin. Bin counts sum to
// len(values); percentages are over total, the full segment count.
func histogram(values []float64, thresholds []float64, total int) []Bin {
	bins := make([]Bin, len(thresholds)+1)

	prev := 0.0
	for i, t := range thresholds {
		if i == 0 {
			bins[i].Label = fmt.Sprintf("0-%.0f", t)
		} else {
			bins[i].Label = fmt.Sprintf("%.0f-%.0f", prev+1, t)
		}
		prev = t
	}
	bins[len(thresholds)].Label = fmt.Sprintf("%.0f+", prev+1)

	for _, v := range values {
		idx := len(thresholds)
		for i, t := range thresholds {
			if v <= t {
				idx = i
				break
			}
		}
		bins[idx].Count++
	}

	if total > 0 {
		for i := range bins {
			bins[i].Percent = float64(bins[i].Count) / float64(total) * 100
		}
	}

	return bins
}

// routeAggregates groups segments by route id in first-seen order, then
// sorts the result by mean AADT descending. Only segments with an AADT
// contribute to the AADT columns; segment counts and lengths cover every
// segment of the route.
func routeAggregates(segments []segment.Segment) ([]RouteAggregate, int) {
	index := make(map[string]int)
	var routes []RouteAggregate
	var sums []float64
	var aadtCounts []int

	withRoute := 0
	for i := range segments {
		seg := &segments[i]
		if seg.RouteID == "" {
			continue
		}
		withRoute++

		idx, ok := index[seg.RouteID]
		if !ok {
			idx = len(routes)
			index[seg.RouteID] = idx
			routes = append(routes, RouteAggregate{RouteID: seg.RouteID})
			sums = append(sums, 0)
			aadtCounts = append(aadtCounts, 0)
		}

		r := &routes[idx]
		r.SegmentCount++
		r.TotalLengthKm += seg.LengthKm

		if seg.HasAADT() {
			v := *seg.AADT
			if aadtCounts[idx] == 0 || v < r.MinAADT {
				r.MinAADT = v
			}
			if aadtCounts[idx] == 0 || v > r.MaxAADT {
				r.MaxAADT = v
			}
			sums[idx] += v
			aadtCounts[idx]++
		}
	}

	for i := range routes {
		if aadtCounts[i] > 0 {
			routes[i].AvgAADT = sums[i] / float64(aadtCounts[i])
		}
	}

	sort.SliceStable(routes, func(i, j int) bool {
		return routes[i].AvgAADT > routes[j].AvgAADT
	})

	return routes, withRoute
}
