// Package report prints the human-readable statistics tables that
// accompany the map artifact.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/opendc/trafficmap/internal/render"
	"github.com/opendc/trafficmap/internal/stats"
)

// Write prints the full statistics report. The render result is optional;
// when present the coordinate-sampling diagnostics are included.
func Write(w io.Writer, sum stats.Summary, res *render.Result) {
	fmt.Fprintf(w, "=== Traffic Volume Statistics ===\n")
	fmt.Fprintf(w, "Road segments: %d (%d with AADT)\n", sum.TotalSegments, sum.WithAADT)

	if sum.WithAADT > 0 {
		fmt.Fprintf(w, "Average AADT: %.1f\n", sum.MeanAADT)
		fmt.Fprintf(w, "Median AADT:  %.1f\n", sum.MedianAADT)
		fmt.Fprintf(w, "Min AADT:     %.0f\n", sum.MinAADT)
		fmt.Fprintf(w, "Max AADT:     %.0f\n", sum.MaxAADT)
	} else {
		fmt.Fprintln(w, "No segments carry an AADT value")
	}

	fmt.Fprintf(w, "\nTraffic Volume Distribution:\n")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, bin := range sum.Bins {
		fmt.Fprintf(tw, "%s\t%d segments\t(%.1f%%)\n", bin.Label, bin.Count, bin.Percent)
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "\n=== Route Statistics ===\n")
	fmt.Fprintf(w, "Unique routes: %d\n", sum.UniqueRoutes)

	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "route_id\tavg_aadt\tmin_aadt\tmax_aadt\tsegments\tlength_km")
	for _, r := range sum.Routes {
		fmt.Fprintf(tw, "%s\t%.1f\t%.0f\t%.0f\t%d\t%.2f\n",
			r.RouteID, r.AvgAADT, r.MinAADT, r.MaxAADT, r.SegmentCount, r.TotalLengthKm)
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "\nTotal mapped length: %.2f km\n", sum.TotalLengthKm)

	if res != nil {
		fmt.Fprintf(w, "\nSampled %d segment start coordinates\n", res.SampleCount)
		if res.Recentered {
			fmt.Fprintf(w, "Map recentered to (%.4f, %.4f)\n", res.Center.Lat, res.Center.Lon)
		} else {
			fmt.Fprintf(w, "Map centered at default (%.4f, %.4f)\n", res.Center.Lat, res.Center.Lon)
		}
		fmt.Fprintf(w, "Features drawn: %d, skipped: %d\n", res.FeaturesAdded, res.FeaturesSkipped)
	}
}
