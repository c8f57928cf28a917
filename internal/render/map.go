// Package render turns segment records and their statistics into map
// artifacts: an interactive Leaflet HTML page and a static WebP preview.
package render

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/template"

	"github.com/opendc/trafficmap/internal/config"
	"github.com/opendc/trafficmap/internal/geo"
	"github.com/opendc/trafficmap/internal/segment"
	"github.com/opendc/trafficmap/internal/stats"

	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

//go:embed map.html.tpl
var mapPage string

// Result reports what the map renderer actually did with the dataset.
type Result struct {
	FeaturesAdded   int
	FeaturesSkipped int
	Center          geo.Coordinate
	Recentered      bool
	SampleCount     int
}

// Data model handed to the embedded page script.
type mapData struct {
	Center      [2]float64   `json:"center"` // [lat, lon]
	Zoom        int          `json:"zoom"`
	TileURL     string       `json:"tileUrl"`
	Attribution string       `json:"attribution"`
	Legend      *legendData  `json:"legend,omitempty"`
	Routes      []routeLayer `json:"routes"`
}

type legendData struct {
	Caption string   `json:"caption"`
	Min     float64  `json:"min"`
	Max     float64  `json:"max"`
	Colors  []string `json:"colors"`
}

type routeLayer struct {
	Name     string    `json:"name"`
	Segments []segLine `json:"segments"`
}

type segLine struct {
	LatLngs [][2]float64 `json:"latlngs"`
	Color   string       `json:"color"`
	Weight  int          `json:"weight"`
	Opacity float64      `json:"opacity"`
	Tooltip string       `json:"tooltip"`
}

type tooltipFields struct {
	RouteID string
	AADT    string
	Year    string
}

// Map renders the interactive HTML map for the segment sequence. Segments
// are grouped by route in stable input order. Segments without a route or
// without a usable AADT are left off the map; individual features that
// cannot be drawn are skipped with a warning and never abort the render.
func Map(segments []segment.Segment, sum stats.Summary, cfg *config.Config) ([]byte, *Result, error) {
	tooltip, err := template.New("tooltip").Parse(cfg.Tooltip)
	if err != nil {
		return nil, nil, fmt.Errorf("tooltip template: %w", err)
	}

	ramp, err := NewRamp(cfg.RampColors, sum.MinAADT, sum.MaxAADT)
	if err != nil {
		return nil, nil, err
	}

	res := &Result{Center: cfg.Center}

	// Recenter on the mean of the sampled segment start coordinates when
	// the sample is big enough to be representative.
	samples := sampleCoords(segments)
	res.SampleCount = len(samples)
	if cfg.Recenter && len(samples) > cfg.RecenterMinSamples {
		res.Center = meanCoord(samples)
		res.Recentered = true
	}

	data := mapData{
		Center:      [2]float64{res.Center.Lat, res.Center.Lon},
		Zoom:        cfg.Zoom,
		TileURL:     cfg.TileURL,
		Attribution: cfg.Attribution,
		Routes:      []routeLayer{},
	}
	if sum.WithAADT > 0 {
		data.Legend = &legendData{
			Caption: "Annual Average Daily Traffic",
			Min:     sum.MinAADT,
			Max:     sum.MaxAADT,
			Colors:  cfg.RampColors,
		}
	}

	routeIdx := make(map[string]int)
	for i := range segments {
		seg := &segments[i]
		if seg.RouteID == "" {
			continue
		}
		if !seg.HasAADT() || *seg.AADT == 0 {
			continue
		}

		idx, ok := routeIdx[seg.RouteID]
		if !ok {
			idx = len(data.Routes)
			routeIdx[seg.RouteID] = idx
			data.Routes = append(data.Routes, routeLayer{Name: seg.RouteID})
		}

		line, err := buildLine(seg, ramp, tooltip, cfg)
		if err != nil {
			res.FeaturesSkipped++
			log.Warn().
				Err(err).
				Str("route", seg.RouteID).
				Msg("Skipping feature on map")
			continue
		}

		data.Routes[idx].Segments = append(data.Routes[idx].Segments, line)
		res.FeaturesAdded++
	}

	page, err := renderPage("DC Traffic Volume Map", data)
	if err != nil {
		return nil, nil, err
	}

	return page, res, nil
}

// WriteMap renders the map and writes it to path.
func WriteMap(path string, segments []segment.Segment, sum stats.Summary, cfg *config.Config) (*Result, error) {
	page, res, err := Map(segments, sum, cfg)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(path, page, 0644); err != nil {
		return nil, err
	}

	return res, nil
}

func buildLine(seg *segment.Segment, ramp *Ramp, tooltip *template.Template, cfg *config.Config) (segLine, error) {
	if seg.GeometryType != "LineString" {
		return segLine{}, fmt.Errorf("unsupported geometry type %q", seg.GeometryType)
	}
	if len(seg.Path) < 2 {
		return segLine{}, fmt.Errorf("geometry has %d coordinates", len(seg.Path))
	}

	latlngs := make([][2]float64, len(seg.Path))
	for i, c := range seg.Path {
		latlngs[i] = [2]float64{c.Lat, c.Lon}
	}

	aadt := *seg.AADT

	year := ""
	if seg.AADTYear != nil {
		year = strconv.Itoa(*seg.AADTYear)
	}

	var tip bytes.Buffer
	err := tooltip.Execute(&tip, tooltipFields{
		RouteID: seg.RouteID,
		AADT:    strconv.FormatFloat(aadt, 'f', -1, 64),
		Year:    year,
	})
	if err != nil {
		return segLine{}, fmt.Errorf("tooltip: %w", err)
	}

	return segLine{
		LatLngs: latlngs,
		Color:   ramp.Hex(aadt),
		Weight:  cfg.WidthTiers.Weight(aadt),
		Opacity: cfg.Opacity,
		Tooltip: tip.String(),
	}, nil
}

func renderPage(title string, data mapData) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New("map").Parse(mapPage)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, struct {
		Title string
		Data  string
	}{Title: title, Data: string(payload)})
	if err != nil {
		return nil, err
	}

	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/javascript", js.Minify)

	minified, err := m.String("text/html", buf.String())
	if err != nil {
		return nil, err
	}

	return []byte(minified), nil
}

// sampleCoords takes the first coordinate of every drawable segment, in
// [lat, lon] order, for the recentering heuristic.
func sampleCoords(segments []segment.Segment) []geo.Coordinate {
	var samples []geo.Coordinate
	for i := range segments {
		seg := &segments[i]
		if seg.GeometryType != "LineString" || len(seg.Path) == 0 {
			continue
		}
		samples = append(samples, seg.Path[0])
	}
	return samples
}

func meanCoord(coords []geo.Coordinate) geo.Coordinate {
	var lat, lon float64
	for _, c := range coords {
		lat += c.Lat
		lon += c.Lon
	}
	n := float64(len(coords))
	return geo.Coordinate{Lat: lat / n, Lon: lon / n}
}
