// Package config handles configuration loading and the named constants of
// the pipeline (map center, bin thresholds, width tiers and so on), so that
// variants and tests can override them instead of patching magic numbers.
package config

import (
	"fmt"
	"os"

	"github.com/opendc/trafficmap/internal/geo"

	"gopkg.in/yaml.v3"
)

// WidthTiers maps AADT values to polyline weights: Weights[i] applies to
// values at or below Thresholds[i], the last weight to everything above.
type WidthTiers struct {
	Thresholds []float64 `yaml:"thresholds"`
	Weights    []int     `yaml:"weights"`
}

// Weight returns the line weight for a traffic-volume value.
func (w WidthTiers) Weight(aadt float64) int {
	for i, t := range w.Thresholds {
		if aadt <= t {
			return w.Weights[i]
		}
	}
	return w.Weights[len(w.Weights)-1]
}

// Config is the root configuration structure.
type Config struct {
	// Map rendering
	Center      geo.Coordinate `yaml:"center"`
	Zoom        int            `yaml:"zoom"`
	TileURL     string         `yaml:"tile_url"`
	Attribution string         `yaml:"attribution"`
	Opacity     float64        `yaml:"opacity"`
	RampColors  []string       `yaml:"ramp_colors"`
	Tooltip     string         `yaml:"tooltip"`
	WidthTiers  WidthTiers     `yaml:"width_tiers"`

	// Recentering on the sampled segment coordinates
	Recenter           bool `yaml:"recenter"`
	RecenterMinSamples int  `yaml:"recenter_min_samples"`

	// Pipeline
	EarthRadiusKm       float64   `yaml:"earth_radius_km"`
	RepairSuffix        string    `yaml:"repair_suffix"`
	HistogramThresholds []float64 `yaml:"histogram_thresholds"`

	// Static preview image
	PreviewSize int `yaml:"preview_size"`
}

// Default returns the configuration of the canonical DC traffic map.
func Default() *Config {
	return &Config{
		Center:      geo.Coordinate{Lat: 38.9072, Lon: -77.0369}, // Washington DC
		Zoom:        12,
		TileURL:     "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png",
		Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> &copy; <a href="https://carto.com/attributions">CARTO</a>`,
		Opacity:     0.8,
		RampColors:  []string{"#008000", "#ffff00", "#ffa500", "#ff0000"}, // green, yellow, orange, red
		Tooltip: `<div style="font-family: Arial; font-size: 12px;">` +
			`<b>Route:</b> {{.RouteID}}<br>` +
			`<b>Traffic:</b> {{.AADT}} vehicles/day<br>` +
			`<b>Year:</b> {{.Year}}<br>` +
			`</div>`,
		WidthTiers: WidthTiers{
			Thresholds: []float64{1000, 5000, 10000},
			Weights:    []int{2, 4, 6, 8},
		},
		Recenter:            true,
		RecenterMinSamples:  10,
		EarthRadiusKm:       geo.EarthRadiusKm,
		RepairSuffix:        "]}}",
		HistogramThresholds: []float64{1000, 5000, 10000},
		PreviewSize:         1024,
	}
}

// Load reads a YAML configuration file over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if len(c.WidthTiers.Weights) != len(c.WidthTiers.Thresholds)+1 {
		return fmt.Errorf("width_tiers: need %d weights for %d thresholds, got %d",
			len(c.WidthTiers.Thresholds)+1, len(c.WidthTiers.Thresholds), len(c.WidthTiers.Weights))
	}
	if len(c.RampColors) < 2 {
		return fmt.Errorf("ramp_colors: need at least 2 colors, got %d", len(c.RampColors))
	}
	if c.EarthRadiusKm <= 0 {
		return fmt.Errorf("earth_radius_km must be > 0, got %g", c.EarthRadiusKm)
	}
	return nil
}
