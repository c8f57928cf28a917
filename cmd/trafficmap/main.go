package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/opendc/trafficmap/internal/config"
	"github.com/opendc/trafficmap/internal/geo"
	"github.com/opendc/trafficmap/internal/loader"
	"github.com/opendc/trafficmap/internal/logger"
	"github.com/opendc/trafficmap/internal/render"
	"github.com/opendc/trafficmap/internal/report"
	"github.com/opendc/trafficmap/internal/segment"
	"github.com/opendc/trafficmap/internal/server"
	"github.com/opendc/trafficmap/internal/stats"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config"  env:"CONFIG_FILE" description:"Path to YAML configuration file"`
	OutDir     string `short:"o" long:"out-dir" env:"OUT_DIR"     description:"Directory for generated artifacts" default:"."`
	NoMap      bool   `long:"no-map"     description:"Skip the interactive map artifact"`
	NoPreview  bool   `long:"no-preview" description:"Skip the static WebP preview"`
	NoExport   bool   `long:"no-export"  description:"Skip the stats JSON and normalized GeoJSON artifacts"`

	Args struct {
		Input string `positional-arg-name:"GEOJSON" description:"Input GeoJSON file"`
	} `positional-args:"yes"`
}

const defaultInput = "2022_Traffic_Volume.geojson"

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	input := opts.Args.Input
	if input == "" {
		input = defaultInput
	}

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Str("path", input).Msg("Loading GeoJSON dataset")

	fc, err := loader.Load(input, cfg.RepairSuffix)
	if err != nil {
		if errors.Is(err, loader.ErrEmptyDataset) {
			log.Fatal().Err(err).Msg("Dataset contains no features")
		}
		log.Fatal().Err(err).Msg("Failed to load dataset")
	}

	log.Info().Int("features", len(fc.Features)).Msg("Dataset loaded")
	logFirstFeature(fc.Features)

	segments := segment.Extract(fc.Features, cfg.EarthRadiusKm)
	summary := stats.Compute(segments, cfg.HistogramThresholds)

	var mapRes *render.Result
	if !opts.NoMap {
		mapPath := filepath.Join(opts.OutDir, server.MapFile)
		mapRes, err = render.WriteMap(mapPath, segments, summary, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to render map")
		}
		log.Info().
			Str("path", mapPath).
			Int("drawn", mapRes.FeaturesAdded).
			Int("skipped", mapRes.FeaturesSkipped).
			Msg("Interactive map written")
	}

	report.Write(os.Stdout, summary, mapRes)

	if !opts.NoExport {
		writeJSON(filepath.Join(opts.OutDir, server.StatsFile), summary)
		writeJSON(filepath.Join(opts.OutDir, server.SegmentsFile), segment.ToFeatureCollection(segments))
	}

	if !opts.NoPreview {
		previewPath := filepath.Join(opts.OutDir, server.PreviewFile)
		if err := render.WritePreview(previewPath, segments, summary, cfg); err != nil {
			log.Error().Err(err).Msg("Failed to write preview image")
		} else {
			log.Info().Str("path", previewPath).Msg("Preview image written")
		}
	}

	log.Info().Str("dir", opts.OutDir).Msg("Analysis finished successfully")
}

// logFirstFeature logs the coordinate structure of the first feature, which
// is the quickest way to spot a dataset with an unexpected geometry layout.
func logFirstFeature(features []geo.Feature) {
	if len(features) == 0 {
		return
	}

	first := features[0]
	ev := log.Debug().Str("geometry_type", first.Geometry.Type)

	path, err := first.Geometry.Path()
	if err != nil {
		ev.Err(err).Msg("First feature has malformed coordinates")
		return
	}

	ev = ev.Int("coordinates", len(path))
	if len(path) > 0 {
		ev = ev.
			Float64("first_lon", path[0].Lon).
			Float64("first_lat", path[0].Lat)
	}
	ev.Msg("First feature coordinate structure")
}

// writeJSON writes an artifact as JSON, logging and continuing on failure
// so a bad disk never hides the printed statistics.
func writeJSON(path string, v interface{}) {
	f, err := os.Create(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to create artifact")
		return
	}

	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	if err := json.NewEncoder(f).Encode(v); err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to encode artifact")
		return
	}

	log.Info().Str("path", path).Msg("Artifact written")
}
