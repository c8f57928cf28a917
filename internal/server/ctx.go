// Package server serves generated map artifacts over HTTP for local
// inspection.
package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Fixed artifact file names shared between the pipeline and the server.
const (
	MapFile      = "dc_traffic_map.html"
	StatsFile    = "traffic_stats.json"
	SegmentsFile = "segments.geojson"
	PreviewFile  = "traffic_preview.webp"
)

// ServerContext holds the artifact directory and which artifacts were
// found there at startup.
type ServerContext struct {
	Dir        string
	HasStats   bool
	HasGeoJSON bool
	HasPreview bool
}

// NewServerContext validates the artifact directory. The map HTML is
// required; the other artifacts are optional and their routes return 404
// when absent.
func NewServerContext(dir string) (*ServerContext, error) {
	if _, err := os.Stat(filepath.Join(dir, MapFile)); err != nil {
		return nil, fmt.Errorf("no map artifact in %s: %w", dir, err)
	}

	ctx := &ServerContext{Dir: dir}
	ctx.HasStats = fileExists(filepath.Join(dir, StatsFile))
	ctx.HasGeoJSON = fileExists(filepath.Join(dir, SegmentsFile))
	ctx.HasPreview = fileExists(filepath.Join(dir, PreviewFile))

	log.Info().
		Str("dir", dir).
		Bool("stats", ctx.HasStats).
		Bool("geojson", ctx.HasGeoJSON).
		Bool("preview", ctx.HasPreview).
		Msg("Artifact directory validated")

	return ctx, nil
}

// Routes builds the request multiplexer for the artifact endpoints.
func (s *ServerContext) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/stats", s.HandleStats)
	mux.HandleFunc("/data/segments.geojson", s.HandleSegments)
	mux.HandleFunc("/preview.webp", s.HandlePreview)
	mux.HandleFunc("/", s.HandleIndex)
	return mux
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
