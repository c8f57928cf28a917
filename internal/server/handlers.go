package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

const etagCap = 64

// HandleIndex serves the interactive map HTML.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	s.serveFile(w, r, filepath.Join(s.Dir, MapFile), "text/html; charset=utf-8")
}

// HandleStats serves the computed statistics summary.
func (s *ServerContext) HandleStats(w http.ResponseWriter, r *http.Request) {
	if !s.HasStats {
		http.NotFound(w, r)
		return
	}

	s.serveFile(w, r, filepath.Join(s.Dir, StatsFile), "application/json")
}

// HandleSegments serves the normalized segment GeoJSON.
func (s *ServerContext) HandleSegments(w http.ResponseWriter, r *http.Request) {
	if !s.HasGeoJSON {
		http.NotFound(w, r)
		return
	}

	s.serveFile(w, r, filepath.Join(s.Dir, SegmentsFile), "application/geo+json")
}

// HandlePreview serves the static WebP preview image.
func (s *ServerContext) HandlePreview(w http.ResponseWriter, r *http.Request) {
	if !s.HasPreview {
		http.NotFound(w, r)
		return
	}

	s.serveFile(w, r, filepath.Join(s.Dir, PreviewFile), "image/webp")
}

// serveFile serves a file from disk with ETag generation based on size and
// modification time, answering 304 on If-None-Match hits.
func (s *ServerContext) serveFile(w http.ResponseWriter, r *http.Request, path, contentType string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	buf := make([]byte, 0, etagCap)
	buf = append(buf, '"')
	buf = strconv.AppendInt(buf, info.Size(), 16)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, info.ModTime().UnixNano(), 16)
	buf = append(buf, '"')
	etag := string(buf)

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	http.ServeFile(w, r, path)
}
