package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func artifactDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("content of "+name), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestNewServerContextRequiresMap(t *testing.T) {
	if _, err := NewServerContext(t.TempDir()); err == nil {
		t.Fatal("expected error for a directory without a map artifact")
	}
}

func TestRoutes(t *testing.T) {
	dir := artifactDir(t, MapFile, StatsFile, SegmentsFile)

	ctx, err := NewServerContext(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !ctx.HasStats || !ctx.HasGeoJSON || ctx.HasPreview {
		t.Fatalf("artifact detection wrong: %+v", ctx)
	}

	mux := ctx.Routes()

	tests := []struct {
		path        string
		wantStatus  int
		contentType string
	}{
		{path: "/", wantStatus: http.StatusOK, contentType: "text/html; charset=utf-8"},
		{path: "/api/stats", wantStatus: http.StatusOK, contentType: "application/json"},
		{path: "/data/segments.geojson", wantStatus: http.StatusOK, contentType: "application/geo+json"},
		{path: "/preview.webp", wantStatus: http.StatusNotFound},
		{path: "/no/such/route", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.contentType != "" && rec.Header().Get("Content-Type") != tt.contentType {
				t.Errorf("content type = %q, want %q", rec.Header().Get("Content-Type"), tt.contentType)
			}
		})
	}
}

func TestServeFileETag(t *testing.T) {
	dir := artifactDir(t, MapFile)

	ctx, err := NewServerContext(dir)
	if err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	ctx.HandleIndex(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatal("expected an ETag header")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("If-None-Match", etag)

	rec = httptest.NewRecorder()
	ctx.HandleIndex(rec, req)

	if rec.Code != http.StatusNotModified {
		t.Errorf("status = %d, want 304 on ETag match", rec.Code)
	}
}

func TestRequestLoggerPassesThrough(t *testing.T) {
	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/anything", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
	if rec.Body.String() != "short and stout" {
		t.Errorf("body = %q", rec.Body.String())
	}
}
