package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"

	"github.com/opendc/trafficmap/internal/config"
	"github.com/opendc/trafficmap/internal/segment"
	"github.com/opendc/trafficmap/internal/stats"

	"github.com/chai2010/webp"
	"github.com/rs/zerolog/log"
	xdraw "golang.org/x/image/draw"
)

// Rendering at 2x and downscaling gives cheap antialiasing for the thin
// polylines.
const previewSupersample = 2

// WritePreview rasterizes the colored road network into a square WebP
// image at path. Segments follow the same color ramp and skip rules as the
// interactive map. Returns an error only for encoding or IO failures; an
// empty drawable set produces a blank canvas.
func WritePreview(path string, segments []segment.Segment, sum stats.Summary, cfg *config.Config) error {
	ramp, err := NewRamp(cfg.RampColors, sum.MinAADT, sum.MaxAADT)
	if err != nil {
		return err
	}

	size := cfg.PreviewSize
	if size <= 0 {
		size = 1024
	}
	canvasSize := size * previewSupersample

	canvas := image.NewRGBA(image.Rect(0, 0, canvasSize, canvasSize))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	bbox, ok := boundingBox(segments)
	if !ok {
		log.Warn().Msg("No drawable geometry, writing blank preview")
	} else {
		proj := newProjector(bbox, canvasSize)
		for i := range segments {
			seg := &segments[i]
			if seg.GeometryType != "LineString" || len(seg.Path) < 2 {
				continue
			}
			if !seg.HasAADT() || *seg.AADT == 0 {
				continue
			}

			c := ramp.At(*seg.AADT)
			width := cfg.WidthTiers.Weight(*seg.AADT) * previewSupersample / 2
			if width < previewSupersample {
				width = previewSupersample
			}

			for j := 0; j < len(seg.Path)-1; j++ {
				x0, y0 := proj.toPixel(seg.Path[j].Lon, seg.Path[j].Lat)
				x1, y1 := proj.toPixel(seg.Path[j+1].Lon, seg.Path[j+1].Lat)
				drawLine(canvas, x0, y0, x1, y1, width, c)
			}
		}
	}

	// Downscale to the target size
	out := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(out, out.Bounds(), canvas, canvas.Bounds(), draw.Over, nil)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := webp.Encode(f, out, &webp.Options{Lossless: false, Quality: 90}); err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}

	return nil
}

type bounds struct {
	minLon, minLat, maxLon, maxLat float64
}

func boundingBox(segments []segment.Segment) (bounds, bool) {
	b := bounds{
		minLon: math.Inf(1), minLat: math.Inf(1),
		maxLon: math.Inf(-1), maxLat: math.Inf(-1),
	}

	found := false
	for i := range segments {
		seg := &segments[i]
		if seg.GeometryType != "LineString" {
			continue
		}
		for _, c := range seg.Path {
			b.minLon = math.Min(b.minLon, c.Lon)
			b.maxLon = math.Max(b.maxLon, c.Lon)
			b.minLat = math.Min(b.minLat, c.Lat)
			b.maxLat = math.Max(b.maxLat, c.Lat)
			found = true
		}
	}

	return b, found
}

// projector maps lon/lat into pixel space preserving aspect ratio, with a
// small margin so strokes at the edge are not clipped.
type projector struct {
	bbox   bounds
	scale  float64
	offX   float64
	offY   float64
	height int
}

func newProjector(b bounds, canvasSize int) *projector {
	const margin = 0.05

	spanLon := b.maxLon - b.minLon
	spanLat := b.maxLat - b.minLat
	span := math.Max(spanLon, spanLat)
	if span == 0 {
		span = 1
	}

	usable := float64(canvasSize) * (1 - 2*margin)
	scale := usable / span

	// Center the smaller span
	offX := float64(canvasSize)*margin + (usable-spanLon*scale)/2
	offY := float64(canvasSize)*margin + (usable-spanLat*scale)/2

	return &projector{bbox: b, scale: scale, offX: offX, offY: offY, height: canvasSize}
}

func (p *projector) toPixel(lon, lat float64) (int, int) {
	x := p.offX + (lon-p.bbox.minLon)*p.scale
	// Latitude grows upward, pixels grow downward
	y := float64(p.height) - (p.offY + (lat-p.bbox.minLat)*p.scale)
	return int(math.Round(x)), int(math.Round(y))
}

// drawLine draws a thick line segment with integer Bresenham stepping and
// a square brush.
func drawLine(img *image.RGBA, x0, y0, x1, y1, width int, c color.NRGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		drawBrush(img, x0, y0, width, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func drawBrush(img *image.RGBA, cx, cy, width int, c color.NRGBA) {
	r := width / 2
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			if (image.Point{X: x, Y: y}).In(img.Bounds()) {
				img.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
