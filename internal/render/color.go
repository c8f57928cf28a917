package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Ramp is a linear multi-stop color scale over a [min, max] value domain,
// in the spirit of the branca/matplotlib linear colormaps.
type Ramp struct {
	stops    []color.NRGBA
	min, max float64
}

// NewRamp parses hex color stops ("#rrggbb") into a ramp scaled over the
// given domain.
func NewRamp(stops []string, min, max float64) (*Ramp, error) {
	if len(stops) < 2 {
		return nil, fmt.Errorf("ramp needs at least 2 color stops, got %d", len(stops))
	}

	parsed := make([]color.NRGBA, len(stops))
	for i, s := range stops {
		c, err := parseHexColor(s)
		if err != nil {
			return nil, fmt.Errorf("ramp stop %d: %w", i, err)
		}
		parsed[i] = c
	}

	return &Ramp{stops: parsed, min: min, max: max}, nil
}

// At returns the interpolated color for a value, clamped to the domain.
func (r *Ramp) At(v float64) color.NRGBA {
	if r.max <= r.min {
		return r.stops[0]
	}

	t := (v - r.min) / (r.max - r.min)
	if t <= 0 {
		return r.stops[0]
	}
	if t >= 1 {
		return r.stops[len(r.stops)-1]
	}

	scaled := t * float64(len(r.stops)-1)
	idx := int(scaled)
	frac := scaled - float64(idx)

	a, b := r.stops[idx], r.stops[idx+1]
	return color.NRGBA{
		R: lerp(a.R, b.R, frac),
		G: lerp(a.G, b.G, frac),
		B: lerp(a.B, b.B, frac),
		A: 255,
	}
}

// Hex returns the interpolated color as "#rrggbb" for use in styles.
func (r *Ramp) Hex(v float64) string {
	c := r.At(v)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

func parseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("expected #rrggbb, got %q", s)
	}

	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, err
	}

	return color.NRGBA{
		R: uint8(n >> 16),
		G: uint8(n >> 8),
		B: uint8(n),
		A: 255,
	}, nil
}
