package platform

import (
	"fmt"
	"strconv"
	"strings"
)

// Size is a width and height in points.
type Size struct {
	Width, Height float64
}

// ScreenSpec is a parsed "WIDTHxHEIGHT@SCALE" value.
type ScreenSpec struct {
	Size  Size
	Scale float64
}

// ParseScreenSpec parses "390x844@3" (scale defaults to 1 when omitted).
func ParseScreenSpec(s string) (ScreenSpec, error) {
	spec := ScreenSpec{Scale: 1}
	dims := strings.TrimSpace(s)
	if i := strings.IndexByte(dims, '@'); i >= 0 {
		scale, err := strconv.ParseFloat(strings.TrimSpace(dims[i+1:]), 64)
		if err != nil || scale <= 0 {
			return ScreenSpec{}, fmt.Errorf("invalid screen %q: bad scale", s)
		}
		spec.Scale = scale
		dims = dims[:i]
	}
	parts := strings.Split(dims, "x")
	if len(parts) != 2 {
		return ScreenSpec{}, fmt.Errorf("invalid screen %q: expected WIDTHxHEIGHT[@SCALE]", s)
	}
	vals := make([]float64, 2)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return ScreenSpec{}, fmt.Errorf("invalid screen %q: %w", s, err)
		}
		if v < 0 {
			return ScreenSpec{}, fmt.Errorf("invalid screen %q: negative dimension", s)
		}
		vals[i] = v
	}
	spec.Size = Size{Width: vals[0], Height: vals[1]}
	return spec, nil
}

// SingleLineWidth returns the width in points of a one-pixel line on s.
func SingleLineWidth(s Screen) float64 {
	scale := s.Scale()
	if scale <= 0 {
		return 1
	}
	return 1 / scale
}

// SingleLineAdjustOffset returns the offset that centers a one-pixel line
// on a pixel boundary.
func SingleLineAdjustOffset(s Screen) float64 {
	return SingleLineWidth(s) / 2
}
