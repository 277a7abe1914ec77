// Package palette maps scalar data onto colors and builds the iteration
// count color maps used by the renderer.
package palette

import (
	"fmt"
	"math"
	"sort"
	"strings"

	mandel "github.com/marben/adaptive_mandel"
)

// Func maps data, normalized to [0, 1], onto a color.
type Func func(t float64) mandel.Pixel

// Palette evaluates palette fn for data within [dmin, dmax].
// Data outside of the range is clamped; dmax < dmin reverses the palette.
func Palette(fn Func, dmin, dmax, data float64) mandel.Pixel {
	hi, lo := math.Max(dmin, dmax), math.Min(dmin, dmax)
	if hi == lo {
		return fn(0)
	}
	data = clamp(data, lo, hi)
	if dmax < dmin {
		return fn((hi - data) / (hi - lo))
	}
	return fn((data - lo) / (hi - lo))
}

var funcs = map[string]Func{
	"grey":      Grey,
	"gray":      Grey,
	"red":       Red,
	"green":     Green,
	"blue":      Blue,
	"i8":        I8,
	"aips0":     AIPS0,
	"standard":  Standard,
	"staircase": Staircase,
	"color":     Color,
	"hsv":       HSV,
}

// Lookup returns the palette registered under name.
func Lookup(name string) (Func, error) {
	fn, ok := funcs[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown palette %q (have %s)", name, strings.Join(Names(), ", "))
	}
	return fn, nil
}

// Names lists the registered palettes.
func Names() []string {
	names := make([]string, 0, len(funcs))
	for n := range funcs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

func level(t float64) uint8 {
	return uint8(clamp(256*t, 0, 255))
}

func Grey(t float64) mandel.Pixel {
	c := level(t)
	return mandel.Pixel{R: c, G: c, B: c}
}

func Red(t float64) mandel.Pixel   { return mandel.Pixel{R: level(t)} }
func Green(t float64) mandel.Pixel { return mandel.Pixel{G: level(t)} }
func Blue(t float64) mandel.Pixel  { return mandel.Pixel{B: level(t)} }

// steps picks one of len(r) flat colors.
func steps(t float64, r, g, b []uint8) mandel.Pixel {
	n := len(r)
	i := int(clamp(float64(n)*t, 0, float64(n-1)))
	return mandel.Pixel{R: r[i], G: g[i], B: b[i]}
}

func I8(t float64) mandel.Pixel {
	return steps(t,
		[]uint8{0x00, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0xff},
		[]uint8{0x00, 0xff, 0x00, 0xff, 0x00, 0xff, 0x00, 0xff},
		[]uint8{0x00, 0x00, 0xff, 0xff, 0x00, 0x00, 0xff, 0xff})
}

func AIPS0(t float64) mandel.Pixel {
	return steps(t,
		[]uint8{0x31, 0x79, 0x00, 0x5f, 0x00, 0x00, 0xff, 0xff, 0xff},
		[]uint8{0x31, 0x00, 0x00, 0xa7, 0x97, 0xf6, 0xff, 0xb0, 0x00},
		[]uint8{0x31, 0x9b, 0xc8, 0xeb, 0x00, 0x00, 0x00, 0x00, 0x00})
}

func Staircase(t float64) mandel.Pixel {
	return steps(t,
		[]uint8{0x0f, 0x1e, 0x2d, 0x3d, 0x4c, 0x0f, 0x1e, 0x2d, 0x3d, 0x4c, 0x33, 0x66, 0x99, 0xcc, 0xff},
		[]uint8{0x0f, 0x1e, 0x2d, 0x3d, 0x4c, 0x33, 0x66, 0x99, 0xcc, 0xff, 0x0f, 0x1e, 0x2d, 0x3d, 0x4c},
		[]uint8{0x33, 0x66, 0x99, 0xcc, 0xff, 0x0f, 0x1e, 0x2d, 0x3d, 0x4c, 0x0f, 0x1e, 0x2d, 0x3d, 0x4c})
}

func Color(t float64) mandel.Pixel {
	return steps(t,
		[]uint8{0x00, 0x2e, 0x5f, 0x8e, 0xbf, 0xee, 0x00, 0x00, 0x00, 0x00, 0x00, 0x4e, 0x7f, 0x9f, 0xee, 0xbf},
		[]uint8{0x00, 0x2e, 0x5f, 0x8e, 0xbf, 0xee, 0x2e, 0x5f, 0x7f, 0xbf, 0xee, 0x9f, 0x7f, 0x4e, 0x00, 0x00},
		[]uint8{0x00, 0x2e, 0x5f, 0x8e, 0xbf, 0xee, 0xee, 0xbf, 0x7f, 0x4e, 0x00, 0x00, 0x00, 0x00, 0x00, 0x4e})
}

// Standard ramps blue, then green, then red.
func Standard(t float64) mandel.Pixel {
	nd := clamp(3*t, 0, 3)
	switch {
	case nd < 1:
		rg := uint8(0x4d * nd)
		return mandel.Pixel{R: rg, G: rg, B: uint8(0xfd*nd + 1)}
	case nd < 2:
		rb := uint8(0x4d * (nd - 1))
		return mandel.Pixel{R: rb, G: uint8(0x4c + (nd-1)*(0xff-0x4c)), B: rb}
	default:
		gb := uint8(0x4c * (nd - 2))
		return mandel.Pixel{R: uint8(0x4c + (nd-2)*(0xfe-0x4c)), G: gb, B: gb}
	}
}

// HSV walks the hue circle at full saturation and value.
func HSV(t float64) mandel.Pixel {
	return hsv(t, 1, 1)
}

// Simple HSV → RGB
func hsv(h, s, v float64) mandel.Pixel {
	h = math.Mod(h, 1)
	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	case 5:
		r, g, b = v, p, q
	}
	return mandel.Pixel{R: uint8(r * 255), G: uint8(g * 255), B: uint8(b * 255)}
}
