package mandel

import "strings"

// ComplexPoint is a coordinate in the plane being sampled.
type ComplexPoint struct {
	Re, Im float64
}

// Region within the Mandelbrot set
type Region struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// Viewport returns the smallest viewport that covers the region.
func (r Region) Viewport() Viewport {
	radius := (r.Xmax - r.Xmin) / 2
	if h := (r.Ymax - r.Ymin) / 2; h > radius {
		radius = h
	}
	return Viewport{
		Center: ComplexPoint{Re: (r.Xmin + r.Xmax) / 2, Im: (r.Ymin + r.Ymax) / 2},
		Radius: radius,
	}
}

// Viewport is a view centered on a point; Radius is half of the shorter image side.
type Viewport struct {
	Center ComplexPoint
	Radius float64
}

// Mapping converts pixel coordinates of a width×height image into plane coordinates.
// It stays constant for one render.
type Mapping struct {
	center        ComplexPoint
	d             float64
	halfW, halfH  int
	width, height int
}

// Mapping derives the pixel scale d = 2·radius / min(width, height).
func (v Viewport) Mapping(width, height int) Mapping {
	return Mapping{
		center: v.Center,
		d:      2 * v.Radius / float64(min(width, height)),
		halfW:  width / 2,
		halfH:  height / 2,
		width:  width,
		height: height,
	}
}

// Scale returns the plane distance between two neighboring pixels.
func (m Mapping) Scale() float64 {
	return m.d
}

// Point maps pixel (x, y) displaced by (dx, dy) within the pixel cell.
// The imaginary axis points up while y grows downwards.
func (m Mapping) Point(x, y int, dx, dy float64) ComplexPoint {
	return ComplexPoint{
		Re: m.center.Re + m.d*((float64(x)+dx)-float64(m.halfW)),
		Im: m.center.Im + m.d*(float64(m.halfH)-(float64(y)+dy)),
	}
}

// Classic regions / landmarks in the Mandelbrot set
var (
	// Seahorse Valley – dense filaments and repeating “seahorse” curls
	SeahorseValley = Region{
		Xmin: -0.8,
		Xmax: -0.7,
		Ymin: 0.05,
		Ymax: 0.15,
	}

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = Region{
		Xmin: -1.85,
		Xmax: -1.75,
		Ymin: -0.10,
		Ymax: -0.02,
	}

	// Spiral Minibrot – small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = Region{
		Xmin: -0.7435,
		Xmax: -0.7420,
		Ymin: 0.1310,
		Ymax: 0.1325,
	}

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = Region{
		Xmin: -0.7480,
		Xmax: -0.7450,
		Ymin: 0.0950,
		Ymax: 0.0980,
	}

	// Valley of the Dragon – deep, highly detailed spiral filaments
	ValleyOfTheDragon = Region{
		Xmin: -0.7400,
		Xmax: -0.7350,
		Ymin: 0.1800,
		Ymax: 0.1850,
	}

	// Minibrot in a Mini-Spiral – self-similar Mandelbrot copy inside a spiral arm
	MinibrotInMiniSpiral = Region{
		Xmin: -1.7390,
		Xmax: -1.7375,
		Ymin: -0.0235,
		Ymax: -0.0220,
	}

	// Deep Spiral – a 1e-7 wide window on spiral filaments next to the Spiral Minibrot
	DeepSpiral = Viewport{
		Center: ComplexPoint{Re: -0.74323348754012, Im: 0.13121889397412},
		Radius: 1e-7,
	}

	// Full Set – the whole set
	FullSet = Viewport{
		Center: ComplexPoint{Re: -0.5, Im: 0},
		Radius: 1.5,
	}
)

// Landmarks indexes the classic views by lower-case name.
var Landmarks = map[string]Viewport{
	"seahorse-valley":         SeahorseValley.Viewport(),
	"elephant-valley":         ElephantValley.Viewport(),
	"spiral-minibrot":         SpiralMinibrot.Viewport(),
	"triple-spiral":           TripleSpiral.Viewport(),
	"valley-of-the-dragon":    ValleyOfTheDragon.Viewport(),
	"minibrot-in-mini-spiral": MinibrotInMiniSpiral.Viewport(),
	"deep-spiral":             DeepSpiral,
	"full-set":                FullSet,
}

// Landmark looks a view up by name, case insensitive.
func Landmark(name string) (Viewport, bool) {
	v, ok := Landmarks[strings.ToLower(name)]
	return v, ok
}
