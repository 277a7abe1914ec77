package render

import (
	"math"

	mandel "github.com/marben/adaptive_mandel"
	"github.com/marben/adaptive_mandel/jitter"
	"github.com/marben/adaptive_mandel/palette"
)

// Scene is the immutable input shared by every worker and goroutine of a
// render. It must be identical on all workers for their partial images to
// merge into the single-worker result.
type Scene struct {
	Width, Height int
	Mapping       mandel.Mapping
	MaxIter       int
	Colors        *palette.ColorMap
	Jitter        *jitter.Table
	Kernel        mandel.BatchKernel
	Equal         mandel.Equivalence
}

// sampler evaluates colors of sub-pixel samples. It owns scratch buffers
// sized to the kernel width and must not be shared between goroutines.
type sampler struct {
	*Scene
	points  []mandel.ComplexPoint
	iters   []int
	offsets []jitter.Offset
	calls   int64
}

func newSampler(sc *Scene) *sampler {
	w := max(sc.Kernel.Width(), 1)
	return &sampler{
		Scene:  sc,
		points: make([]mandel.ComplexPoint, w),
		iters:  make([]int, w),
	}
}

// add evaluates n samples of pixel (x, y), sample j displaced by offset(j),
// and accumulates their colors.
func (s *sampler) add(acc *accumulator, x, y, n int, offset func(j int) jitter.Offset) {
	w := len(s.points)
	for j := 0; j < n; j += w {
		m := min(w, n-j)
		for l := range m {
			o := offset(j + l)
			s.points[l] = s.Mapping.Point(x, y, o.DX, o.DY)
		}
		s.Kernel.EscapeBatch(s.points[:m], s.MaxIter, s.iters[:m])
		s.calls++
		for l := range m {
			acc.add(s.Colors.Lookup(s.iters[l]))
		}
	}
}

// accumulator keeps running channel sums of one pixel's samples.
type accumulator struct {
	r, g, b int
	n       int
}

func (a *accumulator) add(p mandel.Pixel) {
	a.r += int(p.R)
	a.g += int(p.G)
	a.b += int(p.B)
	a.n++
}

// average rounds half away from zero.
func (a *accumulator) average() mandel.Pixel {
	n := float64(a.n)
	return mandel.Pixel{
		R: uint8(math.Round(float64(a.r) / n)),
		G: uint8(math.Round(float64(a.g) / n)),
		B: uint8(math.Round(float64(a.b) / n)),
	}
}
