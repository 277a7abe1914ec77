package render

import (
	"fmt"
	"math/bits"

	mandel "github.com/marben/adaptive_mandel"
	"github.com/marben/adaptive_mandel/jitter"
)

// Sample is the outcome of refining one pixel.
type Sample struct {
	Color mandel.Pixel
	// Samples is the number of samples the final color averages,
	// the sketch sample included.
	Samples   int
	Converged bool
}

// Refiner supersamples a pixel flagged as an edge. seed is the pixel's
// sketch color, which is its first sample.
//
// The set of refiners is closed: refine draws samples through the
// renderer's internal sampler, so only Adaptive and Mesh implement it.
// Pick one by name with config.Config.Refiner.
type Refiner interface {
	refine(s *sampler, x, y int, seed mandel.Pixel) Sample
	// MaxSamples bounds the samples spent on one pixel.
	MaxSamples() int
}

var (
	_ Refiner = Adaptive{}
	_ Refiner = Mesh{}
)

// Adaptive refines with progressively doubled jittered sample batches:
// 1, Min, 2·Min, ... up to Max samples. It stops as soon as two successive
// averages are equivalent. Sample k is displaced by jitter offset k, so the
// scene's jitter table needs at least Max entries.
type Adaptive struct {
	Min, Max int
}

func (a Adaptive) MaxSamples() int {
	return a.Max
}

func (a Adaptive) validate() error {
	if a.Min < 2 || bits.OnesCount(uint(a.Min)) != 1 {
		return fmt.Errorf("min samples %d must be a power of two >= 2", a.Min)
	}
	if a.Max < a.Min || bits.OnesCount(uint(a.Max)) != 1 {
		return fmt.Errorf("max samples %d must be a power of two >= min samples %d", a.Max, a.Min)
	}
	return nil
}

func (a Adaptive) refine(s *sampler, x, y int, seed mandel.Pixel) Sample {
	acc := accumulator{}
	acc.add(seed)

	avg := seed
	m, n := 1, a.Min
	for {
		prev := avg
		from := m
		s.add(&acc, x, y, n-m, func(j int) jitter.Offset {
			return s.Jitter.At(from + j)
		})
		avg = acc.average()

		if s.Equal.Equivalent(avg, prev) {
			return Sample{Color: avg, Samples: n, Converged: true}
		}
		if n<<1 > a.Max {
			return Sample{Color: avg, Samples: n}
		}
		m, n = n, n<<1
	}
}

// Mesh refines on regular sub-grids of MinGrid², then (2·MinGrid)², ...
// up to MaxGrid² points. Each finer grid reuses the points of the coarser
// one and only evaluates points with an odd grid coordinate.
type Mesh struct {
	MinGrid, MaxGrid int
}

func (g Mesh) MaxSamples() int {
	return g.MaxGrid * g.MaxGrid
}

func (g Mesh) validate() error {
	if g.MinGrid < 2 || bits.OnesCount(uint(g.MinGrid)) != 1 {
		return fmt.Errorf("min grid %d must be a power of two >= 2", g.MinGrid)
	}
	if g.MaxGrid < g.MinGrid || bits.OnesCount(uint(g.MaxGrid)) != 1 {
		return fmt.Errorf("max grid %d must be a power of two >= min grid %d", g.MaxGrid, g.MinGrid)
	}
	return nil
}

func (g Mesh) refine(s *sampler, x, y int, seed mandel.Pixel) Sample {
	acc := accumulator{}
	acc.add(seed)

	avg := seed
	for ngrid := g.MinGrid; ngrid <= g.MaxGrid; ngrid <<= 1 {
		prev := avg
		s.offsets = s.offsets[:0]
		for k := 1; k < ngrid*ngrid; k++ {
			i, j := k%ngrid, k/ngrid
			if (i|j)&1 != 0 || ngrid == g.MinGrid {
				s.offsets = append(s.offsets, jitter.Offset{
					DX: float64(i) / float64(ngrid),
					DY: float64(j) / float64(ngrid),
				})
			}
		}
		s.add(&acc, x, y, len(s.offsets), func(j int) jitter.Offset {
			return s.offsets[j]
		})
		avg = acc.average()

		if s.Equal.Equivalent(avg, prev) {
			return Sample{Color: avg, Samples: ngrid * ngrid, Converged: true}
		}
	}
	return Sample{Color: avg, Samples: acc.n}
}

type validator interface {
	validate() error
}
