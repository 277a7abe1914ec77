package kernel

import mandel "github.com/marben/adaptive_mandel"

// DefaultLanes is the batch width used when Vector.Lanes is not set.
const DefaultLanes = 8

// Vector evaluates points in groups of Lanes. Every lane carries an active
// flag; an escaped lane keeps its count and is no longer updated. A group
// finishes as soon as no lane is active.
type Vector struct {
	Lanes int
}

var (
	_ mandel.BatchKernel = Vector{}
	_ mandel.Kernel      = Vector{}
)

func (v Vector) Width() int {
	if v.Lanes <= 0 {
		return DefaultLanes
	}
	return v.Lanes
}

// Escape evaluates a single point through a one-lane group.
func (v Vector) Escape(p mandel.ComplexPoint, maxIter int) int {
	var out [1]int
	v.EscapeBatch([]mandel.ComplexPoint{p}, maxIter, out[:])
	return out[0]
}

// EscapeBatch writes the escape count of ps[i] to out[i].
func (v Vector) EscapeBatch(ps []mandel.ComplexPoint, maxIter int, out []int) {
	lanes := v.Width()
	g := newGroup(lanes)
	for k := 0; k < len(ps); k += lanes {
		n := min(lanes, len(ps)-k)
		g.run(ps[k:k+n], maxIter, out[k:k+n])
	}
}

// group holds the per-lane state of one batch.
type group struct {
	zr, zi, work, nrm2 []float64
	active             []bool
}

func newGroup(lanes int) *group {
	return &group{
		zr:     make([]float64, lanes),
		zi:     make([]float64, lanes),
		work:   make([]float64, lanes),
		nrm2:   make([]float64, lanes),
		active: make([]bool, lanes),
	}
}

func (g *group) run(ps []mandel.ComplexPoint, maxIter int, iter []int) {
	for j, p := range ps {
		iter[j] = 1
		g.work[j] = 2 * p.Re * p.Im
		g.zr[j] = p.Re * p.Re
		g.zi[j] = p.Im * p.Im
		g.nrm2[j] = g.zr[j] + g.zi[j]
		g.active[j] = g.nrm2[j] < Bailout
	}

	for i := 2; i <= maxIter; i++ {
		more := false
		for j, p := range ps {
			if !g.active[j] {
				continue
			}
			g.zr[j] += p.Re - g.zi[j]
			g.zi[j] = p.Im + g.work[j]
			g.work[j] = 2 * g.zr[j] * g.zi[j]
			g.zr[j] *= g.zr[j]
			g.zi[j] *= g.zi[j]
			g.nrm2[j] = g.zr[j] + g.zi[j]
			g.active[j] = g.nrm2[j] < Bailout
			iter[j] = i
			more = true
		}
		if !more {
			break
		}
	}
}
