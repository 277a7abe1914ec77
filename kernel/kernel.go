// Package kernel implements the quadratic escape-time recurrence
// z₀ = p, zₖ₊₁ = zₖ² + p in scalar and lane-batched forms.
//
// Both forms return, for every point, the first count i in [1, maxIter]
// at which |zᵢ₋₁|² >= 4, or maxIter when the orbit stays bounded.
package kernel

import mandel "github.com/marben/adaptive_mandel"

// Bailout is the squared magnitude at which an orbit has escaped.
const Bailout = 4.0

// Scalar evaluates one point at a time.
type Scalar struct{}

var _ mandel.Kernel = Scalar{}

// Escape returns the escape count of p.
// The cross term 2·zr·zi is carried from the previous step, so each
// iteration costs two squarings and one multiplication.
func (Scalar) Escape(p mandel.ComplexPoint, maxIter int) int {
	zr, zi := p.Re, p.Im
	work := 2 * zr * zi

	i := 1
	for ; i < maxIter; i++ {
		zr *= zr
		zi *= zi
		if zr+zi >= Bailout {
			break
		}
		zr += p.Re - zi
		zi = p.Im + work
		work = 2 * zr * zi
	}
	return i
}

// Batch adapts a scalar kernel to the batch contract.
func Batch(k mandel.Kernel) mandel.BatchKernel {
	if bk, ok := k.(mandel.BatchKernel); ok {
		return bk
	}
	return scalarBatch{k}
}

type scalarBatch struct {
	k mandel.Kernel
}

func (b scalarBatch) EscapeBatch(ps []mandel.ComplexPoint, maxIter int, out []int) {
	for i, p := range ps {
		out[i] = b.k.Escape(p, maxIter)
	}
}

func (scalarBatch) Width() int {
	return 1
}
