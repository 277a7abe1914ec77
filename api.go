package mandel

// Kernel evaluates the escape-time recurrence for a single point.
type Kernel interface {
	Escape(p ComplexPoint, maxIter int) int
}

// BatchKernel evaluates the recurrence for many points at once.
// out must be at least as long as ps; out[i] receives the count for ps[i].
// Accelerator backends plug in behind this contract.
type BatchKernel interface {
	EscapeBatch(ps []ComplexPoint, maxIter int, out []int)
	// Width is the preferred number of points per call.
	Width() int
}

// Equivalence decides whether two colors are perceptually the same.
type Equivalence interface {
	Equivalent(p, q Pixel) bool
}
