package render

import (
	"fmt"
	"math"
	"strings"

	mandel "github.com/marben/adaptive_mandel"
)

// Strict treats colors as equivalent only when every channel matches.
type Strict struct{}

func (Strict) Equivalent(p, q mandel.Pixel) bool {
	return p == q
}

// Perceptual compares the absolute channel differences (Δr, Δg, Δb) under
// luma-like and chroma-like weightings. Two colors are equivalent when at
// least one luma weighting stays below LumaLimit and the chroma weighting
// stays below ChromaLimit.
type Perceptual struct {
	Luma        [][3]float64
	LumaLimit   float64
	Chroma      [3]float64
	ChromaLimit float64
}

// DefaultPerceptual uses the BT.601 and BT.709 luma weights and the YIQ
// in-phase chroma weights.
func DefaultPerceptual() Perceptual {
	return Perceptual{
		Luma: [][3]float64{
			{0.299, 0.587, 0.114},
			{0.213, 0.715, 0.072},
		},
		LumaLimit:   1.5,
		Chroma:      [3]float64{0.596, -0.274, -0.322},
		ChromaLimit: 4.2,
	}
}

func (e Perceptual) Equivalent(p, q mandel.Pixel) bool {
	dr, dg, db := delta(p.R, q.R), delta(p.G, q.G), delta(p.B, q.B)
	if math.Abs(e.Chroma[0]*dr+e.Chroma[1]*dg+e.Chroma[2]*db) >= e.ChromaLimit {
		return false
	}
	for _, w := range e.Luma {
		if math.Abs(w[0]*dr+w[1]*dg+w[2]*db) < e.LumaLimit {
			return true
		}
	}
	return false
}

// WeightedSum treats colors as equivalent when the weighted sum of
// absolute channel differences stays below Limit.
type WeightedSum struct {
	Weights [3]int
	Limit   int
}

// DefaultWeightedSum weighs green twice as red and six times as blue.
func DefaultWeightedSum() WeightedSum {
	return WeightedSum{Weights: [3]int{3, 6, 1}, Limit: 15}
}

func (e WeightedSum) Equivalent(p, q mandel.Pixel) bool {
	sum := e.Weights[0]*absDiff(p.R, q.R) +
		e.Weights[1]*absDiff(p.G, q.G) +
		e.Weights[2]*absDiff(p.B, q.B)
	return sum < e.Limit
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func delta(a, b uint8) float64 {
	return float64(absDiff(a, b))
}

// ParseEquivalence returns the default predicate for a name.
func ParseEquivalence(name string) (mandel.Equivalence, error) {
	switch strings.ToLower(name) {
	case "strict":
		return Strict{}, nil
	case "perceptual", "":
		return DefaultPerceptual(), nil
	case "weighted":
		return DefaultWeightedSum(), nil
	}
	return nil, fmt.Errorf("unknown color equivalence %q", name)
}
