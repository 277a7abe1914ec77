// Package jitter builds the per-sample sub-pixel offset tables used for
// supersampling. A table is generated once per render and never modified.
//
// Offset 0 is always (0, 0): it is the pixel's sketch sample, reused as
// the first sample of every refinement.
package jitter

import (
	"errors"
	"fmt"
	"math/bits"
	"math/rand/v2"
	"strings"
)

// ErrSize is returned for table sizes that cannot be generated.
var ErrSize = errors.New("invalid jitter table size")

// Offset is a displacement within a pixel cell, both components in [0, 1).
type Offset struct {
	DX, DY float64
}

// Table is an immutable sequence of offsets.
type Table struct {
	offsets []Offset
}

// Len returns the number of offsets, the maximum sample count per pixel.
func (t *Table) Len() int {
	return len(t.offsets)
}

// At returns offset k.
func (t *Table) At(k int) Offset {
	return t.offsets[k]
}

// Kind selects the generator of a table.
type Kind string

const (
	Random     Kind = "random"
	Halton     Kind = "halton"
	Hammersley Kind = "hammersley"
)

// ParseKind accepts the generator names case insensitively.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(s)); k {
	case Random, Halton, Hammersley:
		return k, nil
	}
	return "", fmt.Errorf("unknown jitter kind %q", s)
}

// New generates a table of n offsets. seed only affects Random tables;
// every process that uses the same kind, n and seed gets the same table.
// Hammersley requires n to be a power of two.
func New(kind Kind, n int, seed uint64) (*Table, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrSize, n)
	}
	var offsets []Offset
	switch kind {
	case Random:
		offsets = random(n, seed)
	case Halton:
		offsets = halton(n)
	case Hammersley:
		if bits.OnesCount(uint(n)) != 1 {
			return nil, fmt.Errorf("%w: hammersley needs a power of two, got %d", ErrSize, n)
		}
		offsets = hammersley(n)
	default:
		return nil, fmt.Errorf("unknown jitter kind %q", kind)
	}
	offsets[0] = Offset{}
	return &Table{offsets: offsets}, nil
}

func random(n int, seed uint64) []Offset {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	offsets := make([]Offset, n)
	for k := range offsets {
		offsets[k] = Offset{DX: rng.Float64(), DY: rng.Float64()}
	}
	return offsets
}

func halton(n int) []Offset {
	offsets := make([]Offset, n)
	for k := range offsets {
		offsets[k] = Offset{DX: VanDerCorput(uint(k), 2), DY: VanDerCorput(uint(k), 3)}
	}
	return offsets
}

// hammersley fills the table in doubling blocks [j, k): every prefix whose
// length is a power of two is itself a Hammersley set of that size, so
// refinement batches keep a low discrepancy at every doubling.
func hammersley(n int) []Offset {
	offsets := make([]Offset, n)
	for j, k := 0, 1; k <= n; j, k = k, k<<1 {
		for i := j; i < k; i++ {
			var dx float64
			if j == 0 {
				dx = float64(i) / float64(k)
			} else {
				dx = float64(2*(i-j)+1) / float64(k)
			}
			offsets[i] = Offset{DX: dx, DY: VanDerCorput(uint(float64(n)*dx), 3)}
		}
	}
	return offsets
}

// VanDerCorput returns element k of the van der Corput sequence in radix.
func VanDerCorput(k, radix uint) float64 {
	var digits []float64
	for base := 1.0; k != 0; k /= radix {
		base *= float64(radix)
		digits = append(digits, float64(k%radix)/base)
	}
	// least significant contributions first
	v := 0.0
	for i := len(digits) - 1; i >= 0; i-- {
		v += digits[i]
	}
	return v
}
