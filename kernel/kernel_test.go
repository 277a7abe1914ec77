package kernel

import (
	"math/rand/v2"
	"testing"

	mandel "github.com/marben/adaptive_mandel"
)

const testMaxIter = 1024

// naiveEscape is the textbook recurrence on complex128.
func naiveEscape(p mandel.ComplexPoint, maxIter int) int {
	c := complex(p.Re, p.Im)
	z := c
	for i := 1; i < maxIter; i++ {
		if real(z)*real(z)+imag(z)*imag(z) >= Bailout {
			return i
		}
		z = z*z + c
	}
	return maxIter
}

func TestScalarEscape(t *testing.T) {
	tests := []struct {
		name string
		p    mandel.ComplexPoint
		want int
	}{
		{"origin never escapes", mandel.ComplexPoint{}, testMaxIter},
		{"period two at -1", mandel.ComplexPoint{Re: -1}, testMaxIter},
		{"period two at i", mandel.ComplexPoint{Im: 1}, testMaxIter},
		{"on the bailout circle", mandel.ComplexPoint{Re: -2}, 1},
		{"outside radius two", mandel.ComplexPoint{Re: 2.5, Im: -1}, 1},
		{"one reaches two", mandel.ComplexPoint{Re: 1}, 2},
		{"one half", mandel.ComplexPoint{Re: 0.5}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Scalar{}).Escape(tt.p, testMaxIter); got != tt.want {
				t.Errorf("Escape(%v) = %d, want %d", tt.p, got, tt.want)
			}
			if got := (Vector{Lanes: 4}).Escape(tt.p, testMaxIter); got != tt.want {
				t.Errorf("Vector.Escape(%v) = %d, want %d", tt.p, got, tt.want)
			}
		})
	}
}

func TestEscapeBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for range 10000 {
		p := mandel.ComplexPoint{Re: rng.Float64()*4 - 2.5, Im: rng.Float64()*4 - 2}
		for _, maxIter := range []int{1, 2, 17, 256} {
			got := (Scalar{}).Escape(p, maxIter)
			if got < 1 || got > max(maxIter, 1) {
				t.Fatalf("Escape(%v, %d) = %d out of range", p, maxIter, got)
			}
		}
	}
}

func TestEscapeIsFirstCrossing(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	checked := 0
	for range 20000 {
		p := mandel.ComplexPoint{Re: rng.Float64()*6 - 3, Im: rng.Float64()*6 - 3}
		want := naiveEscape(p, 16)
		if want >= 16 {
			continue
		}
		checked++
		if got := (Scalar{}).Escape(p, 16); got != want {
			t.Fatalf("Escape(%v) = %d, want %d", p, got, want)
		}
	}
	if checked == 0 {
		t.Fatal("no escaping points sampled")
	}
}

func TestVectorMatchesScalar(t *testing.T) {
	var ps []mandel.ComplexPoint
	for y := range 61 {
		for x := range 83 {
			ps = append(ps, mandel.ComplexPoint{
				Re: -2.2 + 3.0*float64(x)/82,
				Im: -1.3 + 2.6*float64(y)/60,
			})
		}
	}

	for _, lanes := range []int{1, 3, 8, 64} {
		out := make([]int, len(ps))
		Vector{Lanes: lanes}.EscapeBatch(ps, testMaxIter, out)
		for i, p := range ps {
			if want := (Scalar{}).Escape(p, testMaxIter); out[i] != want {
				t.Fatalf("lanes=%d: point %v = %d, scalar %d", lanes, p, out[i], want)
			}
		}
	}
}

func TestBatchAdapter(t *testing.T) {
	if _, ok := Batch(Vector{Lanes: 4}).(Vector); !ok {
		t.Error("Batch should pass batch kernels through")
	}
	bk := Batch(Scalar{})
	if bk.Width() != 1 {
		t.Errorf("Width = %d", bk.Width())
	}
	ps := []mandel.ComplexPoint{{}, {Re: 1}, {Re: 3}}
	out := make([]int, len(ps))
	bk.EscapeBatch(ps, 64, out)
	if out[0] != 64 || out[1] != 2 || out[2] != 1 {
		t.Errorf("out = %v", out)
	}
}

func BenchmarkScalar(b *testing.B) {
	p := mandel.ComplexPoint{Re: -0.74323348754012, Im: 0.13121889397412}
	for b.Loop() {
		(Scalar{}).Escape(p, 4096)
	}
}

func BenchmarkVector8(b *testing.B) {
	ps := make([]mandel.ComplexPoint, 64)
	for i := range ps {
		ps[i] = mandel.ComplexPoint{Re: -0.74323348754012 + float64(i)*1e-9, Im: 0.13121889397412}
	}
	out := make([]int, len(ps))
	for b.Loop() {
		Vector{Lanes: 8}.EscapeBatch(ps, 4096, out)
	}
}
