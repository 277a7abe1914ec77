package jitter

import (
	"errors"
	"math"
	"testing"
)

func TestTables(t *testing.T) {
	for _, kind := range []Kind{Random, Halton, Hammersley} {
		t.Run(string(kind), func(t *testing.T) {
			tbl, err := New(kind, 1<<10, 42)
			if err != nil {
				t.Fatal(err)
			}
			if tbl.Len() != 1<<10 {
				t.Fatalf("Len = %d", tbl.Len())
			}
			if tbl.At(0) != (Offset{}) {
				t.Errorf("offset 0 = %v, want origin", tbl.At(0))
			}
			for k := range tbl.Len() {
				o := tbl.At(k)
				if o.DX < 0 || o.DX >= 1 || o.DY < 0 || o.DY >= 1 {
					t.Fatalf("offset %d = %v outside [0,1)", k, o)
				}
			}
		})
	}
}

func TestRandomIsSeeded(t *testing.T) {
	a, _ := New(Random, 256, 7)
	b, _ := New(Random, 256, 7)
	c, _ := New(Random, 256, 8)
	same := true
	for k := range 256 {
		if a.At(k) != b.At(k) {
			t.Fatalf("offset %d differs for equal seeds", k)
		}
		if k > 0 && a.At(k) != c.At(k) {
			same = false
		}
	}
	if same {
		t.Error("different seeds produced the same table")
	}
}

func TestHammersleyPrefixes(t *testing.T) {
	tbl, err := New(Hammersley, 64, 0)
	if err != nil {
		t.Fatal(err)
	}
	// every power of two prefix holds DX = i/size for all i exactly once
	for size := 1; size <= 64; size <<= 1 {
		seen := make(map[int]bool, size)
		for k := range size {
			i := tbl.At(k).DX * float64(size)
			if i != math.Trunc(i) {
				t.Fatalf("prefix %d: DX %v not on the grid", size, tbl.At(k).DX)
			}
			seen[int(i)] = true
		}
		if len(seen) != size {
			t.Errorf("prefix %d covers %d columns", size, len(seen))
		}
	}

	if _, err := New(Hammersley, 48, 0); !errors.Is(err, ErrSize) {
		t.Errorf("non power of two err = %v", err)
	}
}

func TestVanDerCorput(t *testing.T) {
	tests := []struct {
		k, radix uint
		want     float64
	}{
		{0, 2, 0},
		{1, 2, 0.5},
		{2, 2, 0.25},
		{3, 2, 0.75},
		{6, 2, 0.375},
		{1, 3, 1.0 / 3},
		{5, 3, 2.0/3 + 1.0/9},
	}
	for _, tt := range tests {
		if got := VanDerCorput(tt.k, tt.radix); math.Abs(got-tt.want) > 1e-15 {
			t.Errorf("VanDerCorput(%d, %d) = %v, want %v", tt.k, tt.radix, got, tt.want)
		}
	}
}

func TestNewRejects(t *testing.T) {
	if _, err := New(Random, 0, 1); !errors.Is(err, ErrSize) {
		t.Errorf("zero size err = %v", err)
	}
	if _, err := New("sobol", 8, 1); err == nil {
		t.Error("unknown kind accepted")
	}
	if _, err := ParseKind("HALTON"); err != nil {
		t.Error(err)
	}
}
