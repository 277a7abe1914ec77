package render

import (
	"testing"

	mandel "github.com/marben/adaptive_mandel"
)

func TestEquivalence(t *testing.T) {
	base := mandel.Pixel{R: 100, G: 100, B: 100}
	tests := []struct {
		name       string
		q          mandel.Pixel
		strict     bool
		perceptual bool
		weighted   bool
	}{
		{"same", base, true, true, true},
		{"one step grey", mandel.Pixel{R: 101, G: 101, B: 101}, false, true, true},
		{"blue only", mandel.Pixel{R: 100, G: 100, B: 106}, false, true, true},
		{"green jump", mandel.Pixel{R: 100, G: 103, B: 100}, false, false, false},
		{"red shift", mandel.Pixel{R: 108, G: 100, B: 100}, false, false, false},
		{"far", mandel.Pixel{}, false, false, false},
	}
	perceptual := DefaultPerceptual()
	weighted := DefaultWeightedSum()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Strict{}).Equivalent(base, tt.q); got != tt.strict {
				t.Errorf("strict = %v", got)
			}
			if got := perceptual.Equivalent(base, tt.q); got != tt.perceptual {
				t.Errorf("perceptual = %v", got)
			}
			if got := weighted.Equivalent(base, tt.q); got != tt.weighted {
				t.Errorf("weighted = %v", got)
			}
			// symmetric
			if perceptual.Equivalent(base, tt.q) != perceptual.Equivalent(tt.q, base) {
				t.Error("perceptual is not symmetric")
			}
		})
	}
}

func TestPerceptualThresholdsConfigurable(t *testing.T) {
	p := DefaultPerceptual()
	a, b := mandel.Pixel{}, mandel.Pixel{G: 10}
	if p.Equivalent(a, b) {
		t.Fatal("default thresholds should separate a 10 step green change")
	}
	p.LumaLimit = 20
	p.ChromaLimit = 20
	if !p.Equivalent(a, b) {
		t.Error("raised thresholds should accept the change")
	}
}

func TestParseEquivalence(t *testing.T) {
	for _, name := range []string{"strict", "Perceptual", "weighted", ""} {
		if _, err := ParseEquivalence(name); err != nil {
			t.Errorf("%q: %v", name, err)
		}
	}
	if _, err := ParseEquivalence("cielab"); err == nil {
		t.Error("unknown name accepted")
	}
}
