package palette

import (
	"errors"
	"testing"

	mandel "github.com/marben/adaptive_mandel"
)

func TestPaletteRange(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			fn, err := Lookup(name)
			if err != nil {
				t.Fatal(err)
			}
			// must not panic at or beyond the ends
			for _, d := range []float64{-5, 0, 0.5, 1, 7, 15, 16, 100} {
				Palette(fn, 0, 15, d)
			}
		})
	}
}

func TestPaletteReverse(t *testing.T) {
	for _, d := range []float64{0, 3, 9, 15} {
		fwd := Palette(Grey, 0, 15, d)
		rev := Palette(Grey, 15, 0, 15-d)
		if fwd != rev {
			t.Errorf("data %v: forward %v, reversed %v", d, fwd, rev)
		}
	}
	if got := Palette(Grey, 0, 15, 0); got != (mandel.Pixel{}) {
		t.Errorf("grey(0) = %v", got)
	}
	if got := Palette(Grey, 0, 15, 15); got != (mandel.Pixel{R: 255, G: 255, B: 255}) {
		t.Errorf("grey(max) = %v", got)
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup("plaid"); err == nil {
		t.Error("expected error")
	}
	if _, err := Lookup("HSV"); err != nil {
		t.Errorf("case insensitive lookup: %v", err)
	}
}

func TestColorMap(t *testing.T) {
	cm, err := NewColorMap(ColorMapOptions{MaxIter: 64, Cycle: 16, Palette: Grey})
	if err != nil {
		t.Fatal(err)
	}
	if cm.Len() != 64 {
		t.Fatalf("Len = %d", cm.Len())
	}
	if cm.Lookup(0) != mandel.Black {
		t.Error("entry 0 must be black")
	}
	if cm.Lookup(64) != mandel.Black || cm.Lookup(1000) != mandel.Black {
		t.Error("counts at the bound must be black")
	}
	if cm.Lookup(3) != cm.Lookup(3+16) || cm.Lookup(5) != cm.Lookup(5+32) {
		t.Error("palette must repeat every cycle")
	}
	if cm.Lookup(1) == cm.Lookup(2) {
		t.Error("neighboring counts should differ in a grey ramp")
	}
}

func TestColorMapReverse(t *testing.T) {
	fwd, _ := NewColorMap(ColorMapOptions{MaxIter: 32, Cycle: 8, Palette: Standard})
	rev, _ := NewColorMap(ColorMapOptions{MaxIter: 32, Cycle: 8, Palette: Standard, Reverse: true})
	for i := 1; i < 7; i++ {
		if fwd.Lookup(i) != rev.Lookup(7-i) {
			t.Errorf("count %d: %v vs reversed %v", i, fwd.Lookup(i), rev.Lookup(7-i))
		}
	}
}

func TestColorMapValidation(t *testing.T) {
	tests := []ColorMapOptions{
		{MaxIter: 0, Cycle: 16},
		{MaxIter: 64, Cycle: 0},
		{MaxIter: 64, Cycle: 12},
	}
	for _, opts := range tests {
		if _, err := NewColorMap(opts); !errors.Is(err, ErrColorMap) {
			t.Errorf("%+v: err = %v", opts, err)
		}
	}
}
