package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	mandel "github.com/marben/adaptive_mandel"
	"github.com/marben/adaptive_mandel/kernel"
	"github.com/marben/adaptive_mandel/render"
)

func TestDefaults(t *testing.T) {
	c := Default()
	if c.Width != 1920 || c.Height != 1080 {
		t.Errorf("size = %dx%d", c.Width, c.Height)
	}
	if c.MinSamples != 16 || c.MaxSamples != 65536 {
		t.Errorf("samples = %d..%d", c.MinSamples, c.MaxSamples)
	}
	if c.Refine != "adaptive" || c.Jitter != "random" || c.Equivalence != "perceptual" || c.Kernel != "scalar" {
		t.Errorf("strategies = %s/%s/%s/%s", c.Refine, c.Jitter, c.Equivalence, c.Kernel)
	}
	v, err := c.Viewport()
	if err != nil {
		t.Fatal(err)
	}
	if v != mandel.DeepSpiral {
		t.Errorf("default view = %+v", v)
	}
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte(`
width: 64
height: 48
landmark: seahorse-valley
maxIter: 256
colormapCycle: 32
palette: hsv
refine: mesh
minGrid: 2
maxGrid: 8
kernel: vector
vectorLength: 4
equivalence: perceptual
lumaLimit: 2.5
workers: 3
`))
	if err != nil {
		t.Fatal(err)
	}
	if c.Width != 64 || c.Height != 48 || c.Workers != 3 {
		t.Errorf("parsed %+v", c)
	}
	if _, ok := c.Refiner().(render.Mesh); !ok {
		t.Errorf("refiner = %T", c.Refiner())
	}
	if k, ok := c.BatchKernel().(kernel.Vector); !ok || k.Lanes != 4 {
		t.Errorf("kernel = %#v", c.BatchKernel())
	}
	eq, err := c.Equivalent()
	if err != nil {
		t.Fatal(err)
	}
	if p, ok := eq.(render.Perceptual); !ok || p.LumaLimit != 2.5 || p.ChromaLimit != 4.2 {
		t.Errorf("equivalence = %#v", eq)
	}
	v, _ := c.Viewport()
	if v != mandel.SeahorseValley.Viewport() {
		t.Errorf("view = %+v", v)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero width", "width: 0"},
		{"cycle not power of two", "colormapCycle: 100"},
		{"min samples odd", "minSamples: 3"},
		{"max below min", "minSamples: 32\nmaxSamples: 16"},
		{"unknown landmark", "landmark: atlantis"},
		{"unknown palette", "palette: plaid"},
		{"bad radius", "radius: -1"},
		{"mesh grid", "refine: mesh\nminGrid: 6"},
		{"no workers", "workers: 0"},
		{"zero lanes", "kernel: vector\nvectorLength: 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Error("expected error")
			}
		})
	}

	c := Default()
	c.MaxSamples = 24
	if err := c.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "render.yaml")
	jsonPath := filepath.Join(dir, "render.json")
	if err := os.WriteFile(yamlPath, []byte("width: 32\nheight: 16\njitter: halton\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(jsonPath, []byte(`{"width": 32, "height": 16, "jitter": "halton"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{yamlPath, jsonPath} {
		c, err := Load(path)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if c.Width != 32 || c.Height != 16 || c.Jitter != "halton" {
			t.Errorf("%s: %+v", path, c)
		}
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestSceneIsReproducible(t *testing.T) {
	c := Default()
	c.Width, c.Height = 8, 8
	c.MaxSamples = 1024

	a, err := c.Scene()
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Scene()
	if err != nil {
		t.Fatal(err)
	}
	if a.Jitter.Len() != 1024 {
		t.Fatalf("jitter len = %d", a.Jitter.Len())
	}
	for k := range a.Jitter.Len() {
		if a.Jitter.At(k) != b.Jitter.At(k) {
			t.Fatalf("jitter offset %d differs", k)
		}
	}
	for i := range c.MaxIter {
		if a.Colors.Lookup(i) != b.Colors.Lookup(i) {
			t.Fatalf("color %d differs", i)
		}
	}
}

func TestRendererSmallImage(t *testing.T) {
	c, err := Parse([]byte(`
width: 24
height: 16
landmark: seahorse-valley
maxIter: 256
maxSamples: 64
threads: 2
`))
	if err != nil {
		t.Fatal(err)
	}
	r, err := c.Renderer(render.SinglePlan(), nil)
	if err != nil {
		t.Fatal(err)
	}
	img, st, err := r.Render(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if img.Width != 24 || img.Height != 16 {
		t.Errorf("size = %dx%d", img.Width, img.Height)
	}
	if st.Pixels != 24*16 {
		t.Errorf("pixels = %d", st.Pixels)
	}
}

func TestRefinerByName(t *testing.T) {
	for _, tt := range []struct {
		name string
		mesh bool
	}{
		{"adaptive", false},
		{"mesh", true},
		{"MESH", true},
	} {
		c := Default()
		c.Refine = tt.name
		switch ref := c.Refiner().(type) {
		case render.Mesh:
			if !tt.mesh || ref.MinGrid != c.MinGrid || ref.MaxGrid != c.MaxGrid {
				t.Errorf("%s: refiner = %#v", tt.name, ref)
			}
		case render.Adaptive:
			if tt.mesh || ref.Min != c.MinSamples || ref.Max != c.MaxSamples {
				t.Errorf("%s: refiner = %#v", tt.name, ref)
			}
		default:
			t.Errorf("%s: unexpected refiner %T", tt.name, ref)
		}
	}
}
