package config

import (
	"fmt"
	"strings"

	mandel "github.com/marben/adaptive_mandel"
	"github.com/marben/adaptive_mandel/jitter"
	"github.com/marben/adaptive_mandel/kernel"
	"github.com/marben/adaptive_mandel/palette"
	"github.com/marben/adaptive_mandel/render"
)

// Refiner returns the refinement strategy.
func (c Config) Refiner() render.Refiner {
	if strings.EqualFold(c.Refine, "mesh") {
		return render.Mesh{MinGrid: c.MinGrid, MaxGrid: c.MaxGrid}
	}
	return render.Adaptive{Min: c.MinSamples, Max: c.MaxSamples}
}

// BatchKernel returns the escape kernel in its batch form.
func (c Config) BatchKernel() mandel.BatchKernel {
	if strings.EqualFold(c.Kernel, "vector") {
		return kernel.Vector{Lanes: c.VectorLength}
	}
	return kernel.Batch(kernel.Scalar{})
}

// Equivalent returns the color equivalence predicate with the configured limits.
func (c Config) Equivalent() (mandel.Equivalence, error) {
	eq, err := render.ParseEquivalence(c.Equivalence)
	if err != nil {
		return nil, err
	}
	if p, ok := eq.(render.Perceptual); ok {
		p.LumaLimit = c.LumaLimit
		p.ChromaLimit = c.ChromaLimit
		return p, nil
	}
	return eq, nil
}

// Scene builds the color map, jitter table and strategies shared by all
// workers. Building is deterministic: equal configs give equal scenes.
func (c Config) Scene() (render.Scene, error) {
	if err := c.Validate(); err != nil {
		return render.Scene{}, err
	}
	view, err := c.Viewport()
	if err != nil {
		return render.Scene{}, err
	}

	fn, err := palette.Lookup(c.Palette)
	if err != nil {
		return render.Scene{}, err
	}
	colors, err := palette.NewColorMap(palette.ColorMapOptions{
		MaxIter: c.MaxIter,
		Cycle:   c.ColormapCycle,
		Palette: fn,
		Reverse: c.ReverseColormap,
	})
	if err != nil {
		return render.Scene{}, fmt.Errorf("color map: %w", err)
	}

	kind, err := jitter.ParseKind(c.Jitter)
	if err != nil {
		return render.Scene{}, err
	}
	// mesh refinement places its own samples; the sketch only needs offset 0
	size := 1
	if _, ok := c.Refiner().(render.Adaptive); ok {
		size = c.MaxSamples
	}
	tbl, err := jitter.New(kind, size, c.Seed)
	if err != nil {
		return render.Scene{}, fmt.Errorf("jitter table: %w", err)
	}

	eq, err := c.Equivalent()
	if err != nil {
		return render.Scene{}, err
	}

	return render.Scene{
		Width:   c.Width,
		Height:  c.Height,
		Mapping: view.Mapping(c.Width, c.Height),
		MaxIter: c.MaxIter,
		Colors:  colors,
		Jitter:  tbl,
		Kernel:  c.BatchKernel(),
		Equal:   eq,
	}, nil
}

// Renderer builds the renderer of one worker. A nil reducer is only valid
// for a single worker plan.
func (c Config) Renderer(plan render.Plan, reducer render.Reducer) (*render.Renderer, error) {
	sc, err := c.Scene()
	if err != nil {
		return nil, err
	}
	return render.NewRenderer(render.Options{
		Scene:   sc,
		Refiner: c.Refiner(),
		Plan:    &plan,
		Reducer: reducer,
		Threads: c.Threads,
	})
}
