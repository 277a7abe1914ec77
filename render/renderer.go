// Package render implements the adaptive anti-aliasing pipeline: a one
// sample per pixel sketch, edge detection on the merged sketch, and
// supersampling of edge pixels only.
//
// Work is split twice. Pixels are partitioned by stride between workers
// (processes or in-process members), and each worker spreads the pixels it
// owns over goroutines. Workers exchange their pixels through a Reducer
// after the sketch and after refinement.
package render

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	mandel "github.com/marben/adaptive_mandel"
)

// chunkSize is the number of owned pixels a goroutine takes at once.
const chunkSize = 512

// Stats summarizes one worker's share of a render.
type Stats struct {
	Pixels    int64 // owned pixels
	Edges     int64 // owned pixels flagged as edges
	Converged int64 // edges whose averages converged
	Capped    int64 // edges that hit the sample cap
	Samples   int64 // samples spent on edges, sketch samples included
	Batches   int64 // kernel calls made while refining

	Sketch time.Duration
	Refine time.Duration
	Merge  time.Duration
}

// Renderer runs the pipeline for one worker.
type Renderer struct {
	scene   Scene
	refiner Refiner
	plan    Plan
	reducer Reducer
	threads int
}

// Options configures a Renderer.
type Options struct {
	Scene   Scene
	Refiner Refiner
	// Plan defaults to a single worker plan.
	Plan *Plan
	// Reducer defaults to Solo; it is required when Plan has peers.
	Reducer Reducer
	// Threads defaults to GOMAXPROCS.
	Threads int
}

// NewRenderer validates the options.
func NewRenderer(opts Options) (*Renderer, error) {
	sc := opts.Scene
	switch {
	case sc.Width <= 0 || sc.Height <= 0:
		return nil, fmt.Errorf("image size %dx%d", sc.Width, sc.Height)
	case sc.MaxIter < 1:
		return nil, fmt.Errorf("max iteration %d", sc.MaxIter)
	case sc.Colors == nil || sc.Jitter == nil || sc.Kernel == nil || sc.Equal == nil:
		return nil, errors.New("scene needs colors, jitter, kernel and equivalence")
	case opts.Refiner == nil:
		return nil, errors.New("no refiner")
	}
	if v, ok := opts.Refiner.(validator); ok {
		if err := v.validate(); err != nil {
			return nil, err
		}
	}
	if _, ok := opts.Refiner.(Adaptive); ok && opts.Refiner.MaxSamples() > sc.Jitter.Len() {
		return nil, fmt.Errorf("max samples %d exceed jitter table of %d", opts.Refiner.MaxSamples(), sc.Jitter.Len())
	}

	plan := SinglePlan()
	if opts.Plan != nil {
		plan = *opts.Plan
	}
	reducer := opts.Reducer
	if reducer == nil {
		if plan.Workers() > 1 {
			return nil, fmt.Errorf("plan for %d workers needs a reducer", plan.Workers())
		}
		reducer = Solo{}
	}
	threads := opts.Threads
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}

	return &Renderer{
		scene:   sc,
		refiner: opts.Refiner,
		plan:    plan,
		reducer: reducer,
		threads: threads,
	}, nil
}

// Render produces the merged image. Every worker of the plan must call
// Render with the same scene; each returns the same merged image.
func (r *Renderer) Render(ctx context.Context) (*mandel.Image, Stats, error) {
	log := Logger().With("rank", r.plan.Rank(), "workers", r.plan.Workers())
	var st Stats

	sketch, err := mandel.NewImage(r.scene.Width, r.scene.Height)
	if err != nil {
		return nil, st, fmt.Errorf("sketch: %w", err)
	}
	img, err := mandel.NewImage(r.scene.Width, r.scene.Height)
	if err != nil {
		return nil, st, fmt.Errorf("image: %w", err)
	}

	start := time.Now()
	if err := r.Sketch(ctx, sketch); err != nil {
		return nil, st, err
	}
	st.Sketch = time.Since(start)
	log.Info("sketch done", "elapsed", st.Sketch)

	start = time.Now()
	if err := r.reducer.Reduce(ctx, PhaseSketch, sketch); err != nil {
		return nil, st, fmt.Errorf("reduce %s: %w", PhaseSketch, err)
	}
	st.Merge = time.Since(start)

	start = time.Now()
	rst, err := r.Refine(ctx, sketch, img)
	if err != nil {
		return nil, st, err
	}
	rst.Sketch, rst.Merge = st.Sketch, st.Merge
	st = rst
	st.Refine = time.Since(start)
	log.Info("refine done", "elapsed", st.Refine, "edges", st.Edges, "samples", st.Samples, "capped", st.Capped)

	start = time.Now()
	if err := r.reducer.Reduce(ctx, PhaseFinal, img); err != nil {
		return nil, st, fmt.Errorf("reduce %s: %w", PhaseFinal, err)
	}
	st.Merge += time.Since(start)
	log.Info("render done", "merge", st.Merge)

	return img, st, nil
}

// Sketch evaluates one sample, at jitter offset 0, for every owned pixel.
// Pixels owned by other workers are left untouched.
func (r *Renderer) Sketch(ctx context.Context, sketch *mandel.Image) error {
	sc := &r.scene
	o := sc.Jitter.At(0)
	return r.each(ctx, func(part []int) error {
		s := newSampler(sc)
		w := len(s.points)
		for k := 0; k < len(part); k += w {
			m := min(w, len(part)-k)
			for l := range m {
				i := part[k+l]
				s.points[l] = sc.Mapping.Point(i%sc.Width, i/sc.Width, o.DX, o.DY)
			}
			sc.Kernel.EscapeBatch(s.points[:m], sc.MaxIter, s.iters[:m])
			for l := range m {
				sketch.Pix[part[k+l]] = sc.Colors.Lookup(s.iters[l])
			}
		}
		return nil
	})
}

// Refine writes the final color of every owned pixel of img: flat pixels
// keep their sketch color, edge pixels are supersampled. sketch must
// already be merged, since edge detection reads neighbors of other workers.
func (r *Renderer) Refine(ctx context.Context, sketch, img *mandel.Image) (Stats, error) {
	sc := &r.scene
	var st Stats
	var edges, converged, capped, samples, batches atomic.Int64

	err := r.each(ctx, func(part []int) error {
		s := newSampler(sc)
		var e, c, cp, n int64
		for _, i := range part {
			x, y := i%sc.Width, i/sc.Width
			edge, center := DetectEdge(sketch, sc.Equal, x, y)
			if !edge {
				img.Pix[i] = center
				continue
			}
			res := r.refiner.refine(s, x, y, center)
			img.Pix[i] = res.Color
			e++
			n += int64(res.Samples)
			if res.Converged {
				c++
			} else {
				cp++
			}
		}
		edges.Add(e)
		converged.Add(c)
		capped.Add(cp)
		samples.Add(n)
		batches.Add(s.calls)
		return nil
	})
	if err != nil {
		return st, err
	}

	st.Pixels = int64(r.plan.Partition().Count(r.plan.Rank(), sc.Width*sc.Height))
	st.Edges = edges.Load()
	st.Converged = converged.Load()
	st.Capped = capped.Load()
	st.Samples = samples.Load()
	st.Batches = batches.Load()
	return st, nil
}

// RefinePixel refines a single pixel regardless of its edge flag.
func (r *Renderer) RefinePixel(x, y int, seed mandel.Pixel) Sample {
	return r.refiner.refine(newSampler(&r.scene), x, y, seed)
}

// each hands the owned indices to fn in chunks spread over r.threads
// goroutines. Chunks never overlap, so fn may write its pixels without locks.
func (r *Renderer) each(ctx context.Context, fn func(part []int) error) error {
	owned := r.plan.Owned(r.scene.Width * r.scene.Height)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.threads)
	for k := 0; k < len(owned); k += chunkSize {
		if gctx.Err() != nil {
			break
		}
		part := owned[k:min(k+chunkSize, len(owned))]
		g.Go(func() error {
			return fn(part)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
