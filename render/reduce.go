package render

import (
	"context"
	"fmt"
	"sync"

	mandel "github.com/marben/adaptive_mandel"
)

// Phase names a collective merge point of the pipeline.
type Phase uint8

const (
	// PhaseSketch merges the one-sample sketch before edge detection.
	PhaseSketch Phase = iota + 1
	// PhaseFinal merges the refined image before output.
	PhaseFinal
)

func (ph Phase) String() string {
	switch ph {
	case PhaseSketch:
		return "sketch"
	case PhaseFinal:
		return "final"
	}
	return fmt.Sprintf("phase(%d)", uint8(ph))
}

// Reducer merges the pixels every worker owns into one image. After Reduce
// returns, img holds the merged result on every worker. Reduce blocks until
// all workers of the group reached the same phase.
type Reducer interface {
	Reduce(ctx context.Context, ph Phase, img *mandel.Image) error
}

// Solo is the reducer of a single-worker render; its image is already complete.
type Solo struct{}

func (Solo) Reduce(context.Context, Phase, *mandel.Image) error {
	return nil
}

// LocalGroup runs a collective between workers living in one process.
// Every member deposits the pixels it owns into a shared buffer; the last
// member to arrive publishes the buffer and wakes the others.
//
// A member whose context ends while it waits aborts the group: every
// pending and later Reduce fails with the recorded error.
type LocalGroup struct {
	part   Partition
	width  int
	height int

	mu      sync.Mutex
	cond    *sync.Cond
	arrived int
	gen     int
	pending *mandel.Image
	last    *mandel.Image
	err     error
}

// NewLocalGroup creates a group for a width×height render with workers members.
func NewLocalGroup(workers, width, height int) *LocalGroup {
	g := &LocalGroup{
		part:   Partition{Workers: workers},
		width:  width,
		height: height,
	}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// Member returns the reducer used by the worker with the given rank.
func (g *LocalGroup) Member(rank int) Reducer {
	return &localMember{g: g, rank: rank}
}

type localMember struct {
	g    *LocalGroup
	rank int
}

// abortLocked records the first error and wakes every waiting member.
func (g *LocalGroup) abortLocked(err error) {
	if g.err == nil {
		g.err = err
	}
	g.cond.Broadcast()
}

func (m *localMember) Reduce(ctx context.Context, ph Phase, img *mandel.Image) error {
	g := m.g
	if img.Width != g.width || img.Height != g.height {
		return fmt.Errorf("%w: %s image %dx%d, group %dx%d", ErrSizeMismatch, ph, img.Width, img.Height, g.width, g.height)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.err != nil {
		return g.err
	}
	if err := context.Cause(ctx); err != nil {
		g.abortLocked(fmt.Errorf("rank %d %s collective: %w", m.rank, ph, err))
		return g.err
	}
	if g.pending == nil {
		buf, err := mandel.NewImage(g.width, g.height)
		if err != nil {
			return err
		}
		g.pending = buf
	}
	if err := g.part.Unpack(m.rank, g.part.Pack(m.rank, img), g.pending); err != nil {
		return err
	}

	gen := g.gen
	g.arrived++
	if g.arrived == g.part.Workers {
		g.last, g.pending = g.pending, nil
		g.arrived = 0
		g.gen++
		g.cond.Broadcast()
	}

	stop := context.AfterFunc(ctx, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if gen != g.gen {
			return
		}
		g.abortLocked(fmt.Errorf("rank %d %s collective: %w", m.rank, ph, context.Cause(ctx)))
	})
	defer stop()
	for gen == g.gen && g.err == nil {
		g.cond.Wait()
	}
	if gen == g.gen {
		return g.err
	}
	// the next generation cannot complete before this member arrives again,
	// so last still holds this phase's result
	return img.CopyFrom(g.last)
}
