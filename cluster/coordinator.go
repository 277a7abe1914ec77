package cluster

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/marben/irpc"

	mandel "github.com/marben/adaptive_mandel"
	"github.com/marben/adaptive_mandel/config"
	"github.com/marben/adaptive_mandel/render"
)

// hangupTimeout bounds how long Run waits for members to disconnect after
// the final merge.
const hangupTimeout = 5 * time.Second

// Coordinator collects members for one render and merges their output.
// It renders nothing itself.
type Coordinator struct {
	cfg  config.Config
	part render.Partition
	img  *mandel.Image
	ln   *wsListener
	rpc  *irpc.Server

	m        sync.Mutex
	reserved int
	joined   int
	next     []render.Phase // phase each rank reduces next
	rounds   map[render.Phase]*round
	phase    render.Phase
	done     bool
	err      error
	members  []*irpc.Endpoint
	exit     chan struct{} // closed once done or err is set
}

var _ mandel.Collective = (*Coordinator)(nil)

// round gathers the owned pixels of every rank for one phase.
type round struct {
	parts   [][]byte
	arrived int
	start   time.Time
	done    chan struct{}
	merged  []byte
}

// Status is a snapshot of the coordinator's progress.
type Status struct {
	Workers int    `json:"workers"`
	Joined  int    `json:"joined"`
	Phase   string `json:"phase"`
	Done    bool   `json:"done"`
}

func NewCoordinator(cfg config.Config) (*Coordinator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	img, err := mandel.NewImage(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	c := &Coordinator{
		cfg:    cfg,
		part:   render.Partition{Workers: cfg.Workers},
		img:    img,
		ln:     newWSListener(cfg.Listen + "/ws"),
		next:   make([]render.Phase, cfg.Workers),
		rounds: make(map[render.Phase]*round),
		exit:   make(chan struct{}),
	}
	for _, ph := range []render.Phase{render.PhaseSketch, render.PhaseFinal} {
		c.rounds[ph] = &round{
			parts: make([][]byte, cfg.Workers),
			done:  make(chan struct{}),
		}
	}

	// every accepted connection holds a member slot, see reserve
	c.rpc = irpc.NewServer(
		irpc.WithOnConnect(c.attach),
		irpc.WithServices(mandel.NewCollectiveIrpcService(c)),
	)
	return c, nil
}

func (c *Coordinator) Status() Status {
	c.m.Lock()
	defer c.m.Unlock()
	st := Status{Workers: c.cfg.Workers, Joined: c.joined, Done: c.done, Phase: "joining"}
	if c.phase != 0 {
		st.Phase = c.phase.String()
	}
	return st
}

// reserve claims a member slot for a connection about to be accepted.
func (c *Coordinator) reserve() bool {
	c.m.Lock()
	defer c.m.Unlock()
	if c.done || c.err != nil || c.reserved == c.cfg.Workers {
		return false
	}
	c.reserved++
	return true
}

func (c *Coordinator) release() {
	c.m.Lock()
	c.reserved--
	c.m.Unlock()
}

// attach runs for every member endpoint until it closes. A member leaving
// before the final merge aborts the render.
func (c *Coordinator) attach(ep *irpc.Endpoint) {
	c.m.Lock()
	c.members = append(c.members, ep)
	c.m.Unlock()
	render.Logger().Debug("member connected", "remote", fmt.Sprint(ep.RemoteAddr()))

	<-ep.Context().Done()

	c.m.Lock()
	defer c.m.Unlock()
	if !c.done {
		c.abortLocked(fmt.Errorf("member %v left: %w", ep.RemoteAddr(), context.Cause(ep.Context())))
	}
}

func (c *Coordinator) abort(err error) {
	c.m.Lock()
	c.abortLocked(err)
	c.m.Unlock()
}

func (c *Coordinator) abortLocked(err error) {
	if c.done || c.err != nil {
		return
	}
	c.err = err
	close(c.exit)
	render.Logger().Error("render aborted", "err", err)
}

// Join assigns ranks in the order members call it.
func (c *Coordinator) Join(_ context.Context) (mandel.Job, error) {
	c.m.Lock()
	defer c.m.Unlock()
	if c.err != nil {
		return mandel.Job{}, c.err
	}
	if c.done || c.joined == c.cfg.Workers {
		return mandel.Job{}, ErrFull
	}
	job, err := newJob(c.joined, c.cfg)
	if err != nil {
		return mandel.Job{}, err
	}
	c.next[c.joined] = render.PhaseSketch
	c.joined++

	render.Logger().Info("member joined", "rank", job.Rank, "workers", c.joined, "of", c.cfg.Workers)
	return job, nil
}

// Reduce deposits the pixels rank owns in phase and waits until every rank
// did. The last rank to arrive merges the image.
func (c *Coordinator) Reduce(ctx context.Context, phase uint8, rank int, owned []byte) ([]byte, error) {
	c.m.Lock()
	r, err := c.depositLocked(render.Phase(phase), rank, owned)
	c.m.Unlock()
	if err != nil {
		return nil, err
	}

	select {
	case <-r.done:
	case <-c.exit:
	case <-ctx.Done():
		return nil, context.Cause(ctx)
	}

	c.m.Lock()
	defer c.m.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	return r.merged, nil
}

func (c *Coordinator) depositLocked(ph render.Phase, rank int, owned []byte) (*round, error) {
	if c.err != nil {
		return nil, c.err
	}
	if rank < 0 || rank >= c.joined {
		return nil, fmt.Errorf("%w: rank %d has not joined", ErrProtocol, rank)
	}
	r, ok := c.rounds[ph]
	if !ok || ph != c.next[rank] {
		c.abortLocked(fmt.Errorf("%w: rank %d reduced %s, expected %s", ErrProtocol, rank, ph, c.next[rank]))
		return nil, c.err
	}
	if want := c.part.Count(rank, c.img.Len()) * mandel.PixelSize; len(owned) != want {
		c.abortLocked(fmt.Errorf("%w: rank %d sent %d bytes in %s, owns %d", render.ErrSizeMismatch, rank, len(owned), ph, want))
		return nil, c.err
	}

	if r.arrived == 0 {
		r.start = time.Now()
	}
	r.parts[rank] = owned
	r.arrived++
	c.next[rank]++
	c.phase = max(c.phase, ph)
	if r.arrived < c.cfg.Workers {
		return r, nil
	}

	if err := c.part.Combine(c.img, r.parts); err != nil {
		c.abortLocked(fmt.Errorf("%s merge: %w", ph, err))
		return nil, c.err
	}
	r.merged, r.parts = c.img.Bytes(), nil
	close(r.done)
	render.Logger().Info("collective done", "phase", ph, "elapsed", time.Since(r.start))

	if ph == render.PhaseFinal {
		c.done = true
		close(c.exit)
	}
	return r, nil
}

// Run serves members until the final merge and returns the merged image.
// Members are disconnected when Run returns.
func (c *Coordinator) Run(ctx context.Context) (*mandel.Image, error) {
	log := render.Logger()
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- c.rpc.Serve(c.ln)
	}()
	defer func() {
		c.ln.Close()
		if err := c.rpc.Close(); err != nil {
			log.Debug("close irpc server", "err", err)
		}
	}()

	select {
	case <-c.exit:
	case err := <-serveErr:
		c.abort(fmt.Errorf("irpc serve: %w", err))
		return nil, err
	case <-ctx.Done():
		c.abort(context.Cause(ctx))
		return nil, context.Cause(ctx)
	}

	c.m.Lock()
	err := c.err
	members := slices.Clone(c.members)
	c.m.Unlock()
	if err != nil {
		return nil, err
	}

	// members hang up once they hold the final image
	timeout := time.NewTimer(hangupTimeout)
	defer timeout.Stop()
	for _, ep := range members {
		select {
		case <-ep.Context().Done():
		case <-timeout.C:
			log.Warn("members still connected", "after", hangupTimeout)
			return c.img, nil
		case <-ctx.Done():
			return c.img, nil
		}
	}
	return c.img, nil
}
