package cluster

import (
	"context"
	"fmt"

	"github.com/coder/websocket"
	"github.com/marben/irpc"

	mandel "github.com/marben/adaptive_mandel"
	"github.com/marben/adaptive_mandel/config"
	"github.com/marben/adaptive_mandel/render"
)

// Member is a worker's connection to the coordinator. It implements
// render.Reducer on top of the Collective irpc client.
type Member struct {
	ep     *irpc.Endpoint
	client *mandel.CollectiveIrpcClient
	job    mandel.Job
	cfg    config.Config
	plan   render.Plan
}

var _ render.Reducer = (*Member)(nil)

// Dial connects to the coordinator at url and joins its render.
func Dial(ctx context.Context, url string) (*Member, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket.Dial %q: %w", url, err)
	}
	conn.SetReadLimit(jobReadLimit)
	ep := irpc.NewEndpoint(websocket.NetConn(context.Background(), conn, websocket.MessageBinary))

	client, err := mandel.NewCollectiveIrpcClient(ep)
	if err != nil {
		ep.Close()
		return nil, fmt.Errorf("mandel.NewCollectiveIrpcClient: %w", err)
	}
	job, err := client.Join(ctx)
	if err != nil {
		ep.Close()
		return nil, fmt.Errorf("join: %w", err)
	}
	cfg, plan, err := jobConfig(job)
	if err != nil {
		ep.Close()
		return nil, err
	}
	conn.SetReadLimit(readLimit(cfg.Width, cfg.Height))

	return &Member{
		ep:     ep,
		client: client,
		job:    job,
		cfg:    cfg,
		plan:   plan,
	}, nil
}

func (m *Member) Job() mandel.Job { return m.job }

// Config is the render configuration the coordinator sent.
func (m *Member) Config() config.Config { return m.cfg }

func (m *Member) Plan() render.Plan { return m.plan }

// Reduce sends the pixels this member owns and replaces img with the
// merged image.
func (m *Member) Reduce(ctx context.Context, ph render.Phase, img *mandel.Image) error {
	if img.Width != m.cfg.Width || img.Height != m.cfg.Height {
		return fmt.Errorf("%w: %s image %dx%d, job %dx%d", render.ErrSizeMismatch, ph,
			img.Width, img.Height, m.cfg.Width, m.cfg.Height)
	}
	rank := m.plan.Rank()
	merged, err := m.client.Reduce(ctx, uint8(ph), rank, m.plan.Partition().Pack(rank, img))
	if err != nil {
		return fmt.Errorf("%s collective: %w", ph, err)
	}
	return img.SetBytes(merged)
}

func (m *Member) Close() error {
	return m.ep.Close()
}

// Work joins the coordinator at url and renders the share of the image the
// job assigns. threads overrides the configured thread count when positive.
func Work(ctx context.Context, url string, threads int) (*mandel.Image, render.Stats, error) {
	m, err := Dial(ctx, url)
	if err != nil {
		return nil, render.Stats{}, err
	}
	defer m.Close()

	cfg := m.Config()
	render.Logger().Info("job received", "rank", m.plan.Rank(), "workers", m.plan.Workers(),
		"size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height))

	if threads > 0 {
		cfg.Threads = threads
	}
	r, err := cfg.Renderer(m.plan, m)
	if err != nil {
		return nil, render.Stats{}, err
	}
	return r.Render(ctx)
}
