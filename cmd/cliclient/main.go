// cliclient renders an image in a single process and saves it.
// With -workers above one it runs the distributed pipeline between
// in-process workers, which produces the same image.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"golang.org/x/sync/errgroup"

	mandel "github.com/marben/adaptive_mandel"
	"github.com/marben/adaptive_mandel/config"
	"github.com/marben/adaptive_mandel/imageio"
	"github.com/marben/adaptive_mandel/render"
)

var (
	configFile = flag.String("f", "", "the config file, defaults apply when empty")
	workers    = flag.Int("workers", 0, "in-process workers, 0 uses the configured count")
	output     = flag.String("o", "", "output file, overrides the config")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run() error {
	render.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg := config.Default()
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			return err
		}
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *output != "" {
		cfg.Output = *output
	}
	format, err := imageio.ParseFormat(cfg.Format, cfg.Output)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	img, err := renderLocal(ctx, cfg)
	if err != nil {
		return err
	}

	if err := imageio.WriteFile(cfg.Output, img, format); err != nil {
		return err
	}
	log.Printf("fully rendered file saved to %q", cfg.Output)
	return nil
}

// renderLocal runs cfg.Workers renderers joined by a LocalGroup and
// returns the image of rank 0. Every rank ends with the same image.
func renderLocal(ctx context.Context, cfg config.Config) (*mandel.Image, error) {
	if cfg.Workers == 1 {
		r, err := cfg.Renderer(render.SinglePlan(), nil)
		if err != nil {
			return nil, err
		}
		img, st, err := r.Render(ctx)
		if err != nil {
			return nil, err
		}
		logStats(0, st)
		return img, nil
	}

	group := render.NewLocalGroup(cfg.Workers, cfg.Width, cfg.Height)
	images := make([]*mandel.Image, cfg.Workers)
	// a failing rank cancels the others out of the group
	g, gctx := errgroup.WithContext(ctx)
	for rank := range cfg.Workers {
		plan, err := render.NewPlan(cfg.Workers, rank)
		if err != nil {
			return nil, err
		}
		r, err := cfg.Renderer(plan, group.Member(rank))
		if err != nil {
			return nil, err
		}
		g.Go(func() error {
			img, st, err := r.Render(gctx)
			if err != nil {
				return fmt.Errorf("rank %d: %w", rank, err)
			}
			logStats(rank, st)
			images[rank] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return images[0], nil
}

func logStats(rank int, st render.Stats) {
	log.Printf("rank %d: %d pixels, %d edges (%d converged, %d capped), %d samples",
		rank, st.Pixels, st.Edges, st.Converged, st.Capped, st.Samples)
}
