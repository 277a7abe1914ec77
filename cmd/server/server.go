package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/google/gops/agent"

	"github.com/marben/adaptive_mandel/cluster"
	"github.com/marben/adaptive_mandel/config"
	"github.com/marben/adaptive_mandel/imageio"
	"github.com/marben/adaptive_mandel/render"
)

var (
	configFile = flag.String("f", "etc/render.yaml", "the config file")
	gops       = flag.Bool("gops", true, "start the gops diagnostics agent")
)

// main starts the coordinator of a distributed render.
// All rendering is performed by clients; the server only merges their pixels and writes the image.
func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run() error {
	if *gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			return fmt.Errorf("gops agent: %w", err)
		}
		defer agent.Close()
	}

	render.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}
	format, err := imageio.ParseFormat(cfg.Format, cfg.Output)
	if err != nil {
		return err
	}

	coord, err := cluster.NewCoordinator(cfg)
	if err != nil {
		return err
	}
	srv := cluster.NewServer(cfg.Listen, coord)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("httpServer: %v", err)
		}
	}()
	log.Printf("waiting for %d workers on ws://localhost%s/ws", cfg.Workers, cfg.Listen)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	img, err := coord.Run(ctx)
	if err != nil {
		return fmt.Errorf("coordinator: %w", err)
	}
	log.Printf("render finished in %s", time.Since(start))

	if err := imageio.WriteFile(cfg.Output, img, format); err != nil {
		return err
	}
	log.Printf("fully rendered file saved to %q", cfg.Output)

	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdown)
}
