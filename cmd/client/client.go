package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/google/gops/agent"

	"github.com/marben/adaptive_mandel/cluster"
	"github.com/marben/adaptive_mandel/render"
)

var (
	url     = flag.String("url", "ws://localhost:8080/ws", "coordinator websocket endpoint")
	threads = flag.Int("threads", 0, "render threads, 0 uses the configured count")
	verbose = flag.Bool("v", false, "debug logging")
	gops    = flag.Bool("gops", true, "start the gops diagnostics agent")
)

// main joins a distributed render as one worker.
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

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	render.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Printf("connecting to %s", *url)
	_, st, err := cluster.Work(ctx, *url, *threads)
	if err != nil {
		return fmt.Errorf("cluster.Work: %w", err)
	}
	log.Printf("done: %d edges, %d samples, sketch %s, refine %s, merge %s",
		st.Edges, st.Samples, st.Sketch, st.Refine, st.Merge)
	return nil
}
