// Package cluster runs a render across processes connected by websockets.
//
// The coordinator serves the mandel.Collective irpc service. A member joins
// to learn its rank and the render configuration, renders its share and
// calls Reduce at the two merge points of the pipeline. Reduce returns once
// every member deposited its pixels, with the merged image.
package cluster

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"

	mandel "github.com/marben/adaptive_mandel"
	"github.com/marben/adaptive_mandel/config"
	"github.com/marben/adaptive_mandel/render"
)

var (
	// ErrProtocol is returned when a member calls out of turn.
	ErrProtocol = errors.New("cluster protocol error")
	// ErrFull is returned to members joining a render that has all its workers.
	ErrFull = errors.New("render is full")
)

// jobReadLimit bounds the messages a member reads before it knows the
// image size.
const jobReadLimit = 1 << 20

// rpcSlack covers irpc framing around a pixel payload.
const rpcSlack = 4096

// readLimit is the largest websocket message of a width×height render:
// a full image plus framing.
func readLimit(width, height int) int64 {
	return int64(width)*int64(height)*mandel.PixelSize + rpcSlack
}

func newJob(rank int, cfg config.Config) (mandel.Job, error) {
	b, err := sonic.Marshal(cfg)
	if err != nil {
		return mandel.Job{}, fmt.Errorf("sonic.Marshal: %w", err)
	}
	return mandel.Job{Rank: rank, Workers: cfg.Workers, Config: b}, nil
}

// jobConfig decodes and checks the configuration carried by job.
func jobConfig(job mandel.Job) (config.Config, render.Plan, error) {
	var cfg config.Config
	if err := sonic.Unmarshal(job.Config, &cfg); err != nil {
		return cfg, render.Plan{}, fmt.Errorf("%w: decode job: %v", ErrProtocol, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, render.Plan{}, fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	if job.Workers != cfg.Workers {
		return cfg, render.Plan{}, fmt.Errorf("%w: job for %d workers, config says %d", ErrProtocol, job.Workers, cfg.Workers)
	}
	plan, err := render.NewPlan(job.Workers, job.Rank)
	if err != nil {
		return cfg, render.Plan{}, fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	return cfg, plan, nil
}
