package mandel

import "context"

//go:generate irpc $GOFILE

// Collective is the coordinator's service. Workers of a distributed render
// call it through the generated irpc client.
type Collective interface {
	// Join assigns the caller the next rank and returns its job.
	Join(ctx context.Context) (Job, error)
	// Reduce deposits the pixels rank owns in phase, in index order, and
	// blocks until every rank did. It returns the merged image in raw
	// 3 bytes per pixel layout.
	Reduce(ctx context.Context, phase uint8, rank int, owned []byte) ([]byte, error)
}

// Job assigns a worker its share of a render.
type Job struct {
	Rank    int
	Workers int
	// Config is the JSON encoded render configuration.
	Config []byte
}
