package render

import (
	"errors"
	"fmt"

	mandel "github.com/marben/adaptive_mandel"
)

// ErrSizeMismatch is returned when a packed buffer does not match the
// number of pixels a worker owns.
var ErrSizeMismatch = errors.New("partition size mismatch")

// Partition assigns linear pixel indices (y*width + x) to workers by
// stride: worker k owns k, k+P, k+2P, ...
type Partition struct {
	Workers int
}

// Owner returns the worker that owns index i.
func (p Partition) Owner(i int) int {
	return i % p.Workers
}

// Count returns how many of n indices worker rank owns.
func (p Partition) Count(rank, n int) int {
	if rank >= n {
		return 0
	}
	return (n-rank-1)/p.Workers + 1
}

// Each calls fn for every index below n owned by rank, in increasing order.
func (p Partition) Each(rank, n int, fn func(i int)) {
	for i := rank; i < n; i += p.Workers {
		fn(i)
	}
}

// Pack returns the pixels rank owns in index order.
func (p Partition) Pack(rank int, img *mandel.Image) []byte {
	b := make([]byte, 0, p.Count(rank, img.Len())*mandel.PixelSize)
	p.Each(rank, img.Len(), func(i int) {
		px := img.Pix[i]
		b = append(b, px.R, px.G, px.B)
	})
	return b
}

// Unpack writes pixels packed by rank back to the indices rank owns.
// No other index of img is touched.
func (p Partition) Unpack(rank int, data []byte, img *mandel.Image) error {
	if want := p.Count(rank, img.Len()) * mandel.PixelSize; len(data) != want {
		return fmt.Errorf("%w: rank %d sent %d bytes, owns %d", ErrSizeMismatch, rank, len(data), want)
	}
	k := 0
	p.Each(rank, img.Len(), func(i int) {
		img.Pix[i] = mandel.Pixel{R: data[k], G: data[k+1], B: data[k+2]}
		k += mandel.PixelSize
	})
	return nil
}

// Plan binds a worker to its partition. Both render passes read ownership
// from the same Plan so they can never disagree about who owns a pixel.
type Plan struct {
	partition Partition
	rank      int
}

// NewPlan validates rank against workers.
func NewPlan(workers, rank int) (Plan, error) {
	if workers < 1 {
		return Plan{}, fmt.Errorf("worker count %d must be positive", workers)
	}
	if rank < 0 || rank >= workers {
		return Plan{}, fmt.Errorf("rank %d outside [0,%d)", rank, workers)
	}
	return Plan{partition: Partition{Workers: workers}, rank: rank}, nil
}

// SinglePlan is the plan of a render without peers.
func SinglePlan() Plan {
	return Plan{partition: Partition{Workers: 1}}
}

func (pl Plan) Partition() Partition { return pl.partition }
func (pl Plan) Rank() int            { return pl.rank }
func (pl Plan) Workers() int         { return pl.partition.Workers }

// Owned lists the indices below n owned by this plan's worker.
func (pl Plan) Owned(n int) []int {
	owned := make([]int, 0, pl.partition.Count(pl.rank, n))
	pl.partition.Each(pl.rank, n, func(i int) {
		owned = append(owned, i)
	})
	return owned
}

// Combine builds the merged image from per-worker packed buffers,
// parts[k] being the output of Pack for rank k.
func (p Partition) Combine(dst *mandel.Image, parts [][]byte) error {
	if len(parts) != p.Workers {
		return fmt.Errorf("%w: %d parts for %d workers", ErrSizeMismatch, len(parts), p.Workers)
	}
	for rank, data := range parts {
		if err := p.Unpack(rank, data, dst); err != nil {
			return err
		}
	}
	return nil
}
