package palette

import (
	"errors"
	"fmt"
	"math/bits"

	mandel "github.com/marben/adaptive_mandel"
)

// ErrColorMap reports an impossible color map configuration.
var ErrColorMap = errors.New("invalid color map")

// ColorMap assigns a color to each iteration count below the iteration bound.
// Entry 0 is black and colors every point that never escapes.
// A ColorMap is immutable once built and safe for concurrent use.
type ColorMap struct {
	entries []mandel.Pixel
}

// ColorMapOptions configures NewColorMap.
type ColorMapOptions struct {
	MaxIter int
	// Cycle is the number of distinct colors before the palette repeats.
	// It must be a power of two.
	Cycle   int
	Palette Func
	Reverse bool
}

// NewColorMap builds MaxIter entries; entry i > 0 takes the palette color
// of i & (Cycle-1).
func NewColorMap(opts ColorMapOptions) (*ColorMap, error) {
	if opts.MaxIter < 1 {
		return nil, fmt.Errorf("%w: max iteration %d", ErrColorMap, opts.MaxIter)
	}
	if opts.Cycle < 2 || bits.OnesCount(uint(opts.Cycle)) != 1 {
		return nil, fmt.Errorf("%w: cycle %d is not a power of two", ErrColorMap, opts.Cycle)
	}
	if opts.Palette == nil {
		opts.Palette = Grey
	}

	mask := opts.Cycle - 1
	entries := make([]mandel.Pixel, opts.MaxIter)
	for i := 1; i < opts.MaxIter; i++ {
		data := float64(i & mask)
		if opts.Reverse {
			data = float64(mask - i&mask)
		}
		entries[i] = Palette(opts.Palette, 0, float64(mask), data)
	}
	return &ColorMap{entries: entries}, nil
}

// Len returns the number of entries, equal to the iteration bound.
func (cm *ColorMap) Len() int {
	return len(cm.entries)
}

// Lookup returns the color for an escape count. Counts that reached the
// iteration bound fall onto entry 0.
func (cm *ColorMap) Lookup(iter int) mandel.Pixel {
	if iter < 0 || iter >= len(cm.entries) {
		return cm.entries[0]
	}
	return cm.entries[iter]
}
