// Package config loads render configurations and turns them into the
// immutable components of a render.
package config

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"

	"github.com/zeromicro/go-zero/core/conf"

	mandel "github.com/marben/adaptive_mandel"
	"github.com/marben/adaptive_mandel/jitter"
	"github.com/marben/adaptive_mandel/palette"
	"github.com/marben/adaptive_mandel/render"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config describes one render. Every worker of a distributed render must
// use the same Config; the coordinator ships it to workers verbatim.
type Config struct {
	Width  int `json:"width,default=1920"`
	Height int `json:"height,default=1080"`

	// Landmark names a view from mandel.Landmarks and overrides the center
	// and radius below.
	Landmark string  `json:"landmark,optional"`
	CenterRe float64 `json:"centerRe,default=-0.74323348754012"`
	CenterIm float64 `json:"centerIm,default=0.13121889397412"`
	Radius   float64 `json:"radius,default=1e-7"`

	MaxIter         int    `json:"maxIter,default=65536"`
	ColormapCycle   int    `json:"colormapCycle,default=512"`
	Palette         string `json:"palette,default=standard"`
	ReverseColormap bool   `json:"reverseColormap,optional"`

	Refine     string `json:"refine,default=adaptive,options=adaptive|mesh"`
	MinSamples int    `json:"minSamples,default=16"`
	MaxSamples int    `json:"maxSamples,default=65536"`
	MinGrid    int    `json:"minGrid,default=4"`
	MaxGrid    int    `json:"maxGrid,default=256"`
	Jitter     string `json:"jitter,default=random,options=random|halton|hammersley"`
	Seed       uint64 `json:"seed,default=1"`

	Equivalence string  `json:"equivalence,default=perceptual,options=perceptual|strict|weighted"`
	LumaLimit   float64 `json:"lumaLimit,default=1.5"`
	ChromaLimit float64 `json:"chromaLimit,default=4.2"`

	Kernel       string `json:"kernel,default=scalar,options=scalar|vector"`
	VectorLength int    `json:"vectorLength,default=8"`
	// Threads per worker; 0 uses GOMAXPROCS.
	Threads int `json:"threads,optional"`

	Workers int    `json:"workers,default=1"`
	Listen  string `json:"listen,default=:8080"`

	Output string `json:"output,default=output.png"`
	Format string `json:"format,optional"`
}

// Load reads a .json or .yaml file.
func Load(path string) (Config, error) {
	var c Config
	if err := conf.Load(path, &c); err != nil {
		return c, fmt.Errorf("conf.Load %q: %w", path, err)
	}
	return c, c.Validate()
}

// Parse reads YAML (a superset of JSON) from memory.
func Parse(data []byte) (Config, error) {
	var c Config
	if err := conf.LoadFromYamlBytes(data, &c); err != nil {
		return c, fmt.Errorf("conf.LoadFromYamlBytes: %w", err)
	}
	return c, c.Validate()
}

// Default returns the configuration of an empty file.
func Default() Config {
	c, err := Parse([]byte("{}"))
	if err != nil {
		panic(fmt.Sprintf("default config: %v", err))
	}
	return c
}

func invalid(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, a...))
}

func powerOfTwo(n int) bool {
	return n > 0 && bits.OnesCount(uint(n)) == 1
}

// Validate checks the configuration without building anything.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return invalid("image size %dx%d", c.Width, c.Height)
	case c.MaxIter < 1:
		return invalid("maxIter %d", c.MaxIter)
	case !powerOfTwo(c.ColormapCycle) || c.ColormapCycle < 2:
		return invalid("colormapCycle %d is not a power of two", c.ColormapCycle)
	case c.Workers < 1:
		return invalid("workers %d", c.Workers)
	case c.Threads < 0:
		return invalid("threads %d", c.Threads)
	case c.LumaLimit <= 0 || c.ChromaLimit <= 0:
		return invalid("equivalence limits %v/%v", c.LumaLimit, c.ChromaLimit)
	}
	if _, err := c.Viewport(); err != nil {
		return err
	}
	if _, err := palette.Lookup(c.Palette); err != nil {
		return invalid("%v", err)
	}
	if _, err := jitter.ParseKind(c.Jitter); err != nil {
		return invalid("%v", err)
	}

	switch strings.ToLower(c.Refine) {
	case "adaptive":
		if c.MinSamples < 2 || !powerOfTwo(c.MinSamples) {
			return invalid("minSamples %d must be a power of two >= 2", c.MinSamples)
		}
		if c.MaxSamples < c.MinSamples || !powerOfTwo(c.MaxSamples) {
			return invalid("maxSamples %d must be a power of two >= minSamples", c.MaxSamples)
		}
	case "mesh":
		if c.MinGrid < 2 || !powerOfTwo(c.MinGrid) {
			return invalid("minGrid %d must be a power of two >= 2", c.MinGrid)
		}
		if c.MaxGrid < c.MinGrid || !powerOfTwo(c.MaxGrid) {
			return invalid("maxGrid %d must be a power of two >= minGrid", c.MaxGrid)
		}
	default:
		return invalid("refine %q", c.Refine)
	}

	switch strings.ToLower(c.Kernel) {
	case "scalar":
	case "vector":
		if c.VectorLength < 1 {
			return invalid("vectorLength %d", c.VectorLength)
		}
	default:
		return invalid("kernel %q", c.Kernel)
	}

	if _, err := render.ParseEquivalence(c.Equivalence); err != nil {
		return invalid("%v", err)
	}
	return nil
}

// Viewport resolves the landmark or the explicit center and radius.
func (c Config) Viewport() (mandel.Viewport, error) {
	if c.Landmark != "" {
		v, ok := mandel.Landmark(c.Landmark)
		if !ok {
			return v, invalid("unknown landmark %q", c.Landmark)
		}
		return v, nil
	}
	if c.Radius <= 0 {
		return mandel.Viewport{}, invalid("radius %v", c.Radius)
	}
	return mandel.Viewport{
		Center: mandel.ComplexPoint{Re: c.CenterRe, Im: c.CenterIm},
		Radius: c.Radius,
	}, nil
}
