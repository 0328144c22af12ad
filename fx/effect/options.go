package effect

import (
	"log/slog"

	"github.com/cwbudde/algo-vfx/fx/window"
)

// Option configures an Instance.
type Option func(*Instance)

// WithLogger sets the logger used for lifecycle warnings.
func WithLogger(l *slog.Logger) Option {
	return func(in *Instance) {
		if l != nil {
			in.logger = l
		}
	}
}

// WithDefaultBake sets the bake options used by a lazy bake and prepended to
// every explicit Bake call.
func WithDefaultBake(opts ...BakeOption) Option {
	return func(in *Instance) {
		in.defaults = append(in.defaults, opts...)
	}
}

// BakeOption configures one bake.
type BakeOption func(*bakeConfig)

type bakeConfig struct {
	smoothing int
	kernel    window.Type
	seed      int64
	args      map[string]any
}

func newBakeConfig(opts ...[]BakeOption) bakeConfig {
	cfg := bakeConfig{kernel: window.TypeRectangular, args: make(map[string]any)}
	for _, group := range opts {
		for _, opt := range group {
			opt(&cfg)
		}
	}
	return cfg
}

// WithSmoothing sets the moving average window applied to numeric tracks.
func WithSmoothing(n int) BakeOption {
	return func(c *bakeConfig) {
		c.smoothing = n
	}
}

// WithSmoothingKernel sets the smoothing window shape.
func WithSmoothingKernel(t window.Type) BakeOption {
	return func(c *bakeConfig) {
		c.kernel = t
	}
}

// WithSeed seeds kernels that draw random numbers.
func WithSeed(seed int64) BakeOption {
	return func(c *bakeConfig) {
		c.seed = seed
	}
}

// WithArg passes an effect specific bake argument.
func WithArg(key string, value any) BakeOption {
	return func(c *bakeConfig) {
		c.args[key] = value
	}
}
