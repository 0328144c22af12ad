package effects

import (
	"github.com/cwbudde/algo-vfx/fx/effect"
)

type registryConfig struct {
	smoothing int
	seed      int64
}

// RegistryOption configures the default registry.
type RegistryOption func(*registryConfig)

// WithSmoothing sets the default smoothing window of every registered
// effect.
func WithSmoothing(n int) RegistryOption {
	return func(c *registryConfig) { c.smoothing = n }
}

// WithSeed sets the default random seed of every registered effect.
func WithSeed(seed int64) RegistryOption {
	return func(c *registryConfig) { c.seed = seed }
}

// DefaultRegistry returns a Registry pre-populated with the built-in
// kernels.
func DefaultRegistry(opts ...RegistryOption) *effect.Registry {
	cfg := &registryConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	bake := []effect.BakeOption{effect.WithSmoothing(cfg.smoothing), effect.WithSeed(cfg.seed)}

	r := effect.NewRegistry()
	r.MustRegister(HSVShiftName, func() (effect.Definition, error) {
		s, err := HSVShiftSchema()
		return effect.Definition{Schema: s, Kernel: HSVShift{}, Bake: bake}, err
	})
	r.MustRegister(CrossfadeName, func() (effect.Definition, error) {
		s, err := CrossfadeSchema()
		return effect.Definition{Schema: s, Kernel: &Crossfade{}, Bake: bake}, err
	})
	r.MustRegister(DriftName, func() (effect.Definition, error) {
		s, err := DriftSchema()
		return effect.Definition{Schema: s, Kernel: &Drift{}, Bake: bake}, err
	})
	return r
}
