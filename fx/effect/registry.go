package effect

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cwbudde/algo-vfx/fx"
)

// Definition is what a factory produces: a schema, a fresh kernel and the
// bake options the effect wants by default.
type Definition struct {
	Schema *Schema
	Kernel Kernel
	Bake   []BakeOption
}

// Factory builds one Definition. It is called once per instance so kernels
// never share state.
type Factory func() (Definition, error)

// Registry maps effect type names to their factories.
type Registry struct {
	factories map[string]Factory
}

var errDuplicateEffect = errors.New("duplicate effect type")

// ErrUnknownEffect is returned when a name has no registered factory.
var ErrUnknownEffect = fmt.Errorf("unknown effect type: %w", fx.ErrNotFound)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory for the given effect type.
func (r *Registry) Register(effectType string, factory Factory) error {
	if effectType == "" {
		return errors.New("empty effect type")
	}
	if factory == nil {
		return errors.New("nil factory")
	}
	if _, exists := r.factories[effectType]; exists {
		return fmt.Errorf("%w: %s", errDuplicateEffect, effectType)
	}
	r.factories[effectType] = factory
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(effectType string, factory Factory) {
	if err := r.Register(effectType, factory); err != nil {
		panic("effect registry: " + err.Error())
	}
}

// Lookup returns the factory for the given effect type, or nil.
func (r *Registry) Lookup(effectType string) Factory {
	return r.factories[effectType]
}

// Names returns the registered effect types in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.factories))
	for name := range r.factories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// New builds an instance of effectType on tl. The definition's bake options
// become the instance defaults, ahead of any WithDefaultBake in opts.
func (r *Registry) New(effectType string, tl Timeline, opts ...Option) (*Instance, error) {
	factory := r.Lookup(effectType)
	if factory == nil {
		return nil, fmt.Errorf("effect: %q: %w", effectType, ErrUnknownEffect)
	}
	def, err := factory()
	if err != nil {
		return nil, fmt.Errorf("effect: build %q: %w", effectType, err)
	}
	all := append([]Option{WithDefaultBake(def.Bake...)}, opts...)
	return New(def.Schema, def.Kernel, tl, all...)
}
