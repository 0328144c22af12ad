package scene

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/cwbudde/algo-vfx/fx/effect"
	"github.com/cwbudde/algo-vfx/fx/effects"
	"github.com/cwbudde/algo-vfx/fx/layer"
	"github.com/cwbudde/algo-vfx/fx/raster"
	"github.com/cwbudde/algo-vfx/fx/render"
	"github.com/cwbudde/algo-vfx/fx/source"
	"github.com/cwbudde/algo-vfx/fx/waypoint"
	"github.com/cwbudde/algo-vfx/fx/window"
)

// Built is a scene turned into live objects, ready to render.
type Built struct {
	Name       string
	Compositor *layer.Compositor
	Clock      *render.Clock
	Effects    []*effect.Instance
	Background *raster.Raster // nil when the scene names none
}

// BuildOption configures [Build].
type BuildOption func(*buildConfig)

type buildConfig struct {
	logger   *slog.Logger
	registry *effect.Registry
	bake     []effect.BakeOption
}

// WithLogger sets the logger handed to every effect.
func WithLogger(l *slog.Logger) BuildOption {
	return func(c *buildConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRegistry replaces the built-in effect registry.
func WithRegistry(r *effect.Registry) BuildOption {
	return func(c *buildConfig) { c.registry = r }
}

// WithBake sets bake options applied to every effect before its own scene
// settings.
func WithBake(opts ...effect.BakeOption) BuildOption {
	return func(c *buildConfig) { c.bake = append(c.bake, opts...) }
}

// Build opens every clip, stacks them, and creates and bakes the effects.
func Build(s *Scene, opts ...BuildOption) (*Built, error) {
	cfg := buildConfig{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.registry == nil {
		cfg.registry = effects.DefaultRegistry()
	}

	domain := raster.Uint8
	if s.Domain == "float" {
		domain = raster.Float
	}

	b := &Built{Name: s.Name, Compositor: layer.New(s.Name)}
	clips := make(map[string]layer.Clip, len(s.Clips))

	for _, c := range s.Clips {
		clip, err := s.openClip(c, domain)
		if err != nil {
			return nil, fmt.Errorf("scene: clip %q: %w", c.Name, err)
		}

		addOpts := []layer.AddOption{layer.StartAt(c.Start)}
		if c.Alpha != nil {
			addOpts = append(addOpts, layer.WithAlpha(*c.Alpha))
		}
		if c.Layer != nil {
			addOpts = append(addOpts, layer.AtLayer(*c.Layer))
		}

		if err := b.Compositor.Add(clip, addOpts...); err != nil {
			return nil, fmt.Errorf("scene: %w", err)
		}
		clips[c.Name] = clip
	}

	if s.Background != "" {
		bg, err := source.LoadImage(s.Path(s.Background), domain)
		if err != nil {
			return nil, fmt.Errorf("scene: background: %w", err)
		}
		b.Background = bg
	}

	clock, err := render.NewClock(b.Compositor.Duration() - 1)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	b.Clock = clock

	for i, e := range s.Effects {
		in, err := s.buildEffect(e, clips, clock, cfg)
		if err != nil {
			return nil, fmt.Errorf("scene: effect %d (%s): %w", i, e.Type, err)
		}
		b.Effects = append(b.Effects, in)
	}

	return b, nil
}

// Renderer returns a renderer over the composite and the effect chain.
func (b *Built) Renderer(opts ...render.Option) (*render.Renderer, error) {
	chain := make([]render.Effect, len(b.Effects))
	for i, e := range b.Effects {
		chain[i] = e
	}
	return render.New(b.Compositor, b.Clock, append([]render.Option{render.WithEffects(chain...)}, opts...)...)
}

func (s *Scene) openClip(c Clip, domain raster.Domain) (layer.Clip, error) {
	switch {
	case c.Dir != "":
		return source.OpenDir(c.Name, s.Path(c.Dir), source.WithDomain(domain))
	case c.Photostream != "":
		return source.LoadPhotostream(c.Name, s.Path(c.Photostream), domain)
	default:
		img, err := source.LoadImage(s.Path(c.Image), domain)
		if err != nil {
			return nil, err
		}
		return source.NewStill(c.Name, img, c.Duration)
	}
}

func (s *Scene) buildEffect(e Effect, clips map[string]layer.Clip, clock *render.Clock, cfg buildConfig) (*effect.Instance, error) {
	in, err := cfg.registry.New(e.Type, clock, effect.WithLogger(cfg.logger))
	if err != nil {
		return nil, err
	}

	if e.WaypointsCSV != "" {
		if err := s.loadCSV(in, e.WaypointsCSV); err != nil {
			return nil, err
		}
	}

	for _, wp := range e.Waypoints {
		values, err := s.waypointValues(wp.Values)
		if err != nil {
			return nil, fmt.Errorf("waypoint t=%d: %w", wp.T, err)
		}
		if err := in.SetWaypoint(wp.T, values); err != nil {
			return nil, err
		}
	}

	bake := append([]effect.BakeOption(nil), cfg.bake...)
	if e.Smoothing != nil {
		bake = append(bake, effect.WithSmoothing(*e.Smoothing))
	}
	if e.Kernel != "" {
		k, err := window.ParseType(e.Kernel)
		if err != nil {
			return nil, err
		}
		bake = append(bake, effect.WithSmoothingKernel(k))
	}
	if e.Seed != nil {
		bake = append(bake, effect.WithSeed(*e.Seed))
	}
	for k, v := range e.Args {
		bake = append(bake, effect.WithArg(k, v))
	}
	if e.Target != "" {
		bake = append(bake, effect.WithArg(effects.ArgTarget, clips[e.Target]))
	}

	if err := in.Bake(bake...); err != nil {
		return nil, err
	}

	return in, nil
}

func (s *Scene) loadCSV(in *effect.Instance, path string) error {
	f, err := os.Open(s.Path(path))
	if err != nil {
		return err
	}
	defer f.Close()

	return waypoint.LoadCSV(f, in.Track())
}

// waypointValues replaces a protect_mask path with the mask image's luma.
func (s *Scene) waypointValues(values map[string]any) (map[string]any, error) {
	path, ok := values[effect.ParamProtectMask].(string)
	if !ok {
		return values, nil
	}

	mask, err := LoadMask(s.Path(path))
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = v
	}
	out[effect.ParamProtectMask] = mask

	return out, nil
}

// LoadMask reads an image as a single-channel float mask of its luma.
func LoadMask(path string) (*raster.Raster, error) {
	img, err := source.LoadImage(path, raster.Float)
	if err != nil {
		return nil, err
	}

	shape := img.Shape()
	shape.Channels = 1

	mask, err := raster.New(shape)
	if err != nil {
		return nil, err
	}
	if err := mask.SetPlane(0, img.Luma()); err != nil {
		return nil, err
	}

	return mask, nil
}
