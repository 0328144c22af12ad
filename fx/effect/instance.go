package effect

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/algo-vfx/fx"
	"github.com/cwbudde/algo-vfx/fx/core"
	"github.com/cwbudde/algo-vfx/fx/raster"
	"github.com/cwbudde/algo-vfx/fx/waypoint"
)

// Instance is one effect placed in a pipeline.
type Instance struct {
	schema   *Schema
	kernel   Kernel
	timeline Timeline
	logger   *slog.Logger
	defaults []BakeOption

	track    *waypoint.Track
	resolved *waypoint.Resolved
	baked    bool
	last     int // last stepped frame, -1 before the first
}

// New creates an unbaked instance spanning the timeline's frames.
func New(schema *Schema, kernel Kernel, tl Timeline, opts ...Option) (*Instance, error) {
	if schema == nil || kernel == nil || tl == nil {
		return nil, errors.New("effect: schema, kernel and timeline are required")
	}
	in := &Instance{
		schema:   schema,
		kernel:   kernel,
		timeline: tl,
		logger:   slog.New(slog.DiscardHandler),
		last:     -1,
	}
	for _, opt := range opts {
		opt(in)
	}
	track, err := waypoint.NewTrack(schema.params, tl.MaxTime(), waypoint.OnChange(in.invalidate))
	if err != nil {
		return nil, fmt.Errorf("effect: %s: %w", schema.name, err)
	}
	in.track = track
	return in, nil
}

// Name returns the effect type name.
func (in *Instance) Name() string { return in.schema.name }

// Schema returns the effect's parameter declaration.
func (in *Instance) Schema() *Schema { return in.schema }

// Baked reports whether the resolved tracks match the waypoints.
func (in *Instance) Baked() bool { return in.baked }

// Resolved returns the tracks from the last bake, which may be stale.
func (in *Instance) Resolved() *waypoint.Resolved { return in.resolved }

// AddWaypoint pins values at t; see waypoint.Track.Set.
func (in *Instance) AddWaypoint(t int, values map[string]any) error {
	if err := in.track.Add(t, values); err != nil {
		return fmt.Errorf("effect: %s: %w", in.schema.name, err)
	}
	return nil
}

// SetWaypoint is an alias for AddWaypoint.
func (in *Instance) SetWaypoint(t int, values map[string]any) error {
	return in.AddWaypoint(t, values)
}

// RemoveWaypoint deletes the waypoint at t, or resets t=0 to the defaults.
func (in *Instance) RemoveWaypoint(t int) error {
	if err := in.track.Remove(t); err != nil {
		return fmt.Errorf("effect: %s: %w", in.schema.name, err)
	}
	return nil
}

// GetWaypoint returns the waypoint explicitly set at t.
func (in *Instance) GetWaypoint(t int) (waypoint.Snapshot, error) {
	s, err := in.track.Get(t)
	if err != nil {
		return nil, fmt.Errorf("effect: %s: %w", in.schema.name, err)
	}
	return s, nil
}

// Waypoints returns every waypoint in time order.
func (in *Instance) Waypoints() []waypoint.Waypoint {
	return in.track.Waypoints()
}

// Track exposes the waypoint store, e.g. for bulk loading.
func (in *Instance) Track() *waypoint.Track { return in.track }

func (in *Instance) invalidate() {
	in.baked = false
}

// Bake resolves the waypoints and prepares the kernel. Options are applied
// after the instance defaults. On failure the instance stays unbaked.
func (in *Instance) Bake(opts ...BakeOption) error {
	cfg := newBakeConfig(in.defaults, opts)
	maxTime := in.timeline.MaxTime()

	res, err := in.track.Resolve(maxTime, cfg.smoothing, waypoint.WithKernel(cfg.kernel))
	if err != nil {
		in.baked = false
		return fmt.Errorf("effect: %s: bake: %w", in.schema.name, err)
	}
	ctx := BakeContext{
		Name:     in.schema.name,
		MaxTime:  maxTime,
		Resolved: res,
		Seed:     cfg.seed,
		Args:     cfg.args,
		Logger:   in.logger,
	}
	if err := in.kernel.Prepare(ctx); err != nil {
		in.baked = false
		return fmt.Errorf("effect: %s: prepare: %w", in.schema.name, err)
	}
	if s, ok := in.kernel.(Stepper); ok {
		s.Reset()
	}
	in.resolved = res
	in.last = -1
	in.baked = true
	return nil
}

func (in *Instance) ensureBaked() error {
	if in.baked {
		return nil
	}
	in.logger.Warn("effect: rendering unbaked effect, baking with defaults", "effect", in.schema.name)
	return in.Bake()
}

// Value returns the resolved value of name at the current frame.
func (in *Instance) Value(name string) (any, error) {
	if err := in.ensureBaked(); err != nil {
		return nil, err
	}
	v, err := in.resolved.ValueOf(name, in.timeline.Now())
	if err != nil {
		return nil, fmt.Errorf("effect: %s: %w", in.schema.name, err)
	}
	return v, nil
}

// Render applies the effect at the timeline's current frame and returns a
// new raster. frame is never modified.
func (in *Instance) Render(frame *raster.Raster) (*raster.Raster, error) {
	if frame == nil {
		return nil, fmt.Errorf("effect: %s: nil frame: %w", in.schema.name, fx.ErrValidation)
	}
	if err := in.ensureBaked(); err != nil {
		return nil, err
	}

	t := in.timeline.Now()
	snap, err := in.resolved.Snapshot(t)
	if err != nil {
		return nil, fmt.Errorf("effect: %s: %w", in.schema.name, err)
	}
	v := NewValues(t, snap)

	if err := in.advance(t); err != nil {
		return nil, err
	}

	out, err := in.kernel.Apply(frame.Clone(), v)
	if err != nil {
		return nil, fmt.Errorf("effect: %s: apply at t=%d: %w", in.schema.name, t, err)
	}
	if out.Shape() != frame.Shape() {
		return nil, fmt.Errorf("effect: %s: kernel returned %v for %v: %w", in.schema.name, out.Shape(), frame.Shape(), fx.ErrDimensionMismatch)
	}
	return in.protect(frame, out, v)
}

// advance brings a stepping kernel to frame t, replaying skipped frames.
func (in *Instance) advance(t int) error {
	s, ok := in.kernel.(Stepper)
	if !ok {
		return nil
	}
	if t <= in.last {
		return fmt.Errorf("effect: %s: render at t=%d after t=%d: %w", in.schema.name, t, in.last, fx.ErrSequencing)
	}
	for step := in.last + 1; step <= t; step++ {
		snap, err := in.resolved.Snapshot(step)
		if err != nil {
			return fmt.Errorf("effect: %s: %w", in.schema.name, err)
		}
		if err := s.Step(step, NewValues(step, snap)); err != nil {
			return fmt.Errorf("effect: %s: step %d: %w", in.schema.name, step, err)
		}
		in.last = step
	}
	return nil
}

// protect blends out back toward the original frame with per-pixel weight
// alpha*(1-mask). The alpha channel of out is kept.
func (in *Instance) protect(orig, out *raster.Raster, v Values) (*raster.Raster, error) {
	alpha := v.Float(ParamAlpha)
	mask := v.Raster(ParamProtectMask)
	if mask == nil && alpha >= 1 {
		return out, nil
	}

	n := orig.Shape().Pixels()
	weight := make([]float64, n)
	if mask == nil {
		core.Fill(weight, alpha)
	} else {
		if mask.Width() != orig.Width() || mask.Height() != orig.Height() {
			return nil, fmt.Errorf("effect: %s: protect mask %dx%d for %dx%d frame: %w",
				in.schema.name, mask.Width(), mask.Height(), orig.Width(), orig.Height(), fx.ErrDimensionMismatch)
		}
		c := 0
		if mask.HasAlpha() {
			c = raster.AlphaChannel
		}
		negMask := mask.Plane(c)
		vecmath.ScaleBlockInPlace(negMask, -1)
		ones := make([]float64, n)
		core.Fill(ones, 1)
		vecmath.AddMulBlock(weight, ones, negMask, alpha)
	}

	mixed, err := raster.Mix(orig, out, weight)
	if err != nil {
		return nil, fmt.Errorf("effect: %s: protect blend: %w", in.schema.name, err)
	}
	if out.HasAlpha() {
		if err := mixed.SetPlane(raster.AlphaChannel, out.Plane(raster.AlphaChannel)); err != nil {
			return nil, err
		}
	}
	return mixed, nil
}
