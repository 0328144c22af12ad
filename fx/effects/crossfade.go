package effects

import (
	"errors"
	"fmt"

	"github.com/tanema/gween"

	"github.com/cwbudde/algo-vfx/fx"
	"github.com/cwbudde/algo-vfx/fx/core"
	"github.com/cwbudde/algo-vfx/fx/effect"
	"github.com/cwbudde/algo-vfx/fx/raster"
	"github.com/cwbudde/algo-vfx/fx/waypoint"
)

// CrossfadeName is the registry name of Crossfade.
const CrossfadeName = "crossfade"

// Bake arguments understood by Crossfade.
const (
	ArgTarget   = "target"   // FrameSource to fade toward, required
	ArgStart    = "start"    // first frame of the fade, default 0
	ArgDuration = "duration" // fade length in frames, default to the end
	ArgCurve    = "curve"    // easing curve name, default "linear"
	ArgOffset   = "offset"   // target frame shown at start, default 0
)

// FrameSource yields frames by time index.
type FrameSource interface {
	Frame(t int) (*raster.Raster, error)
}

var errNoTarget = errors.New("effects: crossfade needs a target source")

// Crossfade blends the frame toward a target source. A tween advanced one
// frame per step drives the fade, scaled by the "strength" parameter.
type Crossfade struct {
	target   FrameSource
	start    int
	offset   int
	tween    *gween.Tween
	progress float64
}

// CrossfadeSchema declares the Crossfade parameters.
func CrossfadeSchema() (*effect.Schema, error) {
	return effect.NewSchema(CrossfadeName,
		waypoint.Param{Name: "strength", Kind: waypoint.Numeric, Default: 1.0, Validate: unitInterval},
	)
}

// Prepare implements effect.Kernel.
func (c *Crossfade) Prepare(ctx effect.BakeContext) error {
	target, ok := ctx.Arg(ArgTarget, nil).(FrameSource)
	if !ok || target == nil {
		return errNoTarget
	}
	start, err := intArg(ctx, ArgStart, 0)
	if err != nil {
		return err
	}
	duration, err := intArg(ctx, ArgDuration, ctx.MaxTime-start)
	if err != nil {
		return err
	}
	offset, err := intArg(ctx, ArgOffset, 0)
	if err != nil {
		return err
	}
	name, _ := ctx.Arg(ArgCurve, "linear").(string)
	curve, err := Curve(name)
	if err != nil {
		return err
	}
	if duration < 1 {
		duration = 1
	}

	c.target = target
	c.start = start
	c.offset = offset
	c.tween = gween.New(0, 1, float32(duration), tweenFunc(curve))
	c.Reset()
	return nil
}

// Reset implements effect.Stepper.
func (c *Crossfade) Reset() {
	if c.tween != nil {
		c.tween.Reset()
	}
	c.progress = 0
}

// Step implements effect.Stepper.
func (c *Crossfade) Step(t int, _ effect.Values) error {
	if t <= c.start {
		return nil
	}
	p, _ := c.tween.Update(1)
	c.progress = float64(p)
	return nil
}

// Progress returns the eased fade position after the last step.
func (c *Crossfade) Progress() float64 { return c.progress }

// Apply implements effect.Kernel.
func (c *Crossfade) Apply(frame *raster.Raster, v effect.Values) (*raster.Raster, error) {
	w := c.progress * v.Float("strength")
	if v.T < c.start || w <= 0 {
		return frame, nil
	}
	other, err := c.target.Frame(v.T - c.start + c.offset)
	if err != nil {
		return nil, fmt.Errorf("effects: crossfade target at t=%d: %w", v.T, err)
	}
	other = conform(other, frame.Shape())
	weight := make([]float64, frame.Shape().Pixels())
	core.Fill(weight, w)
	return raster.Mix(frame, other, weight)
}

// conform converts r to the domain and channel layout of want where that is
// lossless enough to blend. Size differences are left for Mix to reject.
func conform(r *raster.Raster, want raster.Shape) *raster.Raster {
	if r.Domain() != want.Domain {
		r = r.ToDomain(want.Domain)
	}
	if r.Channels() != want.Channels && want.Channels == 4 {
		r = r.WithAlpha()
	}
	return r
}

func unitInterval(v any) error {
	if f := v.(float64); f < 0 || f > 1 {
		return fmt.Errorf("%v outside [0,1]", f)
	}
	return nil
}

func intArg(ctx effect.BakeContext, key string, def int) (int, error) {
	switch n := ctx.Arg(key, def).(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return core.RoundTime(n), nil
	default:
		return 0, fmt.Errorf("effects: bake argument %q must be a number, got %T: %w", key, n, fx.ErrValidation)
	}
}
