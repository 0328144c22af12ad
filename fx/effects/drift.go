package effects

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-vfx/fx/effect"
	"github.com/cwbudde/algo-vfx/fx/raster"
	"github.com/cwbudde/algo-vfx/fx/waypoint"
)

// DriftName is the registry name of Drift.
const DriftName = "drift"

// Drift moves the frame along the path of a particle jostled by random
// forces inside a harmonic well, like a hand-held camera. The path is
// integrated one frame per step, so it only depends on the bake seed and the
// resolved parameters.
//
// Parameters: "spring" is the well stiffness, "force_sd" the standard
// deviation of the random force and "max_offset" bounds the offset in
// pixels (a negative value means three force deviations).
type Drift struct {
	seed int64
	mass float64
	rng  *rand.Rand

	x, y   float64
	vx, vy float64
}

// DriftSchema declares the Drift parameters.
func DriftSchema() (*effect.Schema, error) {
	nonNegative := func(v any) error {
		if v.(float64) < 0 {
			return fmt.Errorf("%v is negative", v)
		}
		return nil
	}
	return effect.NewSchema(DriftName,
		waypoint.Param{Name: "spring", Kind: waypoint.Numeric, Default: 1.0, Validate: nonNegative},
		waypoint.Param{Name: "force_sd", Kind: waypoint.Numeric, Default: 1.0, Validate: nonNegative},
		waypoint.Param{Name: "max_offset", Kind: waypoint.Numeric, Default: -1.0},
	)
}

// Prepare implements effect.Kernel. The "mass" bake argument sets the
// particle inertia (default 1).
func (d *Drift) Prepare(ctx effect.BakeContext) error {
	mass := 1.0
	switch m := ctx.Arg("mass", 1.0).(type) {
	case float64:
		mass = m
	case int:
		mass = float64(m)
	default:
		return fmt.Errorf("effects: drift mass must be a number, got %T", m)
	}
	if !(mass > 0) {
		return fmt.Errorf("effects: drift mass %v must be positive", mass)
	}
	d.seed = ctx.Seed
	d.mass = mass
	d.Reset()
	return nil
}

// Reset implements effect.Stepper.
func (d *Drift) Reset() {
	d.rng = rand.New(rand.NewSource(d.seed))
	d.x, d.y, d.vx, d.vy = 0, 0, 0, 0
}

// Step implements effect.Stepper with a velocity Verlet update of unit
// time step.
func (d *Drift) Step(_ int, v effect.Values) error {
	k := v.Float("spring")
	sd := v.Float("force_sd")
	bound := v.Float("max_offset")
	if bound < 0 {
		bound = math.Round(3 * sd)
	}

	fx := -k*d.x + d.rng.NormFloat64()*sd
	fy := -k*d.y + d.rng.NormFloat64()*sd
	ax, ay := fx/d.mass, fy/d.mass

	nvx, nvy := d.vx+ax, d.vy+ay
	d.x += ax/2 + (d.vx+nvx)/2
	d.y += ay/2 + (d.vy+nvy)/2
	d.vx, d.vy = nvx, nvy

	d.x = math.Max(-bound, math.Min(bound, d.x))
	d.y = math.Max(-bound, math.Min(bound, d.y))
	return nil
}

// Offset returns the current displacement in pixels.
func (d *Drift) Offset() (x, y float64) { return d.x, d.y }

// Apply implements effect.Kernel. Pixels uncovered by the shift repeat the
// nearest edge.
func (d *Drift) Apply(frame *raster.Raster, _ effect.Values) (*raster.Raster, error) {
	dx := int(math.Round(d.x))
	dy := int(math.Round(d.y))
	if dx == 0 && dy == 0 {
		return frame, nil
	}
	return Translate(frame, dx, dy)
}

// Translate returns r shifted by (dx, dy) pixels with clamped edges.
func Translate(r *raster.Raster, dx, dy int) (*raster.Raster, error) {
	out, err := raster.New(r.Shape())
	if err != nil {
		return nil, err
	}
	w, h := r.Width(), r.Height()
	src := make([]float64, w*h)
	dst := make([]float64, w*h)
	for c := 0; c < r.Channels(); c++ {
		r.PlaneInto(src, c)
		for y := 0; y < h; y++ {
			sy := clampIndex(y-dy, h)
			for x := 0; x < w; x++ {
				dst[y*w+x] = src[sy*w+clampIndex(x-dx, w)]
			}
		}
		if err := out.SetPlane(c, dst); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
