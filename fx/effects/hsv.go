package effects

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/cwbudde/algo-vfx/fx/effect"
	"github.com/cwbudde/algo-vfx/fx/raster"
	"github.com/cwbudde/algo-vfx/fx/waypoint"
)

// HSVShiftName is the registry name of HSVShift.
const HSVShiftName = "hsv_shift"

// HSVShift multiplies hue, saturation and value by per-frame factors and
// then rotates the hue by hue_shift turns. Grayscale frames only see the
// value factor.
type HSVShift struct{}

// HSVShiftSchema declares the HSVShift parameters.
func HSVShiftSchema() (*effect.Schema, error) {
	nonNegative := func(v any) error {
		if v.(float64) < 0 {
			return fmt.Errorf("factor %v is negative", v)
		}
		return nil
	}
	return effect.NewSchema(HSVShiftName,
		waypoint.Param{Name: "hue", Kind: waypoint.Numeric, Default: 1.0, Validate: nonNegative},
		waypoint.Param{Name: "saturation", Kind: waypoint.Numeric, Default: 1.0, Validate: nonNegative},
		waypoint.Param{Name: "value", Kind: waypoint.Numeric, Default: 1.0, Validate: nonNegative},
		waypoint.Param{Name: "hue_shift", Kind: waypoint.Numeric, Default: 0.0},
	)
}

// Prepare implements effect.Kernel.
func (HSVShift) Prepare(effect.BakeContext) error { return nil }

// Apply implements effect.Kernel.
func (HSVShift) Apply(frame *raster.Raster, v effect.Values) (*raster.Raster, error) {
	hue := v.Float("hue")
	sat := v.Float("saturation")
	val := v.Float("value")
	shift := v.Float("hue_shift")
	if hue == 1 && sat == 1 && val == 1 && shift == 0 {
		return frame, nil
	}

	if frame.Channels() < 3 {
		p := frame.Plane(0)
		for i := range p {
			p[i] = math.Min(p[i]*val, 1)
		}
		if err := frame.SetPlane(0, p); err != nil {
			return nil, err
		}
		return frame, nil
	}

	r, g, b := frame.Plane(0), frame.Plane(1), frame.Plane(2)
	for i := range r {
		h, s, l := colorful.Color{R: r[i], G: g[i], B: b[i]}.Hsv()
		h = math.Mod(h*hue+shift*360, 360)
		if h < 0 {
			h += 360
		}
		c := colorful.Hsv(h, math.Min(s*sat, 1), math.Min(l*val, 1)).Clamped()
		r[i], g[i], b[i] = c.R, c.G, c.B
	}
	for c, p := range [][]float64{r, g, b} {
		if err := frame.SetPlane(c, p); err != nil {
			return nil, err
		}
	}
	return frame, nil
}
