package effect

import (
	"testing"

	"github.com/cwbudde/algo-vfx/fx/raster"
	"github.com/cwbudde/algo-vfx/fx/waypoint"
)

type clock struct {
	now, max int
}

func (c *clock) Now() int     { return c.now }
func (c *clock) MaxTime() int { return c.max }

// fillKernel paints every colour channel with "level" and the alpha channel
// with "opacity".
type fillKernel struct {
	prepared int
	lastCtx  BakeContext
}

func (k *fillKernel) Prepare(ctx BakeContext) error {
	k.prepared++
	k.lastCtx = ctx
	return nil
}

func (k *fillKernel) Apply(frame *raster.Raster, v Values) (*raster.Raster, error) {
	n := frame.Shape().Pixels()
	level := make([]float64, n)
	opacity := make([]float64, n)
	for i := range level {
		level[i] = v.Float("level")
		opacity[i] = v.Float("opacity")
	}
	for c := 0; c < 3; c++ {
		_ = frame.SetPlane(c, level)
	}
	_ = frame.SetPlane(raster.AlphaChannel, opacity)
	return frame, nil
}

// walkKernel integrates "speed" one frame at a time.
type walkKernel struct {
	fillKernel
	pos   float64
	steps []int
}

func (k *walkKernel) Reset() {
	k.pos = 0
	k.steps = nil
}

func (k *walkKernel) Step(t int, v Values) error {
	k.pos += v.Float("speed")
	k.steps = append(k.steps, t)
	return nil
}

func fillSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := NewSchema("fill",
		waypoint.Param{Name: "level", Kind: waypoint.Numeric, Default: 1.0},
		waypoint.Param{Name: "opacity", Kind: waypoint.Numeric, Default: 1.0},
		waypoint.Param{Name: "speed", Kind: waypoint.Numeric, Default: 1.0},
	)
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	return s
}

func blackFrame(t *testing.T, w, h int) *raster.Raster {
	t.Helper()
	r, err := raster.Blank(raster.Shape{Width: w, Height: h, Channels: 4, Domain: raster.Float})
	if err != nil {
		t.Fatalf("Blank: %v", err)
	}
	return r
}
