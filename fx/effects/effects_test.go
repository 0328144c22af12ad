package effects

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-vfx/fx/effect"
	"github.com/cwbudde/algo-vfx/fx/raster"
	"github.com/cwbudde/algo-vfx/internal/testutil"
)

type clock struct{ now, max int }

func (c *clock) Now() int     { return c.now }
func (c *clock) MaxTime() int { return c.max }

type solid struct{ r *raster.Raster }

func (s solid) Frame(int) (*raster.Raster, error) { return s.r.Clone(), nil }

var floatRGBA = raster.Shape{Width: 3, Height: 2, Channels: 4, Domain: raster.Float}

func newInstance(t *testing.T, name string, clk *clock, opts ...effect.Option) *effect.Instance {
	t.Helper()
	in, err := DefaultRegistry(WithSeed(11)).New(name, clk, opts...)
	if err != nil {
		t.Fatalf("New(%s): %v", name, err)
	}
	return in
}

func TestDefaultRegistryNames(t *testing.T) {
	got := DefaultRegistry().Names()
	want := []string{CrossfadeName, DriftName, HSVShiftName}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestHSVShiftIdentity(t *testing.T) {
	frame := testutil.RandomRaster(3, floatRGBA, 1)
	in := newInstance(t, HSVShiftName, &clock{max: 5})
	out, err := in.Render(frame)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	testutil.RequireRasterNearlyEqual(t, out, frame, 0)
}

func TestHSVShiftRotatesHue(t *testing.T) {
	red := testutil.SolidRaster(floatRGBA, 1, 0, 0, 1)
	in := newInstance(t, HSVShiftName, &clock{max: 5})
	if err := in.AddWaypoint(0, map[string]any{"hue_shift": 0.5, "value": 0.5}); err != nil {
		t.Fatalf("AddWaypoint: %v", err)
	}
	out, err := in.Render(red)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := testutil.SolidRaster(floatRGBA, 0, 0.5, 0.5, 1)
	testutil.RequireRasterNearlyEqual(t, out, want, 1e-12)
}

func TestHSVShiftGray(t *testing.T) {
	shape := raster.Shape{Width: 2, Height: 2, Channels: 1, Domain: raster.Uint8}
	gray := testutil.SolidRaster(shape, 0.8)
	out, err := HSVShift{}.Apply(gray.Clone(), effect.NewValues(0, map[string]any{
		"hue": 1.0, "saturation": 1.0, "value": 0.5, "hue_shift": 0.0,
	}))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := out.At(1, 1, 0); math.Abs(got-102.0/255) > 1e-12 {
		t.Fatalf("got %v want %v", got, 102.0/255)
	}
}

func TestHSVShiftRejectsNegativeFactor(t *testing.T) {
	in := newInstance(t, HSVShiftName, &clock{max: 5})
	if err := in.AddWaypoint(1, map[string]any{"saturation": -1}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestCrossfadeProgress(t *testing.T) {
	clk := &clock{max: 10}
	in := newInstance(t, CrossfadeName, clk)
	white := testutil.SolidRaster(floatRGBA, 1, 1, 1, 1)
	black := testutil.SolidRaster(floatRGBA, 0, 0, 0, 1)
	err := in.Bake(
		effect.WithArg(ArgTarget, solid{white}),
		effect.WithArg(ArgStart, 2),
		effect.WithArg(ArgDuration, 4),
	)
	if err != nil {
		t.Fatalf("Bake: %v", err)
	}
	want := []float64{0, 0, 0, 0.25, 0.5, 0.75, 1, 1}
	for ts, w := range want {
		clk.now = ts
		out, err := in.Render(black)
		if err != nil {
			t.Fatalf("Render(%d): %v", ts, err)
		}
		if got := out.At(0, 0, 0); math.Abs(got-w) > 1e-6 {
			t.Fatalf("t=%d: got %v want %v", ts, got, w)
		}
	}
}

func TestCrossfadeCurveAndStrength(t *testing.T) {
	clk := &clock{max: 10}
	in := newInstance(t, CrossfadeName, clk)
	white := testutil.SolidRaster(floatRGBA, 1, 1, 1, 1)
	black := testutil.SolidRaster(floatRGBA, 0, 0, 0, 1)
	if err := in.AddWaypoint(0, map[string]any{"strength": 0.5}); err != nil {
		t.Fatalf("AddWaypoint: %v", err)
	}
	err := in.Bake(
		effect.WithArg(ArgTarget, solid{white}),
		effect.WithArg(ArgDuration, 4),
		effect.WithArg(ArgCurve, "in_quad"),
	)
	if err != nil {
		t.Fatalf("Bake: %v", err)
	}
	clk.now = 2 // half way: in_quad(0.5) = 0.25, times strength 0.5
	out, err := in.Render(black)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := out.At(0, 0, 0); math.Abs(got-0.125) > 1e-6 {
		t.Fatalf("got %v want 0.125", got)
	}
}

func TestCrossfadeBakeErrors(t *testing.T) {
	in := newInstance(t, CrossfadeName, &clock{max: 10})
	if err := in.Bake(); !errors.Is(err, errNoTarget) {
		t.Fatalf("no target: got %v want errNoTarget", err)
	}
	white := testutil.SolidRaster(floatRGBA, 1, 1, 1, 1)
	if err := in.Bake(effect.WithArg(ArgTarget, solid{white}), effect.WithArg(ArgCurve, "wobble")); err == nil {
		t.Fatal("expected unknown curve error")
	}
	if err := in.Bake(effect.WithArg(ArgTarget, solid{white}), effect.WithArg(ArgStart, "soon")); err == nil {
		t.Fatal("expected bad start error")
	}
}

func TestCurveNames(t *testing.T) {
	for _, name := range CurveNames() {
		f, err := Curve(name)
		if err != nil {
			t.Fatalf("Curve(%s): %v", name, err)
		}
		if math.Abs(f(0)) > 1e-9 || math.Abs(f(1)-1) > 1e-9 {
			t.Fatalf("%s does not map 0->0 and 1->1", name)
		}
	}
}

func TestDriftDeterministicAndBounded(t *testing.T) {
	run := func() []float64 {
		clk := &clock{max: 50}
		in := newInstance(t, DriftName, clk)
		if err := in.AddWaypoint(0, map[string]any{"force_sd": 2, "spring": 0.3, "max_offset": 2}); err != nil {
			t.Fatalf("AddWaypoint: %v", err)
		}
		frame := testutil.RandomRaster(5, floatRGBA, 1)
		var trace []float64
		for ts := 0; ts <= 50; ts += 5 {
			clk.now = ts
			out, err := in.Render(frame)
			if err != nil {
				t.Fatalf("Render(%d): %v", ts, err)
			}
			trace = append(trace, out.Plane(0)...)
		}
		return trace
	}
	testutil.RequireSliceNearlyEqual(t, run(), run(), 0)

	d := &Drift{}
	if err := d.Prepare(effect.BakeContext{Seed: 3}); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	v := effect.NewValues(0, map[string]any{"spring": 0.1, "force_sd": 5.0, "max_offset": 1.5})
	for i := 0; i < 200; i++ {
		_ = d.Step(i, v)
		if x, y := d.Offset(); math.Abs(x) > 1.5 || math.Abs(y) > 1.5 {
			t.Fatalf("step %d: offset (%v,%v) exceeds bound", i, x, y)
		}
	}
}

func TestDriftStillWithoutForce(t *testing.T) {
	d := &Drift{}
	_ = d.Prepare(effect.BakeContext{})
	v := effect.NewValues(0, map[string]any{"spring": 1.0, "force_sd": 0.0, "max_offset": -1.0})
	for i := 0; i < 10; i++ {
		_ = d.Step(i, v)
	}
	if x, y := d.Offset(); x != 0 || y != 0 {
		t.Fatalf("offset (%v,%v) want (0,0)", x, y)
	}
	if err := d.Prepare(effect.BakeContext{Args: map[string]any{"mass": -1.0}}); err == nil {
		t.Fatal("expected mass error")
	}
}

func TestTranslate(t *testing.T) {
	shape := raster.Shape{Width: 3, Height: 1, Channels: 1, Domain: raster.Float}
	r, _ := raster.New(shape)
	r.Set(0, 0, 0, 0.1)
	r.Set(1, 0, 0, 0.2)
	r.Set(2, 0, 0, 0.3)
	out, err := Translate(r, 1, 0)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, out.Plane(0), []float64{0.1, 0.1, 0.2}, 0)
	out, _ = Translate(r, -2, 0)
	testutil.RequireSliceNearlyEqual(t, out.Plane(0), []float64{0.3, 0.3, 0.3}, 0)
}
