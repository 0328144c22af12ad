package background

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-vfx/fx"
	"github.com/cwbudde/algo-vfx/fx/raster"
	"github.com/cwbudde/algo-vfx/internal/testutil"
)

var shape = raster.Shape{Width: 24, Height: 16, Channels: 4, Domain: raster.Float}

func mustUniform(t *testing.T) *raster.Raster {
	t.Helper()
	bg, err := Uniform(shape)
	if err != nil {
		t.Fatal(err)
	}
	return bg
}

func TestFrameDiffIdenticalIsZero(t *testing.T) {
	t.Parallel()

	bg := testutil.RandomRaster(1, shape, 1)

	d, err := New(bg, WithSigma(2))
	if err != nil {
		t.Fatal(err)
	}

	got, err := d.FrameDiff(bg.Clone())
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, got, make([]float64, shape.Pixels()), 0)
}

func TestFrameDiffUniformShift(t *testing.T) {
	t.Parallel()

	d, err := New(mustUniform(t), WithSigma(3))
	if err != nil {
		t.Fatal(err)
	}

	got, err := d.FrameDiff(testutil.SolidRaster(shape, 1, 1, 1, 1))
	if err != nil {
		t.Fatal(err)
	}

	want := make([]float64, shape.Pixels())
	for i := range want {
		want[i] = 1
	}

	testutil.RequireSliceNearlyEqual(t, got, want, 1e-9)
}

func TestFrameDiffWithoutBlurIsLocal(t *testing.T) {
	t.Parallel()

	d, err := New(mustUniform(t), WithSigma(0))
	if err != nil {
		t.Fatal(err)
	}

	frame := mustUniform(t)
	for c := 0; c < 3; c++ {
		frame.Set(5, 4, c, 1)
	}

	got, err := d.FrameDiff(frame)
	if err != nil {
		t.Fatal(err)
	}

	for i, v := range got {
		want := 0.0
		if i == 4*shape.Width+5 {
			want = 1
		}
		if math.Abs(v-want) > 1e-12 {
			t.Fatalf("pixel %d: got %v want %v", i, v, want)
		}
	}
}

func TestFrameDiffBlurSpreads(t *testing.T) {
	t.Parallel()

	d, err := New(mustUniform(t), WithSigma(1.5))
	if err != nil {
		t.Fatal(err)
	}

	frame := mustUniform(t)
	for c := 0; c < 3; c++ {
		frame.Set(12, 8, c, 1)
	}

	got, err := d.FrameDiff(frame)
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireFinite(t, got)

	center := got[8*shape.Width+12]
	near := got[8*shape.Width+13]
	far := got[0]

	if math.Abs(center-1) > 1e-12 {
		t.Fatalf("center = %v, want 1", center)
	}
	if !(near > 0 && near < 1) {
		t.Fatalf("neighbor = %v, want in (0,1)", near)
	}
	if far > 1e-6 {
		t.Fatalf("far corner = %v, want ~0", far)
	}

	for i, v := range got {
		if v < -1e-12 || v > 1+1e-12 {
			t.Fatalf("pixel %d = %v outside [0,1]", i, v)
		}
	}
}

func TestDifferErrors(t *testing.T) {
	t.Parallel()

	bg := mustUniform(t)

	if _, err := New(bg, WithSigma(-1)); !errors.Is(err, fx.ErrValidation) {
		t.Fatalf("negative sigma err = %v, want ErrValidation", err)
	}

	if _, err := New(nil); !errors.Is(err, fx.ErrValidation) {
		t.Fatalf("nil background err = %v, want ErrValidation", err)
	}

	d, err := New(bg)
	if err != nil {
		t.Fatal(err)
	}

	if got := d.Sigma(); got != DefaultSigma {
		t.Fatalf("sigma = %v, want %v", got, DefaultSigma)
	}

	small := testutil.SolidRaster(raster.Shape{Width: 3, Height: 3, Domain: raster.Float}, 0, 0, 0, 1)
	if _, err := d.FrameDiff(small); !errors.Is(err, fx.ErrDimensionMismatch) {
		t.Fatalf("size mismatch err = %v, want ErrDimensionMismatch", err)
	}
}
