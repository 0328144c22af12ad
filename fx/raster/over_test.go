package raster_test

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-vfx/fx"
	"github.com/cwbudde/algo-vfx/fx/raster"
	"github.com/cwbudde/algo-vfx/internal/testutil"
)

var (
	smallByte  = raster.Shape{Width: 8, Height: 6, Domain: raster.Uint8}
	smallFloat = raster.Shape{Width: 8, Height: 6, Domain: raster.Float}
)

func TestOverTransparentTopIsIdentity(t *testing.T) {
	t.Parallel()

	for _, shape := range []raster.Shape{smallByte, smallFloat} {
		a := testutil.RandomRaster(1, shape, 0)
		clear := testutil.SolidRaster(shape, 0, 0, 0, 0)

		got, err := raster.Over(a, clear)
		if err != nil {
			t.Fatalf("Over: %v", err)
		}

		if !got.Equal(a) {
			t.Fatalf("%v: Over(A, transparent) != A", shape.Domain)
		}
	}
}

func TestOverOpaqueTopWins(t *testing.T) {
	t.Parallel()

	for _, shape := range []raster.Shape{smallByte, smallFloat} {
		bottom := testutil.RandomRaster(2, shape, 0)
		top := testutil.RandomRaster(3, shape, 1)

		got, err := raster.Over(bottom, top)
		if err != nil {
			t.Fatalf("Over: %v", err)
		}

		if !got.Equal(top) {
			t.Fatalf("%v: Over(bottom, opaque) != opaque", shape.Domain)
		}
	}
}

func TestOverOpaqueBottomIsLinearBlend(t *testing.T) {
	t.Parallel()

	shape := raster.Shape{Width: 1, Height: 1, Domain: raster.Float}
	bottom := testutil.SolidRaster(shape, 0.2, 0.4, 0.6, 1)
	top := testutil.SolidRaster(shape, 1, 0, 0.5, 0.25)

	got, err := raster.Over(bottom, top)
	if err != nil {
		t.Fatalf("Over: %v", err)
	}

	want := []float64{
		1*0.25 + 0.2*0.75,
		0*0.25 + 0.4*0.75,
		0.5*0.25 + 0.6*0.75,
		1,
	}

	for c, w := range want {
		if diff := got.At(0, 0, c) - w; diff < -1e-12 || diff > 1e-12 {
			t.Fatalf("channel %d = %v, want %v", c, got.At(0, 0, c), w)
		}
	}
}

func TestOverAssociativeFloat(t *testing.T) {
	t.Parallel()

	for seed := int64(0); seed < 5; seed++ {
		a := testutil.RandomRaster(seed*3, smallFloat, 0)
		b := testutil.RandomRaster(seed*3+1, smallFloat, 0)
		c := testutil.RandomRaster(seed*3+2, smallFloat, 0)

		left := mustOver(t, mustOver(t, a, b), c)
		right := mustOver(t, a, mustOver(t, b, c))

		testutil.RequireRasterNearlyEqual(t, left, right, 1e-9)
	}
}

func TestOverAssociativeUint8(t *testing.T) {
	t.Parallel()

	for seed := int64(0); seed < 5; seed++ {
		a := testutil.RandomRaster(seed*3, smallByte, 0.5)
		b := testutil.RandomRaster(seed*3+1, smallByte, 0.5)
		c := testutil.RandomRaster(seed*3+2, smallByte, 0.5)

		left := mustOver(t, mustOver(t, a, b), c)
		right := mustOver(t, a, mustOver(t, b, c))

		testutil.RequireRasterNearlyEqual(t, left, right, 4.0/255)
	}
}

func TestOverDoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	bottom := testutil.RandomRaster(10, smallByte, 0)
	top := testutil.RandomRaster(11, smallByte, 0)
	bottomCopy, topCopy := bottom.Clone(), top.Clone()

	if _, err := raster.Over(bottom, top); err != nil {
		t.Fatalf("Over: %v", err)
	}

	if !bottom.Equal(bottomCopy) || !top.Equal(topCopy) {
		t.Fatal("Over modified an input raster")
	}
}

func TestOverErrors(t *testing.T) {
	t.Parallel()

	a := testutil.RandomRaster(1, smallByte, 0)

	t.Run("dimension mismatch", func(t *testing.T) {
		t.Parallel()

		other := testutil.RandomRaster(1, raster.Shape{Width: 3, Height: 3, Domain: raster.Uint8}, 0)
		if _, err := raster.Over(a, other); !errors.Is(err, fx.ErrDimensionMismatch) {
			t.Fatalf("error = %v, want ErrDimensionMismatch", err)
		}
	})

	t.Run("domain mismatch", func(t *testing.T) {
		t.Parallel()

		if _, err := raster.Over(a, a.ToFloat()); !errors.Is(err, fx.ErrDimensionMismatch) {
			t.Fatalf("error = %v, want ErrDimensionMismatch", err)
		}
	})

	t.Run("missing alpha", func(t *testing.T) {
		t.Parallel()

		rgb := testutil.SolidRaster(smallByte, 0.1, 0.2, 0.3)
		if _, err := raster.Over(a, rgb); !errors.Is(err, fx.ErrMissingAlphaChannel) {
			t.Fatalf("error = %v, want ErrMissingAlphaChannel", err)
		}
	})
}

func TestScaleAlpha(t *testing.T) {
	t.Parallel()

	r := testutil.SolidRaster(raster.Shape{Width: 2, Height: 2, Domain: raster.Uint8}, 0.5, 0.5, 0.5, 200.0/255)

	same, err := raster.ScaleAlpha(r, 1)
	if err != nil {
		t.Fatalf("ScaleAlpha: %v", err)
	}
	if !same.Equal(r) {
		t.Fatal("ScaleAlpha(1) changed samples")
	}

	half, err := raster.ScaleAlpha(r, 0.5)
	if err != nil {
		t.Fatalf("ScaleAlpha: %v", err)
	}
	if got := half.Bytes(raster.AlphaChannel)[0]; got != 100 {
		t.Fatalf("alpha = %d, want 100", got)
	}
	if got := r.Bytes(raster.AlphaChannel)[0]; got != 200 {
		t.Fatalf("source alpha changed to %d", got)
	}

	rgb := testutil.SolidRaster(smallByte, 0.1, 0.2, 0.3)
	if _, err := raster.ScaleAlpha(rgb, 0.5); !errors.Is(err, fx.ErrMissingAlphaChannel) {
		t.Fatalf("error = %v, want ErrMissingAlphaChannel", err)
	}
}

func TestMixWeights(t *testing.T) {
	t.Parallel()

	shape := raster.Shape{Width: 3, Height: 1, Domain: raster.Float}
	dst := testutil.SolidRaster(shape, 0, 0, 0, 0.5)
	src := testutil.SolidRaster(shape, 1, 1, 1, 1)

	got, err := raster.Mix(dst, src, []float64{0, 0.5, 1})
	if err != nil {
		t.Fatalf("Mix: %v", err)
	}

	for x, want := range []float64{0, 0.5, 1} {
		if diff := got.At(x, 0, 0) - want; diff < -1e-12 || diff > 1e-12 {
			t.Fatalf("x=%d red = %v, want %v", x, got.At(x, 0, 0), want)
		}
		if a := got.At(x, 0, raster.AlphaChannel); a != 0.5 {
			t.Fatalf("x=%d alpha = %v, want dst alpha 0.5", x, a)
		}
	}
}

func mustOver(t *testing.T, bottom, top *raster.Raster) *raster.Raster {
	t.Helper()

	out, err := raster.Over(bottom, top)
	if err != nil {
		t.Fatalf("Over: %v", err)
	}

	return out
}
