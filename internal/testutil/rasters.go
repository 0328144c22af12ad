package testutil

import (
	"math"
	"math/rand"
	"testing"

	"github.com/cwbudde/algo-vfx/fx/raster"
)

// RandomRaster fills a 4-channel raster with seeded noise. Alpha samples
// are drawn from [minAlpha, 1].
func RandomRaster(seed int64, shape raster.Shape, minAlpha float64) *raster.Raster {
	shape.Channels = 4

	r, err := raster.New(shape)
	if err != nil {
		panic("testutil: " + err.Error())
	}

	rng := rand.New(rand.NewSource(seed))
	for y := 0; y < shape.Height; y++ {
		for x := 0; x < shape.Width; x++ {
			for c := 0; c < 3; c++ {
				r.Set(x, y, c, rng.Float64())
			}
			r.Set(x, y, raster.AlphaChannel, minAlpha+(1-minAlpha)*rng.Float64())
		}
	}

	return r
}

// SolidRaster returns a raster with every pixel set to the normalized
// values in px (one per channel).
func SolidRaster(shape raster.Shape, px ...float64) *raster.Raster {
	shape.Channels = len(px)

	r, err := raster.New(shape)
	if err != nil {
		panic("testutil: " + err.Error())
	}

	for y := 0; y < shape.Height; y++ {
		for x := 0; x < shape.Width; x++ {
			for c, v := range px {
				r.Set(x, y, c, v)
			}
		}
	}

	return r
}

// RequireRasterNearlyEqual fails t if the rasters differ in shape or if any
// normalized sample pair differs by more than eps.
func RequireRasterNearlyEqual(t *testing.T, got, want *raster.Raster, eps float64) {
	t.Helper()

	if got.Shape() != want.Shape() {
		t.Fatalf("shape mismatch: got %v, want %v", got.Shape(), want.Shape())
	}

	for c := 0; c < got.Channels(); c++ {
		for y := 0; y < got.Height(); y++ {
			for x := 0; x < got.Width(); x++ {
				g, w := got.At(x, y, c), want.At(x, y, c)
				if math.Abs(g-w) > eps {
					t.Fatalf("(%d,%d) channel %d: got %v, want %v (eps %v)", x, y, c, g, w, eps)
				}
			}
		}
	}
}
