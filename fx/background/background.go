// Package background measures how far each frame departs from a fixed
// background frame.
//
// Both frames are reduced to luma and blurred with a separable Gaussian
// before differencing, so sensor noise and small misregistration do not
// register as motion. The blur runs as FFT overlap-add convolution along
// rows and then columns with mirrored edges.
package background

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-vfx/fx"
	"github.com/cwbudde/algo-vfx/fx/conv"
	"github.com/cwbudde/algo-vfx/fx/core"
	"github.com/cwbudde/algo-vfx/fx/raster"
	"github.com/cwbudde/algo-vfx/fx/window"
)

// DefaultSigma is the blur standard deviation in pixels.
const DefaultSigma = 10.0

// GrayLevel is the luma of the uniform background used when none is given.
const GrayLevel = 127.0 / 255

// Differ compares frames against one background.
type Differ struct {
	frame *raster.Raster
	sigma float64
	blur  *blur
	bg    []float64
}

// Option configures a [Differ].
type Option func(*Differ)

// WithSigma sets the blur standard deviation in pixels. Zero disables
// blurring.
func WithSigma(sigma float64) Option {
	return func(d *Differ) { d.sigma = sigma }
}

// New prepares a Differ for bg. The blurred background luma is computed
// once here.
func New(bg *raster.Raster, opts ...Option) (*Differ, error) {
	if bg == nil {
		return nil, fmt.Errorf("background: nil frame: %w", fx.ErrValidation)
	}

	d := &Differ{frame: bg, sigma: DefaultSigma}
	for _, opt := range opts {
		opt(d)
	}

	if d.sigma < 0 || math.IsNaN(d.sigma) || math.IsInf(d.sigma, 0) {
		return nil, fmt.Errorf("background: sigma %v: %w", d.sigma, fx.ErrValidation)
	}

	if d.sigma > 0 {
		b, err := newBlur(d.sigma, bg.Width(), bg.Height())
		if err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
		d.blur = b
	}

	bgLuma, err := d.prepare(bg)
	if err != nil {
		return nil, err
	}
	d.bg = bgLuma

	return d, nil
}

// Uniform returns an opaque mid-gray frame of the given size and domain,
// the background assumed when a source has none.
func Uniform(shape raster.Shape) (*raster.Raster, error) {
	shape.Channels = 4

	r, err := raster.Blank(shape)
	if err != nil {
		return nil, err
	}

	plane := make([]float64, shape.Pixels())
	for i := range plane {
		plane[i] = GrayLevel
	}
	for c := 0; c < 3; c++ {
		if err := r.SetPlane(c, plane); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Frame returns the background frame.
func (d *Differ) Frame() *raster.Raster { return d.frame }

// Sigma returns the blur standard deviation.
func (d *Differ) Sigma() float64 { return d.sigma }

// FrameDiff returns one value in [0,1] per pixel, row-major: the absolute
// difference of blurred lumas scaled so the largest difference is 1. A frame
// identical to the background yields all zeros.
func (d *Differ) FrameDiff(frame *raster.Raster) ([]float64, error) {
	if frame == nil {
		return nil, fmt.Errorf("background: nil frame: %w", fx.ErrValidation)
	}

	luma, err := d.prepare(frame)
	if err != nil {
		return nil, err
	}

	for i, v := range luma {
		luma[i] = math.Abs(v - d.bg[i])
	}

	peak := vecmath.MaxAbs(luma)
	if peak <= 0 {
		return luma, nil
	}

	vecmath.ScaleBlockInPlace(luma, 1/peak)

	return luma, nil
}

func (d *Differ) prepare(r *raster.Raster) ([]float64, error) {
	if r.Width() != d.frame.Width() || r.Height() != d.frame.Height() {
		return nil, fmt.Errorf("background: frame %v, background %v: %w", r.Shape(), d.frame.Shape(), fx.ErrDimensionMismatch)
	}

	luma := r.Luma()
	if d.blur == nil {
		return luma, nil
	}

	if err := d.blur.apply(luma); err != nil {
		return nil, fmt.Errorf("background: blur: %w", err)
	}

	return luma, nil
}

// blur is a separable Gaussian over a fixed image size. One overlap-add
// convolver serves both passes.
type blur struct {
	oa            *conv.OverlapAdd
	half          int
	width, height int
	line, out     []float64
}

func newBlur(sigma float64, width, height int) (*blur, error) {
	kernel, err := window.GaussianKernel(sigma)
	if err != nil {
		return nil, err
	}

	oa, err := conv.NewOverlapAdd(kernel, 0)
	if err != nil {
		return nil, err
	}

	n := max(width, height)
	half := len(kernel) / 2

	return &blur{
		oa:     oa,
		half:   half,
		width:  width,
		height: height,
		line:   make([]float64, n),
		out:    make([]float64, n+4*half),
	}, nil
}

func (b *blur) apply(plane []float64) error {
	for y := 0; y < b.height; y++ {
		row := plane[y*b.width : (y+1)*b.width]
		if err := b.filter(row); err != nil {
			return err
		}
	}

	col := b.line[:b.height]
	for x := 0; x < b.width; x++ {
		for y := range col {
			col[y] = plane[y*b.width+x]
		}
		if err := b.filter(col); err != nil {
			return err
		}
		for y, v := range col {
			plane[y*b.width+x] = v
		}
	}

	return nil
}

// filter blurs x in place with mirrored edges.
func (b *blur) filter(x []float64) error {
	padded := conv.PadReflect(x, b.half)
	out := core.EnsureLen(b.out, len(padded)+b.oa.KernelLen()-1)
	if err := b.oa.ProcessTo(out, padded); err != nil {
		return err
	}
	copy(x, out[2*b.half:2*b.half+len(x)])
	return nil
}
