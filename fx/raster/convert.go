package raster

import (
	"image"
	"image/color"

	"github.com/cwbudde/algo-vfx/fx/core"
)

// Luma weights (Rec. 601) used when collapsing color to one channel.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// ToFloat returns a Float-domain copy. A Float raster is cloned.
func (r *Raster) ToFloat() *Raster {
	if r.shape.Domain == Float {
		return r.Clone()
	}

	shape := r.shape
	shape.Domain = Float
	out, _ := New(shape)

	for c := 0; c < shape.Channels; c++ {
		r.PlaneInto(out.floats[c], c)
	}

	return out
}

// ToUint8 returns a Uint8-domain copy, rounding to nearest with clamping.
// A Uint8 raster is cloned.
func (r *Raster) ToUint8() *Raster {
	if r.shape.Domain == Uint8 {
		return r.Clone()
	}

	shape := r.shape
	shape.Domain = Uint8
	out, _ := New(shape)

	for c := 0; c < shape.Channels; c++ {
		dst := out.bytes[c]
		for i, v := range r.floats[c] {
			dst[i] = core.ToUint8(v * 255)
		}
	}

	return out
}

// ToDomain converts to d, cloning when r is already in d.
func (r *Raster) ToDomain(d Domain) *Raster {
	if d == Float {
		return r.ToFloat()
	}

	return r.ToUint8()
}

// WithAlpha returns a 4-channel copy. Gray rasters are replicated into RGB;
// a missing alpha channel is filled opaque.
func (r *Raster) WithAlpha() *Raster {
	if r.shape.Channels == 4 {
		return r.Clone()
	}

	shape := r.shape
	shape.Channels = 4
	out, _ := New(shape)

	plane := r.Plane(0)
	for c := 0; c < 3; c++ {
		if r.shape.Channels == 3 {
			r.PlaneInto(plane, c)
		}

		_ = out.SetPlane(c, plane)
	}

	out.fillPlane(AlphaChannel, 1)

	return out
}

// Luma returns the per-pixel luminance of the color channels, normalized to
// [0,1]. Alpha is ignored.
func (r *Raster) Luma() []float64 {
	n := r.shape.Pixels()
	out := make([]float64, n)

	if r.shape.Channels == 1 {
		r.PlaneInto(out, 0)
		return out
	}

	for i := 0; i < n; i++ {
		out[i] = lumaR*r.atIndex(i, 0) + lumaG*r.atIndex(i, 1) + lumaB*r.atIndex(i, 2)
	}

	return out
}

// FromImage converts any image.Image into a 4-channel raster of the given
// domain. Samples are taken non-premultiplied.
func FromImage(img image.Image, d Domain) (*Raster, error) {
	b := img.Bounds()

	out, err := New(Shape{Width: b.Dx(), Height: b.Dy(), Channels: 4, Domain: d})
	if err != nil {
		return nil, err
	}

	w := b.Dx()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			px := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			i := (y-b.Min.Y)*w + (x - b.Min.X)

			if d == Uint8 {
				out.bytes[0][i] = px.R
				out.bytes[1][i] = px.G
				out.bytes[2][i] = px.B
				out.bytes[3][i] = px.A

				continue
			}

			out.floats[0][i] = float64(px.R) / 255
			out.floats[1][i] = float64(px.G) / 255
			out.floats[2][i] = float64(px.B) / 255
			out.floats[3][i] = float64(px.A) / 255
		}
	}

	return out, nil
}

// Image renders the raster as an 8-bit non-premultiplied RGBA image. Gray
// rasters are replicated into RGB and missing alpha is opaque.
func (r *Raster) Image() *image.NRGBA {
	src := r
	if r.shape.Channels != 4 {
		src = r.WithAlpha()
	}

	if src.shape.Domain != Uint8 {
		src = src.ToUint8()
	}

	w, h := r.shape.Width, r.shape.Height
	img := image.NewNRGBA(image.Rect(0, 0, w, h))

	for i := 0; i < w*h; i++ {
		o := (i/w)*img.Stride + (i%w)*4
		img.Pix[o] = src.bytes[0][i]
		img.Pix[o+1] = src.bytes[1][i]
		img.Pix[o+2] = src.bytes[2][i]
		img.Pix[o+3] = src.bytes[3][i]
	}

	return img
}
