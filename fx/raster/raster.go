package raster

import (
	"fmt"

	"github.com/cwbudde/algo-vfx/fx"
	"github.com/cwbudde/algo-vfx/fx/core"
)

// Domain identifies the numeric range of raster samples.
type Domain int

const (
	// Uint8 stores samples as integers in [0,255].
	Uint8 Domain = iota
	// Float stores samples as float64 in [0,1].
	Float
)

// AlphaChannel is the channel index of alpha in a 4-channel raster.
const AlphaChannel = 3

// String returns the domain name.
func (d Domain) String() string {
	switch d {
	case Uint8:
		return "uint8"
	case Float:
		return "float"
	default:
		return fmt.Sprintf("Domain(%d)", int(d))
	}
}

// Max returns the sample value that represents full intensity.
func (d Domain) Max() float64 {
	if d == Uint8 {
		return 255
	}

	return 1
}

// Shape describes raster geometry and sample format. Two rasters can be
// composited only if their shapes are equal.
type Shape struct {
	Width    int
	Height   int
	Channels int
	Domain   Domain
}

// Pixels returns Width*Height.
func (s Shape) Pixels() int {
	return s.Width * s.Height
}

// String formats the shape as WxHxC/domain.
func (s Shape) String() string {
	return fmt.Sprintf("%dx%dx%d/%s", s.Width, s.Height, s.Channels, s.Domain)
}

// Validate checks dimensions, channel count and domain.
func (s Shape) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("raster: size must be positive, got %dx%d: %w", s.Width, s.Height, fx.ErrValidation)
	}

	switch s.Channels {
	case 1, 3, 4:
	default:
		return fmt.Errorf("raster: channels must be 1, 3 or 4, got %d: %w", s.Channels, fx.ErrValidation)
	}

	if s.Domain != Uint8 && s.Domain != Float {
		return fmt.Errorf("raster: unknown domain %v: %w", s.Domain, fx.ErrValidation)
	}

	return nil
}

// Raster is a planar pixel buffer. Samples of channel c live in plane c,
// row-major. Exactly one of bytes or floats is populated, matching the
// domain.
type Raster struct {
	shape  Shape
	bytes  [][]uint8
	floats [][]float64
}

// New allocates a zeroed raster (transparent black when it has alpha).
func New(shape Shape) (*Raster, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}

	r := &Raster{shape: shape}
	n := shape.Pixels()

	if shape.Domain == Uint8 {
		r.bytes = make([][]uint8, shape.Channels)
		for c := range r.bytes {
			r.bytes[c] = make([]uint8, n)
		}
	} else {
		r.floats = make([][]float64, shape.Channels)
		for c := range r.floats {
			r.floats[c] = make([]float64, n)
		}
	}

	return r, nil
}

// Blank returns an opaque black raster with 4 channels and the given size
// and domain. The Channels field of shape is ignored.
func Blank(shape Shape) (*Raster, error) {
	shape.Channels = 4

	r, err := New(shape)
	if err != nil {
		return nil, err
	}

	r.fillPlane(AlphaChannel, 1)

	return r, nil
}

// Shape returns the raster shape.
func (r *Raster) Shape() Shape { return r.shape }

// Width returns the raster width in pixels.
func (r *Raster) Width() int { return r.shape.Width }

// Height returns the raster height in pixels.
func (r *Raster) Height() int { return r.shape.Height }

// Channels returns the number of channels.
func (r *Raster) Channels() int { return r.shape.Channels }

// Domain returns the sample domain.
func (r *Raster) Domain() Domain { return r.shape.Domain }

// HasAlpha reports whether the raster carries an alpha channel.
func (r *Raster) HasAlpha() bool { return r.shape.Channels == 4 }

// At returns the sample at (x, y, c) normalized to [0,1].
func (r *Raster) At(x, y, c int) float64 {
	i := y*r.shape.Width + x
	if r.bytes != nil {
		return float64(r.bytes[c][i]) / 255
	}

	return r.floats[c][i]
}

// Set stores a normalized sample at (x, y, c). Values are clamped to [0,1]
// and, in the Uint8 domain, rounded to the nearest integer.
func (r *Raster) Set(x, y, c int, v float64) {
	r.setIndex(y*r.shape.Width+x, c, v)
}

func (r *Raster) setIndex(i, c int, v float64) {
	if r.bytes != nil {
		r.bytes[c][i] = core.ToUint8(v * 255)
		return
	}

	r.floats[c][i] = core.Clamp(v, 0, 1)
}

func (r *Raster) atIndex(i, c int) float64 {
	if r.bytes != nil {
		return float64(r.bytes[c][i]) / 255
	}

	return r.floats[c][i]
}

// Bytes returns plane c of a Uint8 raster for direct access, or nil for a
// Float raster.
func (r *Raster) Bytes(c int) []uint8 {
	if r.bytes == nil {
		return nil
	}

	return r.bytes[c]
}

// Floats returns plane c of a Float raster for direct access, or nil for a
// Uint8 raster.
func (r *Raster) Floats(c int) []float64 {
	if r.floats == nil {
		return nil
	}

	return r.floats[c]
}

// Plane returns a normalized float64 copy of channel c.
func (r *Raster) Plane(c int) []float64 {
	out := make([]float64, r.shape.Pixels())
	r.PlaneInto(out, c)

	return out
}

// PlaneInto writes channel c, normalized to [0,1], into dst. dst must hold
// Width*Height values.
func (r *Raster) PlaneInto(dst []float64, c int) {
	if r.floats != nil {
		copy(dst, r.floats[c])
		return
	}

	for i, v := range r.bytes[c] {
		dst[i] = float64(v) / 255
	}
}

// SetPlane overwrites channel c from normalized values.
func (r *Raster) SetPlane(c int, src []float64) error {
	if len(src) != r.shape.Pixels() {
		return fmt.Errorf("raster: plane has %d values, want %d: %w", len(src), r.shape.Pixels(), fx.ErrDimensionMismatch)
	}

	for i, v := range src {
		r.setIndex(i, c, v)
	}

	return nil
}

func (r *Raster) fillPlane(c int, v float64) {
	if r.bytes != nil {
		b := core.ToUint8(v * 255)
		for i := range r.bytes[c] {
			r.bytes[c][i] = b
		}

		return
	}

	core.Fill(r.floats[c], v)
}

// Clone returns a deep copy.
func (r *Raster) Clone() *Raster {
	out := &Raster{shape: r.shape}

	if r.bytes != nil {
		out.bytes = make([][]uint8, len(r.bytes))
		for c, p := range r.bytes {
			out.bytes[c] = append([]uint8(nil), p...)
		}
	} else {
		out.floats = make([][]float64, len(r.floats))
		for c, p := range r.floats {
			out.floats[c] = append([]float64(nil), p...)
		}
	}

	return out
}

// Equal reports whether both rasters have the same shape and identical
// samples.
func (r *Raster) Equal(o *Raster) bool {
	if r == nil || o == nil {
		return r == o
	}

	if r.shape != o.shape {
		return false
	}

	for c := 0; c < r.shape.Channels; c++ {
		if r.bytes != nil {
			a, b := r.bytes[c], o.bytes[c]
			for i := range a {
				if a[i] != b[i] {
					return false
				}
			}

			continue
		}

		a, b := r.floats[c], o.floats[c]
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
	}

	return true
}
