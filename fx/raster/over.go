package raster

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-vfx/fx"
	"github.com/cwbudde/algo-vfx/fx/core"
)

// Over composites top above bottom and returns a new raster. Both inputs
// must have 4 channels and equal shapes; neither is modified.
//
// With αt and αb the normalized alphas:
//
//	out.a   = αt + αb·(1-αt)
//	out.rgb = (top.rgb·αt + bottom.rgb·αb·(1-αt)) / out.a
//
// Over an opaque bottom this is top.rgb·αt + bottom.rgb·(1-αt). Where
// out.a is zero the bottom color is kept. Uint8 samples are computed in
// float64 and rounded to nearest.
func Over(bottom, top *Raster) (*Raster, error) {
	if err := checkPair(bottom, top); err != nil {
		return nil, err
	}

	out, _ := New(bottom.shape)
	n := bottom.shape.Pixels()

	if bottom.shape.Domain == Uint8 {
		overBytes(out, bottom, top, n)
	} else {
		overFloats(out, bottom, top, n)
	}

	return out, nil
}

func checkPair(bottom, top *Raster) error {
	if bottom == nil || top == nil {
		return fmt.Errorf("raster: over: nil raster: %w", fx.ErrValidation)
	}

	if bottom.shape.Channels != 4 || top.shape.Channels != 4 {
		return fmt.Errorf("raster: over: bottom has %d channels, top has %d: %w",
			bottom.shape.Channels, top.shape.Channels, fx.ErrMissingAlphaChannel)
	}

	if bottom.shape != top.shape {
		return fmt.Errorf("raster: over: bottom %v, top %v: %w", bottom.shape, top.shape, fx.ErrDimensionMismatch)
	}

	return nil
}

func overBytes(out, bottom, top *Raster, n int) {
	for i := 0; i < n; i++ {
		ta := top.bytes[AlphaChannel][i]

		switch ta {
		case 0:
			for c := 0; c < 4; c++ {
				out.bytes[c][i] = bottom.bytes[c][i]
			}

			continue
		case 255:
			for c := 0; c < 4; c++ {
				out.bytes[c][i] = top.bytes[c][i]
			}

			continue
		}

		at := float64(ta) / 255
		wb := float64(bottom.bytes[AlphaChannel][i]) / 255 * (1 - at)
		oa := at + wb

		for c := 0; c < 3; c++ {
			if oa == 0 {
				out.bytes[c][i] = bottom.bytes[c][i]
				continue
			}

			v := (float64(top.bytes[c][i])*at + float64(bottom.bytes[c][i])*wb) / oa
			out.bytes[c][i] = core.ToUint8(v)
		}

		out.bytes[AlphaChannel][i] = core.ToUint8(oa * 255)
	}
}

func overFloats(out, bottom, top *Raster, n int) {
	for i := 0; i < n; i++ {
		at := top.floats[AlphaChannel][i]

		switch {
		case at <= 0:
			for c := 0; c < 4; c++ {
				out.floats[c][i] = bottom.floats[c][i]
			}

			continue
		case at >= 1:
			for c := 0; c < 4; c++ {
				out.floats[c][i] = top.floats[c][i]
			}

			continue
		}

		wb := bottom.floats[AlphaChannel][i] * (1 - at)
		oa := at + wb

		for c := 0; c < 3; c++ {
			if oa == 0 {
				out.floats[c][i] = bottom.floats[c][i]
				continue
			}

			v := (top.floats[c][i]*at + bottom.floats[c][i]*wb) / oa
			out.floats[c][i] = core.Clamp(v, 0, 1)
		}

		out.floats[AlphaChannel][i] = core.Clamp(oa, 0, 1)
	}
}

// ScaleAlpha returns a copy of r with its alpha plane multiplied by k,
// which is clamped to [0,1]. k == 1 returns a plain clone so no rounding is
// introduced.
func ScaleAlpha(r *Raster, k float64) (*Raster, error) {
	if !r.HasAlpha() {
		return nil, fmt.Errorf("raster: scale alpha: %w", fx.ErrMissingAlphaChannel)
	}

	out := r.Clone()
	if k == 1 {
		return out, nil
	}

	k = core.Clamp(k, 0, 1)

	if out.floats != nil {
		vecmath.ScaleBlockInPlace(out.floats[AlphaChannel], k)
		return out, nil
	}

	plane := out.Plane(AlphaChannel)
	vecmath.ScaleBlockInPlace(plane, k)
	_ = out.SetPlane(AlphaChannel, plane)

	return out, nil
}

// ReplaceAlpha returns a 4-channel copy of r whose alpha plane is taken
// from the normalized values in alpha.
func ReplaceAlpha(r *Raster, alpha []float64) (*Raster, error) {
	out := r.WithAlpha()
	if err := out.SetPlane(AlphaChannel, alpha); err != nil {
		return nil, err
	}

	return out, nil
}

// Mix blends src toward dst per pixel: weight 0 keeps dst, weight 1 takes
// src. It is computed as Over(opaque dst, src with alpha = weight), so the
// result follows the same rounding as every other composite. The output
// alpha channel is dst's own alpha.
func Mix(dst, src *Raster, weight []float64) (*Raster, error) {
	if dst.shape != src.shape {
		return nil, fmt.Errorf("raster: mix: %v vs %v: %w", dst.shape, src.shape, fx.ErrDimensionMismatch)
	}

	if len(weight) != dst.shape.Pixels() {
		return nil, fmt.Errorf("raster: mix: %d weights for %d pixels: %w", len(weight), dst.shape.Pixels(), fx.ErrDimensionMismatch)
	}

	ones := make([]float64, len(weight))
	core.Fill(ones, 1)

	bottom, err := ReplaceAlpha(dst, ones)
	if err != nil {
		return nil, err
	}

	top, err := ReplaceAlpha(src, weight)
	if err != nil {
		return nil, err
	}

	mixed, err := Over(bottom, top)
	if err != nil {
		return nil, err
	}

	if dst.shape.Channels == 4 {
		_ = mixed.SetPlane(AlphaChannel, dst.Plane(AlphaChannel))
		return mixed, nil
	}

	return mixed.dropAlpha(dst.shape.Channels), nil
}

func (r *Raster) dropAlpha(channels int) *Raster {
	shape := r.shape
	shape.Channels = channels
	out, _ := New(shape)

	if channels == 1 {
		_ = out.SetPlane(0, r.Luma())
		return out
	}

	for c := 0; c < channels; c++ {
		_ = out.SetPlane(c, r.Plane(c))
	}

	return out
}
