// Package raster provides the pixel buffer shared by every frame effect and
// the alpha-compositing operator used wherever frames are merged.
//
// A [Raster] stores width × height pixels with 1, 3 or 4 channels (channel 3
// is alpha) in exactly one numeric [Domain]:
//
//   - [Uint8]: integer samples in [0,255]
//   - [Float]: float64 samples in [0,1]
//
// The domain never changes after construction; [Raster.ToFloat] and
// [Raster.ToUint8] return converted copies, rounding to nearest with
// clamping.
//
// [Over] places one raster above another using straight-alpha source-over
// compositing. The operator is associative, so stacking any number of
// layers bottom to top gives the same result regardless of grouping.
package raster
