// Package conv provides the linear convolutions used for blurring luma planes
// and smoothing parameter tracks.
//
//   - [Direct]: O(N*M) time-domain convolution, best for short kernels
//   - [OverlapAdd]: FFT block convolution, reusable across many rows
//   - [Convolve]: picks one of the two from the kernel length
//   - [Reflect]: centered, length-preserving filtering with mirrored edges
//
// For repeated convolution with the same kernel, create a reusable convolver:
//
//	oa, err := conv.NewOverlapAdd(kernel, 0)
//	out, err := oa.Process(row)
package conv
