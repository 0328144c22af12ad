package conv

import (
	"errors"

	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by convolution functions.
var (
	ErrEmptyInput     = errors.New("conv: empty input")
	ErrEmptyKernel    = errors.New("conv: empty kernel")
	ErrLengthMismatch = errors.New("conv: buffer length mismatch")
)

// directThreshold is the kernel length from which FFT convolution wins.
const directThreshold = 32

// Direct performs time-domain linear convolution of a and b.
// Returns a new slice of length len(a) + len(b) - 1.
func Direct(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}
	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}
	result := make([]float64, len(a)+len(b)-1)
	DirectTo(result, a, b)
	return result, nil
}

// DirectTo performs direct convolution into dst, which must have length
// len(a) + len(b) - 1.
func DirectTo(dst, a, b []float64) {
	for i := range dst {
		dst[i] = 0
	}
	m := len(b)
	if m < 4 {
		for i, av := range a {
			for j, bv := range b {
				dst[i+j] += av * bv
			}
		}
		return
	}
	temp := make([]float64, m)
	for i, av := range a {
		vecmath.ScaleBlock(temp, b, av)
		vecmath.AddBlockInPlace(dst[i:i+m], temp)
	}
}

// Convolve returns the full linear convolution, choosing the direct or FFT
// path from the kernel length.
func Convolve(signal, kernel []float64) ([]float64, error) {
	if len(kernel) < directThreshold {
		return Direct(signal, kernel)
	}
	if len(signal) == 0 {
		return nil, ErrEmptyInput
	}
	oa, err := NewOverlapAdd(kernel, 0)
	if err != nil {
		return nil, err
	}
	return oa.Process(signal)
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
