package conv

// Mirror maps any index onto [0, n) by reflecting about the edge samples
// without repeating them (…, 2, 1, 0, 1, 2, …, n-2, n-1, n-2, …).
func Mirror(i, n int) int {
	if n <= 1 {
		return 0
	}
	period := 2 * (n - 1)
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - i
	}
	return i
}

// PadReflect returns x extended by pad mirrored samples on each side.
func PadReflect(x []float64, pad int) []float64 {
	n := len(x)
	out := make([]float64, n+2*pad)
	for i := range out {
		out[i] = x[Mirror(i-pad, n)]
	}
	return out
}

// Reflect filters x with an odd-length kernel centered on each sample, using
// mirrored edges. The output has the same length as x.
func Reflect(x, kernel []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptyInput
	}
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}
	if len(kernel)%2 == 0 {
		return nil, ErrLengthMismatch
	}
	half := len(kernel) / 2
	full, err := Convolve(PadReflect(x, half), kernel)
	if err != nil {
		return nil, err
	}
	// Valid region of the padded convolution.
	return full[2*half : 2*half+len(x)], nil
}
