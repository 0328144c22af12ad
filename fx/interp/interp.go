package interp

import (
	"errors"
	"fmt"
	"sort"
)

// Errors returned by curve constructors.
var (
	ErrLengthMismatch = errors.New("interp: knot and value lengths differ")
	ErrTooFewKnots    = errors.New("interp: too few knots")
	ErrUnsortedKnots  = errors.New("interp: knots must be strictly increasing")
)

// Curve evaluates an interpolant at an arbitrary abscissa.
type Curve interface {
	At(x float64) float64
}

// Linear is a piecewise linear curve.
type Linear struct {
	xs, ys []float64
}

// NewLinear builds a linear curve through at least one knot.
func NewLinear(xs, ys []float64) (*Linear, error) {
	if err := checkKnots(xs, ys, 1); err != nil {
		return nil, err
	}
	return &Linear{xs: clone(xs), ys: clone(ys)}, nil
}

// At evaluates the curve. Outside the knot range the boundary value is held.
func (l *Linear) At(x float64) float64 {
	i, exact, ok := locate(l.xs, x)
	if exact || !ok {
		return l.ys[i]
	}
	x0, x1 := l.xs[i], l.xs[i+1]
	frac := (x - x0) / (x1 - x0)
	return l.ys[i] + frac*(l.ys[i+1]-l.ys[i])
}

// Sample evaluates c at 0, 1, ..., n-1.
func Sample(c Curve, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = c.At(float64(i))
	}
	return out
}

// locate finds the segment containing x. It returns the index of the knot
// to use when x hits a knot exactly or lies outside the range (ok=false).
func locate(xs []float64, x float64) (i int, exact, ok bool) {
	n := len(xs)
	if x <= xs[0] {
		return 0, x == xs[0], false
	}
	if x >= xs[n-1] {
		return n - 1, x == xs[n-1], false
	}
	j := sort.SearchFloat64s(xs, x)
	if xs[j] == x {
		return j, true, true
	}
	return j - 1, false, true
}

func checkKnots(xs, ys []float64, minKnots int) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("%w: %d knots, %d values", ErrLengthMismatch, len(xs), len(ys))
	}
	if len(xs) < minKnots {
		return fmt.Errorf("%w: need %d, got %d", ErrTooFewKnots, minKnots, len(xs))
	}
	for i := 1; i < len(xs); i++ {
		if !(xs[i] > xs[i-1]) {
			return fmt.Errorf("%w: x[%d]=%v after %v", ErrUnsortedKnots, i, xs[i], xs[i-1])
		}
	}
	return nil
}

func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
