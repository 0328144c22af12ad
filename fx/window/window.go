// Package window generates the smoothing kernels applied to parameter tracks
// and the blur kernels used for background differencing.
package window

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window shape.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeTriangle
	TypeGauss
)

var (
	errInvalidSize  = errors.New("window: size must be > 0")
	errInvalidSigma = errors.New("window: sigma must be > 0")
	errZeroSum      = errors.New("window: coefficients sum to zero")
	errUnknownType  = errors.New("window: unknown type")
)

var typeNames = map[Type]string{
	TypeRectangular: "rectangular",
	TypeHann:        "hann",
	TypeTriangle:    "triangle",
	TypeGauss:       "gauss",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType maps a configuration name to a window type.
func ParseType(name string) (Type, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || key == "flat" || key == "boxcar" {
		return TypeRectangular, nil
	}
	for t, s := range typeNames {
		if s == key {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", errUnknownType, name)
}

// Option configures window generation.
type Option func(*config)

type config struct {
	alpha float64
}

// WithAlpha sets the Gauss shape parameter. Larger values narrow the bell.
func WithAlpha(v float64) Option {
	return func(c *config) {
		if v > 0 {
			c.alpha = v
		}
	}
}

// Generate returns symmetric window coefficients of the given size.
func Generate(t Type, size int, opts ...Option) []float64 {
	if size <= 0 {
		return nil
	}
	cfg := config{alpha: 1}
	for _, opt := range opts {
		opt(&cfg)
	}
	out := make([]float64, size)
	for n := range out {
		out[n] = valueAt(t, position(n, size), cfg)
	}
	return out
}

// position maps sample n to [0,1] across a symmetric window.
func position(n, size int) float64 {
	if size <= 1 {
		return 0.5
	}
	return float64(n) / float64(size-1)
}

func valueAt(t Type, x float64, cfg config) float64 {
	switch t {
	case TypeHann:
		return 0.5 - 0.5*math.Cos(2*math.Pi*x)
	case TypeTriangle:
		return 1 - math.Abs(2*x-1)
	case TypeGauss:
		v := (2*x - 1) * cfg.alpha
		return math.Exp(-math.Ln2 * v * v)
	default:
		return 1
	}
}

// Normalize scales coeffs in place so they sum to one.
func Normalize(coeffs []float64) error {
	sum := vecmath.Sum(coeffs)
	if sum == 0 {
		return errZeroSum
	}
	vecmath.ScaleBlockInPlace(coeffs, 1/sum)
	return nil
}

// Smoothing returns a unit-gain kernel of the given size. Hann and triangle
// windows of size 1 or 2 would have zero endpoints only, so they fall back to
// rectangular below size 3.
func Smoothing(t Type, size int) ([]float64, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", errInvalidSize, size)
	}
	if size < 3 {
		t = TypeRectangular
	}
	var k []float64
	switch t {
	case TypeHann, TypeTriangle:
		// Drop the zero endpoints so every tap contributes.
		k = Generate(t, size+2)[1 : size+1]
	default:
		k = Generate(t, size)
	}
	if err := Normalize(k); err != nil {
		return nil, err
	}
	return k, nil
}

// GaussianKernel returns a normalized Gaussian of standard deviation sigma
// samples, truncated at three sigma.
func GaussianKernel(sigma float64) ([]float64, error) {
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return nil, fmt.Errorf("%w: %v", errInvalidSigma, sigma)
	}
	half := int(math.Ceil(3 * sigma))
	size := 2*half + 1
	// exp(-ln2 ((2x-1)a)^2) == exp(-d^2/(2 sigma^2)) for d = (x-0.5)(size-1)
	alpha := float64(size-1) / (2 * sigma * math.Sqrt(2*math.Ln2))
	k := Generate(TypeGauss, size, WithAlpha(alpha))
	if err := Normalize(k); err != nil {
		return nil, err
	}
	return k, nil
}
