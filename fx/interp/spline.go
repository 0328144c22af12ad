package interp

// CubicSpline is an interpolating cubic spline with not-a-knot end
// conditions: the third derivative is continuous across the second and the
// second-to-last knot.
type CubicSpline struct {
	xs, ys []float64
	m      []float64 // second derivative at each knot
}

// NewCubicSpline fits a not-a-knot spline through at least four knots.
func NewCubicSpline(xs, ys []float64) (*CubicSpline, error) {
	if err := checkKnots(xs, ys, 4); err != nil {
		return nil, err
	}
	s := &CubicSpline{xs: clone(xs), ys: clone(ys)}
	s.m = notAKnotMoments(s.xs, s.ys)
	return s, nil
}

// At evaluates the spline. Knots return their value exactly and the boundary
// values are held outside the knot range.
func (s *CubicSpline) At(x float64) float64 {
	i, exact, ok := locate(s.xs, x)
	if exact || !ok {
		return s.ys[i]
	}
	x0, x1 := s.xs[i], s.xs[i+1]
	h := x1 - x0
	a := x1 - x
	b := x - x0
	m0, m1 := s.m[i], s.m[i+1]
	return m0*a*a*a/(6*h) + m1*b*b*b/(6*h) +
		(s.ys[i]/h-m0*h/6)*a + (s.ys[i+1]/h-m1*h/6)*b
}

// notAKnotMoments solves for the knot second derivatives. The two boundary
// moments are eliminated so the interior system stays tridiagonal.
func notAKnotMoments(xs, ys []float64) []float64 {
	n := len(xs)
	h := make([]float64, n-1)
	d := make([]float64, n-1)
	for i := range h {
		h[i] = xs[i+1] - xs[i]
		d[i] = (ys[i+1] - ys[i]) / h[i]
	}

	// Unknowns M_1 .. M_{n-2}.
	k := n - 2
	sub := make([]float64, k)
	diag := make([]float64, k)
	sup := make([]float64, k)
	rhs := make([]float64, k)
	for j := 0; j < k; j++ {
		i := j + 1
		sub[j] = h[i-1]
		diag[j] = 2 * (h[i-1] + h[i])
		sup[j] = h[i]
		rhs[j] = 6 * (d[i] - d[i-1])
	}

	// M_0 = ((h0+h1)M_1 - h0 M_2) / h1
	h0, h1 := h[0], h[1]
	diag[0] += h0 * (h0 + h1) / h1
	sup[0] -= h0 * h0 / h1

	// M_{n-1} = ((hp+hl)M_{n-2} - hl M_{n-3}) / hp
	hp, hl := h[n-3], h[n-2]
	diag[k-1] += hl * (hl + hp) / hp
	sub[k-1] -= hl * hl / hp

	inner := solveTridiagonal(sub, diag, sup, rhs)

	m := make([]float64, n)
	copy(m[1:n-1], inner)
	m[0] = ((h0+h1)*m[1] - h0*m[2]) / h1
	m[n-1] = ((hp+hl)*m[n-2] - hl*m[n-3]) / hp
	return m
}

// solveTridiagonal runs the Thomas algorithm. sub[0] and sup[len-1] are
// ignored.
func solveTridiagonal(sub, diag, sup, rhs []float64) []float64 {
	n := len(diag)
	c := make([]float64, n)
	x := make([]float64, n)
	c[0] = sup[0] / diag[0]
	x[0] = rhs[0] / diag[0]
	for i := 1; i < n; i++ {
		den := diag[i] - sub[i]*c[i-1]
		if i < n-1 {
			c[i] = sup[i] / den
		}
		x[i] = (rhs[i] - sub[i]*x[i-1]) / den
	}
	for i := n - 2; i >= 0; i-- {
		x[i] -= c[i] * x[i+1]
	}
	return x
}
