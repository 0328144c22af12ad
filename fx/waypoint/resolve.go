package waypoint

import (
	"fmt"

	"github.com/cwbudde/algo-vfx/fx"
	"github.com/cwbudde/algo-vfx/fx/conv"
	"github.com/cwbudde/algo-vfx/fx/interp"
	"github.com/cwbudde/algo-vfx/fx/window"
)

// ResolveOption configures Resolve.
type ResolveOption func(*resolveConfig)

type resolveConfig struct {
	kernel window.Type
}

// WithKernel sets the smoothing window shape. The default is a flat moving
// average.
func WithKernel(t window.Type) ResolveOption {
	return func(c *resolveConfig) {
		c.kernel = t
	}
}

// Resolve expands the waypoints into one dense sequence of length maxTime+1
// per parameter. A smoothing window of 0 disables smoothing; even windows
// are widened by one.
func (tr *Track) Resolve(maxTime, smoothing int, opts ...ResolveOption) (*Resolved, error) {
	cfg := resolveConfig{kernel: window.TypeRectangular}
	for _, opt := range opts {
		opt(&cfg)
	}
	if maxTime < 0 {
		return nil, fmt.Errorf("waypoint: max time %d is negative: %w", maxTime, fx.ErrValidation)
	}
	if smoothing < 0 {
		return nil, fmt.Errorf("waypoint: smoothing window %d is negative: %w", smoothing, fx.ErrValidation)
	}
	times := tr.Times()
	if last := times[len(times)-1]; last > maxTime {
		return nil, fmt.Errorf("waypoint: waypoint at t=%d beyond max time %d: %w", last, maxTime, fx.ErrValidation)
	}

	var kernel []float64
	if smoothing > 0 {
		if smoothing%2 == 0 {
			smoothing++
		}
		k, err := window.Smoothing(cfg.kernel, smoothing)
		if err != nil {
			return nil, fmt.Errorf("waypoint: smoothing kernel: %w", err)
		}
		kernel = k
	}

	res := &Resolved{
		schema:  tr.schema,
		maxTime: maxTime,
		numeric: make(map[string][]float64),
		step:    make(map[string][]any),
	}
	for _, p := range tr.schema.params {
		switch p.Kind {
		case Numeric:
			series, err := tr.resolveNumeric(p.Name, times, maxTime)
			if err != nil {
				return nil, err
			}
			if kernel != nil {
				series, err = smooth(series, kernel)
				if err != nil {
					return nil, fmt.Errorf("waypoint: smooth %q: %w", p.Name, err)
				}
			}
			res.numeric[p.Name] = series
		case Step:
			res.step[p.Name] = tr.resolveStep(p.Name, times, maxTime)
		}
	}
	return res, nil
}

func (tr *Track) resolveNumeric(name string, times []int, maxTime int) ([]float64, error) {
	xs := make([]float64, 0, len(times)+1)
	ys := make([]float64, 0, len(times)+1)
	for _, t := range times {
		xs = append(xs, float64(t))
		ys = append(ys, tr.points[t][name].(float64))
	}
	if last := times[len(times)-1]; last < maxTime {
		xs = append(xs, float64(maxTime))
		ys = append(ys, ys[len(ys)-1])
	}

	var (
		curve interp.Curve
		err   error
	)
	if len(xs) > 3 {
		curve, err = interp.NewCubicSpline(xs, ys)
	} else {
		curve, err = interp.NewLinear(xs, ys)
	}
	if err != nil {
		return nil, fmt.Errorf("waypoint: interpolate %q: %w", name, err)
	}
	return interp.Sample(curve, maxTime+1), nil
}

func (tr *Track) resolveStep(name string, times []int, maxTime int) []any {
	out := make([]any, maxTime+1)
	for i, t := range times {
		end := maxTime + 1
		if i+1 < len(times) {
			end = times[i+1]
		}
		v := tr.points[t][name]
		for j := t; j < end; j++ {
			out[j] = v
		}
	}
	return out
}

// smooth applies a centered window with mirrored edges. The kernel is
// symmetric, so correlation and convolution agree.
func smooth(x, kernel []float64) ([]float64, error) {
	if len(kernel) <= 1 {
		return x, nil
	}
	return conv.Reflect(x, kernel)
}

// Resolved is the dense value table produced by Resolve. It is never
// modified after construction.
type Resolved struct {
	schema  *Schema
	maxTime int
	numeric map[string][]float64
	step    map[string][]any
}

// MaxTime returns the last resolved frame time.
func (r *Resolved) MaxTime() int { return r.maxTime }

// ValueOf returns the value of name at t. Numeric values are float64.
func (r *Resolved) ValueOf(name string, t int) (any, error) {
	if t < 0 || t > r.maxTime {
		return nil, fmt.Errorf("waypoint: time %d outside [0,%d]: %w", t, r.maxTime, fx.ErrValidation)
	}
	if s, ok := r.numeric[name]; ok {
		return s[t], nil
	}
	if s, ok := r.step[name]; ok {
		return s[t], nil
	}
	return nil, fmt.Errorf("waypoint: unknown parameter %q: %w", name, fx.ErrNotFound)
}

// Value is an alias for ValueOf.
func (r *Resolved) Value(name string, t int) (any, error) {
	return r.ValueOf(name, t)
}

// Float returns a numeric value at t. Step parameters holding a number are
// accepted too.
func (r *Resolved) Float(name string, t int) (float64, error) {
	v, err := r.ValueOf(name, t)
	if err != nil {
		return 0, err
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, fmt.Errorf("waypoint: %q at t=%d is %T, not a number: %w", name, t, v, fx.ErrValidation)
	}
	return f, nil
}

// Bool returns a boolean step value at t.
func (r *Resolved) Bool(name string, t int) (bool, error) {
	v, err := r.ValueOf(name, t)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("waypoint: %q at t=%d is %T, not a bool: %w", name, t, v, fx.ErrValidation)
	}
	return b, nil
}

// Series returns a copy of the numeric sequence for name.
func (r *Resolved) Series(name string) ([]float64, bool) {
	s, ok := r.numeric[name]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(s))
	copy(out, s)
	return out, true
}

// Snapshot returns every parameter's value at t.
func (r *Resolved) Snapshot(t int) (Snapshot, error) {
	if t < 0 || t > r.maxTime {
		return nil, fmt.Errorf("waypoint: time %d outside [0,%d]: %w", t, r.maxTime, fx.ErrValidation)
	}
	out := make(Snapshot, len(r.numeric)+len(r.step))
	for k, s := range r.numeric {
		out[k] = s[t]
	}
	for k, s := range r.step {
		out[k] = s[t]
	}
	return out, nil
}
