package effect

import (
	"log/slog"

	"github.com/cwbudde/algo-vfx/fx/raster"
	"github.com/cwbudde/algo-vfx/fx/waypoint"
)

// Kernel is the pixel transform of one effect.
type Kernel interface {
	// Prepare runs once per bake, after the waypoints have been resolved.
	Prepare(ctx BakeContext) error
	// Apply transforms frame, a private copy the kernel may modify, using
	// the parameter values for the current frame.
	Apply(frame *raster.Raster, v Values) (*raster.Raster, error)
}

// Stepper is implemented by kernels with state that evolves frame by frame.
type Stepper interface {
	// Reset returns the state to its value before frame 0.
	Reset()
	// Step advances the state to frame t.
	Step(t int, v Values) error
}

// Timeline supplies the frame being rendered.
type Timeline interface {
	Now() int
	MaxTime() int
}

// BakeContext is handed to Kernel.Prepare.
type BakeContext struct {
	Name     string
	MaxTime  int
	Resolved *waypoint.Resolved
	Seed     int64
	Args     map[string]any
	Logger   *slog.Logger
}

// Arg returns the bake argument key, or def when unset.
func (c BakeContext) Arg(key string, def any) any {
	if v, ok := c.Args[key]; ok {
		return v
	}
	return def
}

// Values holds every parameter's value at one frame.
type Values struct {
	T    int
	snap waypoint.Snapshot
}

// NewValues wraps a snapshot taken at frame t.
func NewValues(t int, snap waypoint.Snapshot) Values {
	return Values{T: t, snap: snap}
}

// Get returns the raw value of name, or nil.
func (v Values) Get(name string) any {
	return v.snap[name]
}

// Float returns name as float64. Missing or non-numeric values yield 0.
func (v Values) Float(name string) float64 {
	switch n := v.snap[name].(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

// Bool returns name as bool. Missing or non-bool values yield false.
func (v Values) Bool(name string) bool {
	b, _ := v.snap[name].(bool)
	return b
}

// String returns name as string. Missing or non-string values yield "".
func (v Values) String(name string) string {
	s, _ := v.snap[name].(string)
	return s
}

// Raster returns name as a raster, or nil.
func (v Values) Raster(name string) *raster.Raster {
	r, _ := v.snap[name].(*raster.Raster)
	return r
}
