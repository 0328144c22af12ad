package layer

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vfx/fx"
	"github.com/cwbudde/algo-vfx/fx/raster"
)

// Clip is a finite, time-indexed frame source.
type Clip interface {
	Name() string
	Shape() raster.Shape
	Duration() int
	Frame(t int) (*raster.Raster, error)
}

// ID addresses a registered clip by name or by layer.
type ID struct {
	name    string
	layer   int
	byLayer bool
}

// ByName addresses the clip registered under name.
func ByName(name string) ID { return ID{name: name} }

// ByLayer addresses the clip currently drawn at layer (0 = bottom).
func ByLayer(layer int) ID { return ID{layer: layer, byLayer: true} }

func (id ID) String() string {
	if id.byLayer {
		return fmt.Sprintf("layer %d", id.layer)
	}
	return fmt.Sprintf("%q", id.name)
}

type entry struct {
	clip  Clip
	start int
	alpha float64
}

// Compositor stacks clips and composites the active ones per frame.
type Compositor struct {
	name    string
	entries []entry
	byName  map[string]int
	order   order
	shape   raster.Shape
}

// New returns an empty compositor. The name is what the compositor reports
// when it is itself added to another stack.
func New(name string) *Compositor {
	return &Compositor{name: name, byName: map[string]int{}}
}

// AddOption configures a clip on [Compositor.Add].
type AddOption func(*addConfig)

type addConfig struct {
	layer    int
	hasLayer bool
	start    int
	alpha    float64
}

// AtLayer inserts the clip at layer, shifting clips at and above it up.
// Without it the clip goes on top.
func AtLayer(layer int) AddOption {
	return func(c *addConfig) {
		c.layer = layer
		c.hasLayer = true
	}
}

// StartAt sets the global time at which the clip's frame 0 is shown.
func StartAt(start int) AddOption {
	return func(c *addConfig) { c.start = start }
}

// WithAlpha sets the clip opacity in (0,1].
func WithAlpha(alpha float64) AddOption {
	return func(c *addConfig) { c.alpha = alpha }
}

// Add registers clip. Every check runs before the stack is touched.
func (c *Compositor) Add(clip Clip, opts ...AddOption) error {
	if clip == nil {
		return fmt.Errorf("layer: add: nil clip: %w", fx.ErrValidation)
	}

	cfg := addConfig{layer: c.Len(), alpha: 1}
	for _, opt := range opts {
		opt(&cfg)
	}

	name := clip.Name()
	if _, ok := c.byName[name]; ok {
		return fmt.Errorf("layer: add %q: %w", name, fx.ErrDuplicateName)
	}

	shape := clip.Shape()
	if err := shape.Validate(); err != nil {
		return fmt.Errorf("layer: add %q: %w", name, err)
	}

	if c.Len() > 0 && !sameFrame(c.shape, shape) {
		return fmt.Errorf("layer: add %q: shape %v, stack uses %v: %w", name, shape, c.shape, fx.ErrDimensionMismatch)
	}

	if err := checkAlpha(cfg.alpha); err != nil {
		return fmt.Errorf("layer: add %q: %w", name, err)
	}

	if cfg.layer < 0 || cfg.layer > c.Len() {
		return fmt.Errorf("layer: add %q at layer %d of %d: %w", name, cfg.layer, c.Len(), fx.ErrLayerRange)
	}

	if err := c.order.insert(cfg.layer); err != nil {
		return err
	}

	if c.Len() == 1 {
		c.shape = shape
		c.shape.Channels = 4
	}

	c.byName[name] = len(c.entries)
	c.entries = append(c.entries, entry{clip: clip, start: cfg.start, alpha: cfg.alpha})

	return nil
}

// Remove unregisters the clip addressed by id. Layers above it move down.
func (c *Compositor) Remove(id ID) error {
	idx, err := c.resolve(id)
	if err != nil {
		return err
	}

	if err := c.order.remove(c.order.clipToLayer[idx]); err != nil {
		return err
	}

	delete(c.byName, c.entries[idx].clip.Name())
	c.entries = append(c.entries[:idx], c.entries[idx+1:]...)
	for name, i := range c.byName {
		if i > idx {
			c.byName[name] = i - 1
		}
	}

	return nil
}

// Raise moves the clip one layer up, or to the top when toTop is set. A clip
// already on top stays where it is.
func (c *Compositor) Raise(id ID, toTop bool) error {
	layer, err := c.Layer(id)
	if err != nil {
		return err
	}

	top := c.Len() - 1
	switch {
	case layer == top:
		return nil
	case toTop:
		return c.order.move(layer, top)
	default:
		return c.order.swap(layer, layer+1)
	}
}

// Lower moves the clip one layer down, or to the bottom when toBottom is
// set. A clip already at the bottom stays where it is.
func (c *Compositor) Lower(id ID, toBottom bool) error {
	layer, err := c.Layer(id)
	if err != nil {
		return err
	}

	switch {
	case layer == 0:
		return nil
	case toBottom:
		return c.order.move(layer, 0)
	default:
		return c.order.swap(layer, layer-1)
	}
}

// SetLayer moves the clip to layer, shifting the clips in between.
func (c *Compositor) SetLayer(id ID, layer int) error {
	from, err := c.Layer(id)
	if err != nil {
		return err
	}

	if layer < 0 || layer >= c.Len() {
		return fmt.Errorf("layer: set layer of %v to %d of %d: %w", id, layer, c.Len(), fx.ErrLayerRange)
	}

	return c.order.move(from, layer)
}

// Layer returns the current layer of the clip.
func (c *Compositor) Layer(id ID) (int, error) {
	idx, err := c.resolve(id)
	if err != nil {
		return 0, err
	}
	return c.order.clipToLayer[idx], nil
}

// SetStart sets the global start time of the clip.
func (c *Compositor) SetStart(id ID, start int) error {
	idx, err := c.resolve(id)
	if err != nil {
		return err
	}
	c.entries[idx].start = start
	return nil
}

// ShiftStart moves the clip's start time by delta frames.
func (c *Compositor) ShiftStart(id ID, delta int) error {
	idx, err := c.resolve(id)
	if err != nil {
		return err
	}
	c.entries[idx].start += delta
	return nil
}

// Start returns the global start time of the clip.
func (c *Compositor) Start(id ID) (int, error) {
	idx, err := c.resolve(id)
	if err != nil {
		return 0, err
	}
	return c.entries[idx].start, nil
}

// SetAlpha sets the clip opacity. Values outside (0,1] are rejected.
func (c *Compositor) SetAlpha(id ID, alpha float64) error {
	idx, err := c.resolve(id)
	if err != nil {
		return err
	}

	if err := checkAlpha(alpha); err != nil {
		return fmt.Errorf("layer: set alpha of %v: %w", id, err)
	}

	c.entries[idx].alpha = alpha

	return nil
}

// Alpha returns the clip opacity.
func (c *Compositor) Alpha(id ID) (float64, error) {
	idx, err := c.resolve(id)
	if err != nil {
		return 0, err
	}
	return c.entries[idx].alpha, nil
}

// Clips returns the clips bottom to top.
func (c *Compositor) Clips() []Clip {
	out := make([]Clip, c.Len())
	for l, idx := range c.order.layerToClip {
		out[l] = c.entries[idx].clip
	}
	return out
}

// Names returns the clip names bottom to top.
func (c *Compositor) Names() []string {
	out := make([]string, c.Len())
	for l, idx := range c.order.layerToClip {
		out[l] = c.entries[idx].clip.Name()
	}
	return out
}

// Starts returns the clip start times bottom to top.
func (c *Compositor) Starts() []int {
	out := make([]int, c.Len())
	for l, idx := range c.order.layerToClip {
		out[l] = c.entries[idx].start
	}
	return out
}

// Alphas returns the clip opacities bottom to top.
func (c *Compositor) Alphas() []float64 {
	out := make([]float64, c.Len())
	for l, idx := range c.order.layerToClip {
		out[l] = c.entries[idx].alpha
	}
	return out
}

// Name returns the compositor name.
func (c *Compositor) Name() string { return c.name }

// Shape returns the composite frame shape: the clips' size and domain with
// 4 channels. It is the zero Shape while the stack is empty.
func (c *Compositor) Shape() raster.Shape { return c.shape }

// Len returns the number of registered clips.
func (c *Compositor) Len() int { return c.order.len() }

// Duration returns the end of the last clip, start+duration maximized over
// all clips, or 0 for an empty stack.
func (c *Compositor) Duration() int {
	end := 0
	for _, e := range c.entries {
		end = max(end, e.start+e.clip.Duration())
	}
	return end
}

// Frame composites the clips active at global time t, bottom to top. Each
// clip frame is pre-scaled by its opacity. With no active clip the result is
// opaque black.
func (c *Compositor) Frame(t int) (*raster.Raster, error) {
	if c.Len() == 0 {
		return nil, fmt.Errorf("layer: frame %d: no clips registered: %w", t, fx.ErrNotFound)
	}

	var out *raster.Raster
	for _, idx := range c.order.layerToClip {
		e := c.entries[idx]
		if t < e.start || t >= e.start+e.clip.Duration() {
			continue
		}

		frame, err := c.clipFrame(e, t-e.start)
		if err != nil {
			return nil, err
		}

		if out == nil {
			out = frame
			continue
		}

		out, err = raster.Over(out, frame)
		if err != nil {
			return nil, fmt.Errorf("layer: frame %d: composite %q: %w", t, e.clip.Name(), err)
		}
	}

	if out == nil {
		return raster.Blank(c.shape)
	}

	return out, nil
}

func (c *Compositor) clipFrame(e entry, local int) (*raster.Raster, error) {
	name := e.clip.Name()

	frame, err := e.clip.Frame(local)
	if err != nil {
		return nil, fmt.Errorf("layer: clip %q frame %d: %w", name, local, err)
	}

	if frame == nil {
		return nil, fmt.Errorf("layer: clip %q frame %d: nil frame: %w", name, local, fx.ErrValidation)
	}

	if !sameFrame(frame.Shape(), c.shape) {
		return nil, fmt.Errorf("layer: clip %q frame %d: shape %v, stack uses %v: %w",
			name, local, frame.Shape(), c.shape, fx.ErrDimensionMismatch)
	}

	// WithAlpha and ScaleAlpha both copy, so the clip's frame is never
	// written to.
	frame = frame.WithAlpha()
	if e.alpha == 1 {
		return frame, nil
	}

	return raster.ScaleAlpha(frame, e.alpha)
}

func (c *Compositor) resolve(id ID) (int, error) {
	if id.byLayer {
		if id.layer < 0 || id.layer >= c.Len() {
			return 0, fmt.Errorf("layer: %v of %d: %w", id, c.Len(), fx.ErrLayerRange)
		}
		return c.order.layerToClip[id.layer], nil
	}

	idx, ok := c.byName[id.name]
	if !ok {
		return 0, fmt.Errorf("layer: clip %v: %w", id, fx.ErrNotFound)
	}

	return idx, nil
}

func sameFrame(a, b raster.Shape) bool {
	return a.Width == b.Width && a.Height == b.Height && a.Domain == b.Domain
}

var errAlphaRange = errors.New("alpha must be in (0,1]")

func checkAlpha(alpha float64) error {
	if math.IsNaN(alpha) || alpha <= 0 || alpha > 1 {
		return fmt.Errorf("%w: %v: %w", errAlphaRange, alpha, fx.ErrValidation)
	}
	return nil
}
