package render

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/cwbudde/algo-vfx/fx"
	"github.com/cwbudde/algo-vfx/fx/raster"
)

// Source supplies base frames. layer.Clip and every fx/source type satisfy
// it.
type Source interface {
	Duration() int
	Frame(t int) (*raster.Raster, error)
}

// Effect transforms the frame at the clock's current time. *effect.Instance
// satisfies it.
type Effect interface {
	Name() string
	Render(frame *raster.Raster) (*raster.Raster, error)
}

// Renderer runs the frame loop.
type Renderer struct {
	src     Source
	clock   *Clock
	effects []Effect
	logger  *slog.Logger
}

// Option configures a [Renderer].
type Option func(*Renderer)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithEffects appends effects, applied in the order given.
func WithEffects(effects ...Effect) Option {
	return func(r *Renderer) { r.effects = append(r.effects, effects...) }
}

// New returns a Renderer over src. Effects must have been created against
// clock, whose max time must cover the source.
func New(src Source, clock *Clock, opts ...Option) (*Renderer, error) {
	if src == nil || clock == nil {
		return nil, fmt.Errorf("render: nil source or clock: %w", fx.ErrValidation)
	}

	if d := src.Duration(); d <= 0 || clock.MaxTime() < d-1 {
		return nil, fmt.Errorf("render: source of %d frames, clock ends at %d: %w", d, clock.MaxTime(), fx.ErrValidation)
	}

	r := &Renderer{src: src, clock: clock, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(r)
	}

	for i, e := range r.effects {
		if e == nil {
			return nil, fmt.Errorf("render: effect %d is nil: %w", i, fx.ErrValidation)
		}
	}

	return r, nil
}

// Interval resolves a render range over duration frames into a half-open
// [start, end). A negative end counts from the back: -1 is through the last
// frame, -2 stops one frame earlier.
func Interval(start, end, duration int) (int, int, error) {
	if end < 0 {
		end = duration + end + 1
	}

	if start < 0 || end > duration || start > end {
		return 0, 0, fmt.Errorf("render: interval [%d,%d) outside %d frames: %w", start, end, duration, fx.ErrValidation)
	}

	return start, end, nil
}

// Run renders frames start through end-1 into w, with end resolved as in
// [Interval], and returns the number of frames written. The first error
// stops the loop.
func (r *Renderer) Run(w Writer, start, end int) (int, error) {
	start, end, err := Interval(start, end, r.src.Duration())
	if err != nil {
		return 0, err
	}

	r.logger.Info("render: start", "from", start, "to", end, "effects", len(r.effects))
	began := time.Now()

	written := 0
	for t := start; t < end; t++ {
		frame, err := r.Frame(t)
		if err != nil {
			return written, err
		}

		if err := w.Write(t, frame); err != nil {
			return written, err
		}

		written++
		r.logger.Debug("render: frame", "t", t)
	}

	r.logger.Info("render: done", "frames", written, "elapsed", time.Since(began))

	return written, nil
}

// Frame sets the clock to t and returns the fully processed frame without
// writing it.
func (r *Renderer) Frame(t int) (*raster.Raster, error) {
	if err := r.clock.Set(t); err != nil {
		return nil, err
	}

	frame, err := r.src.Frame(t)
	if err != nil {
		return nil, fmt.Errorf("render: source frame %d: %w", t, err)
	}

	for _, e := range r.effects {
		frame, err = e.Render(frame)
		if err != nil {
			return nil, fmt.Errorf("render: frame %d: %s: %w", t, e.Name(), err)
		}
	}

	return frame, nil
}
