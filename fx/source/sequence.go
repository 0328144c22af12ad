package source

import (
	"fmt"

	"github.com/cwbudde/algo-vfx/fx"
	"github.com/cwbudde/algo-vfx/fx/raster"
)

// Sequence is an in-memory list of equally shaped frames. Frame returns the
// stored rasters themselves; callers must not modify them.
type Sequence struct {
	name   string
	frames []*raster.Raster
}

// NewSequence wraps frames. At least one frame is required and every frame
// must share the first frame's shape.
func NewSequence(name string, frames ...*raster.Raster) (*Sequence, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("source: sequence %s: no frames: %w", name, fx.ErrValidation)
	}

	for i, f := range frames {
		if f == nil {
			return nil, fmt.Errorf("source: sequence %s: frame %d is nil: %w", name, i, fx.ErrValidation)
		}

		if f.Shape() != frames[0].Shape() {
			return nil, fmt.Errorf("source: sequence %s: frame %d is %v, frame 0 is %v: %w",
				name, i, f.Shape(), frames[0].Shape(), fx.ErrDimensionMismatch)
		}
	}

	return &Sequence{name: name, frames: frames}, nil
}

func (s *Sequence) Name() string        { return s.name }
func (s *Sequence) Shape() raster.Shape { return s.frames[0].Shape() }
func (s *Sequence) Duration() int       { return len(s.frames) }

// Frame returns frame t.
func (s *Sequence) Frame(t int) (*raster.Raster, error) {
	if err := checkTime(s.name, t, len(s.frames)); err != nil {
		return nil, err
	}
	return s.frames[t], nil
}

// Still shows one frame for a fixed number of frames.
type Still struct {
	name     string
	frame    *raster.Raster
	duration int
}

// NewStill holds frame for duration frames.
func NewStill(name string, frame *raster.Raster, duration int) (*Still, error) {
	if frame == nil {
		return nil, fmt.Errorf("source: still %s: nil frame: %w", name, fx.ErrValidation)
	}

	if duration <= 0 {
		return nil, fmt.Errorf("source: still %s: duration %d: %w", name, duration, fx.ErrValidation)
	}

	return &Still{name: name, frame: frame, duration: duration}, nil
}

func (s *Still) Name() string        { return s.name }
func (s *Still) Shape() raster.Shape { return s.frame.Shape() }
func (s *Still) Duration() int       { return s.duration }

// Frame returns the held frame for any t in [0, Duration).
func (s *Still) Frame(t int) (*raster.Raster, error) {
	if err := checkTime(s.name, t, s.duration); err != nil {
		return nil, err
	}
	return s.frame, nil
}
