package render

import (
	"fmt"

	"github.com/cwbudde/algo-vfx/fx"
)

// Clock is the shared current time of one render.
type Clock struct {
	now     int
	maxTime int
}

// NewClock returns a clock at t=0 for frames 0..maxTime.
func NewClock(maxTime int) (*Clock, error) {
	if maxTime < 0 {
		return nil, fmt.Errorf("render: clock: max time %d: %w", maxTime, fx.ErrValidation)
	}
	return &Clock{maxTime: maxTime}, nil
}

// Now returns the frame being rendered.
func (c *Clock) Now() int { return c.now }

// MaxTime returns the last frame index.
func (c *Clock) MaxTime() int { return c.maxTime }

// Set moves the clock to t.
func (c *Clock) Set(t int) error {
	if t < 0 || t > c.maxTime {
		return fmt.Errorf("render: clock: time %d outside [0,%d]: %w", t, c.maxTime, fx.ErrValidation)
	}
	c.now = t
	return nil
}
