package waypoint

import (
	"fmt"
	"sort"

	"github.com/cwbudde/algo-vfx/fx"
)

// Waypoint is one keyframe in time order.
type Waypoint struct {
	T      int
	Values Snapshot
}

// TrackOption configures a Track.
type TrackOption func(*Track)

// OnChange registers a callback run after every successful edit.
func OnChange(fn func()) TrackOption {
	return func(tr *Track) {
		tr.onChange = fn
	}
}

// Track is a mutable keyframe store bound to a schema.
type Track struct {
	schema   *Schema
	maxTime  int
	points   map[int]Snapshot
	onChange func()
}

// NewTrack creates a track spanning [0, maxTime] with the defaults pinned
// at t=0.
func NewTrack(schema *Schema, maxTime int, opts ...TrackOption) (*Track, error) {
	if schema == nil {
		return nil, fmt.Errorf("waypoint: nil schema: %w", fx.ErrValidation)
	}
	if maxTime < 0 {
		return nil, fmt.Errorf("waypoint: max time %d is negative: %w", maxTime, fx.ErrValidation)
	}
	tr := &Track{
		schema:  schema,
		maxTime: maxTime,
		points:  map[int]Snapshot{0: schema.Defaults()},
	}
	for _, opt := range opts {
		opt(tr)
	}
	return tr, nil
}

// Schema returns the parameter declaration.
func (tr *Track) Schema() *Schema { return tr.schema }

// MaxTime returns the last valid frame time.
func (tr *Track) MaxTime() int { return tr.maxTime }

// Set pins values at t. A t of -1 means maxTime. Every key is validated
// before anything is written; keys not supplied are seeded from the nearest
// waypoint at or before t.
func (tr *Track) Set(t int, values map[string]any) error {
	t, err := tr.checkTime(t)
	if err != nil {
		return err
	}
	norm, err := tr.schema.normalizeAll(values)
	if err != nil {
		return err
	}
	tr.apply(t, norm)
	tr.changed()
	return nil
}

// Add is an alias for Set.
func (tr *Track) Add(t int, values map[string]any) error {
	return tr.Set(t, values)
}

// Remove deletes the waypoint at t. The waypoint at t=0 is reset to the
// defaults instead.
func (tr *Track) Remove(t int) error {
	if t == 0 {
		tr.points[0] = tr.schema.Defaults()
		tr.changed()
		return nil
	}
	if _, ok := tr.points[t]; !ok {
		return fmt.Errorf("waypoint: no waypoint at t=%d: %w", t, fx.ErrNotFound)
	}
	delete(tr.points, t)
	tr.changed()
	return nil
}

// Get returns a copy of the waypoint explicitly set at t.
func (tr *Track) Get(t int) (Snapshot, error) {
	if t == -1 {
		t = tr.maxTime
	}
	s, ok := tr.points[t]
	if !ok {
		return nil, fmt.Errorf("waypoint: no waypoint at t=%d: %w", t, fx.ErrNotFound)
	}
	return s.Clone(), nil
}

// Times returns the waypoint times in ascending order.
func (tr *Track) Times() []int {
	out := make([]int, 0, len(tr.points))
	for t := range tr.points {
		out = append(out, t)
	}
	sort.Ints(out)
	return out
}

// Waypoints returns copies of every waypoint in time order.
func (tr *Track) Waypoints() []Waypoint {
	times := tr.Times()
	out := make([]Waypoint, len(times))
	for i, t := range times {
		out[i] = Waypoint{T: t, Values: tr.points[t].Clone()}
	}
	return out
}

func (tr *Track) checkTime(t int) (int, error) {
	if t == -1 {
		t = tr.maxTime
	}
	if t < 0 || t > tr.maxTime {
		return 0, fmt.Errorf("waypoint: time %d outside [0,%d]: %w", t, tr.maxTime, fx.ErrValidation)
	}
	return t, nil
}

// apply writes already normalized values.
func (tr *Track) apply(t int, values Snapshot) {
	seed := tr.points[tr.floor(t)].Clone()
	for k, v := range values {
		seed[k] = v
	}
	tr.points[t] = seed
}

// floor returns the latest waypoint time at or before t.
func (tr *Track) floor(t int) int {
	best := 0
	for pt := range tr.points {
		if pt <= t && pt > best {
			best = pt
		}
	}
	return best
}

func (tr *Track) changed() {
	if tr.onChange != nil {
		tr.onChange()
	}
}
