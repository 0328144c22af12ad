package fx

import "errors"

var (
	// ErrValidation reports bad input rejected before any mutation:
	// unknown parameter names, out-of-range times, malformed waypoint
	// tables, opacity outside its range.
	ErrValidation = errors.New("validation error")

	// ErrNotFound reports a missing waypoint, clip or named entry.
	ErrNotFound = errors.New("not found")

	// ErrLayerRange reports a layer index outside the registered layers.
	ErrLayerRange = errors.New("layer index out of range")

	// ErrDimensionMismatch reports rasters or clips of differing shape.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrMissingAlphaChannel reports a raster without an alpha channel
	// where compositing needs one.
	ErrMissingAlphaChannel = errors.New("missing alpha channel")

	// ErrDuplicateName reports a clip name registered twice.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrSequencing reports a render call whose time index did not move
	// forward.
	ErrSequencing = errors.New("time may not run backwards")

	// ErrStateConsistency reports a broken internal invariant. It
	// indicates a bug, not a usage error.
	ErrStateConsistency = errors.New("internal state inconsistent")
)
