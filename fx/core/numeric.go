// Package core holds small numeric helpers shared by the fx packages.
package core

import "math"

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// ToUint8 rounds v to the nearest integer and clamps it to [0,255].
// NaN maps to 0.
func ToUint8(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}

	if v >= 255 {
		return 255
	}

	return uint8(math.Round(v))
}

// RoundTime rounds a fractional frame time to the nearest integer index,
// halves away from zero.
func RoundTime(t float64) int {
	return int(math.Round(t))
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
