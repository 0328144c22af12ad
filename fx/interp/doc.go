// Package interp provides the curves used to fill parameter tracks between
// control points.
//
// Available curves:
//
//   - [Linear]:      piecewise linear through the knots
//   - [CubicSpline]: not-a-knot cubic spline, C2 continuous
//
// Both curves reproduce the knot values exactly and hold the first and last
// value constant outside the knot range.
package interp
