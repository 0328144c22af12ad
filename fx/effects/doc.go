// Package effects holds the reference kernels shipped with the renderer.
//
//   - [HSVShift]: scales and rotates hue, saturation and value per pixel
//   - [Crossfade]: eases the frame toward a second source over time
//   - [Drift]: shakes the frame along a damped random walk (stateful)
//
// [DefaultRegistry] registers all of them under their effect names.
package effects
