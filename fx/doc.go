// Package fx holds the error taxonomy shared by the frame effects packages.
//
// The processing packages live below fx:
//
//   - [github.com/cwbudde/algo-vfx/fx/raster]:   rasters and the over operator
//   - [github.com/cwbudde/algo-vfx/fx/waypoint]: keyframe tracks and resolution
//   - [github.com/cwbudde/algo-vfx/fx/effect]:   bake/render lifecycle
//   - [github.com/cwbudde/algo-vfx/fx/layer]:    layer compositor
//   - [github.com/cwbudde/algo-vfx/fx/render]:   sequential render driver
//
// Every error returned by these packages wraps one of the sentinels below,
// so callers branch with errors.Is.
package fx
