// Package waypoint stores keyframes for effect parameters and expands them
// into dense per-frame value sequences.
//
// A [Schema] declares every parameter once, tagged [Numeric] or [Step].
// A [Track] holds waypoints: complete parameter snapshots pinned to integer
// frame times in [0, maxTime]. The waypoint at t=0 always exists.
//
// [Track.Resolve] produces a [Resolved] table. Numeric parameters are
// interpolated across every frame (not-a-knot cubic spline with more than
// three control points, linear otherwise) and optionally smoothed with a
// centered moving average. Step parameters hold each value until the next
// waypoint and are never interpolated or smoothed.
//
//	schema, _ := waypoint.NewSchema(
//		waypoint.Param{Name: "x", Kind: waypoint.Numeric, Default: 0.0},
//		waypoint.Param{Name: "on", Kind: waypoint.Step, Default: false},
//	)
//	track, _ := waypoint.NewTrack(schema, 20)
//	_ = track.Set(10, map[string]any{"x": 5, "on": true})
//	res, _ := track.Resolve(20, 0)
//	x, _ := res.Float("x", 7)
package waypoint
