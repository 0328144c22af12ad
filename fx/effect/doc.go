// Package effect implements the bake/render lifecycle shared by every frame
// effect.
//
// An effect is split into an immutable [Schema] (declared parameters and
// their defaults) and a mutable [Instance] (waypoints, resolved values and
// the baked flag). The pixel work is delegated to a [Kernel]. Kernels that
// carry time-stepped state also implement [Stepper] and are advanced exactly
// one step per frame, replaying skipped frames.
//
// Every schema carries two reserved parameters: [ParamProtectMask], a
// per-pixel weight where 1 keeps the input untouched, and [ParamAlpha], the
// global strength of the effect. When either is active the kernel output is
// blended back toward the input frame.
//
// Lifecycle:
//
//	Unbaked --Bake--> Baked
//	   ^                |
//	   +--waypoint edit-+
//
// Render on an Unbaked instance bakes it with the instance's default bake
// options and logs a warning.
package effect
