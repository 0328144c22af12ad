// Package layer stacks independently timed clips and resolves the visible
// frame at any time.
//
// A [Compositor] keeps clips in registration order and a separate stacking
// order, bottom layer first. Both directions of that mapping live in one
// permutation type whose mutators re-derive the inverse and check it before
// returning, so the two views never drift apart.
//
// Clips are addressed by an [ID] built with [ByName] or [ByLayer]. A failed
// name lookup wraps fx.ErrNotFound, a layer outside the stack wraps
// fx.ErrLayerRange.
//
// A Compositor is itself a [Clip], so stacks can be nested.
package layer
