// Package render drives a frame source through a chain of effects and hands
// every result to a writer, one integer time step at a time.
//
// The loop is strictly sequential: for each t in the interval it sets the
// [Clock], fetches the base frame, threads it through the effects in order
// and writes it. Effects read the current frame from the same Clock, which
// implements effect.Timeline.
//
// Frames are written as PNG files named frame%0Nd.png by [PNGWriter].
package render
