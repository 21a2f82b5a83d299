// Package trace provides helpers for a single S-parameter trace, i.e. one
// matrix element sampled over a frequency grid.
//
// Magnitudes are computed with algo-vecmath kernels. Phase helpers follow
// the usual conventions: [Phase] is wrapped to (-π, π], [UnwrapPhase]
// removes 2π jumps, and [GroupDelay] differentiates unwrapped phase against
// a possibly non-uniform frequency grid.
//
// # Usage
//
//	s21 := ntw.At(1, 0)
//	il := trace.DB(s21)
//	tau, _ := trace.GroupDelay(ntw.Freq.Hz(), trace.UnwrapPhase(trace.Phase(s21)))
package trace
