package testutil

import (
	"math"
	"math/cmplx"
)

// Line returns S11 (= S22) and S21 (= S12) of a uniform transmission line
// with characteristic impedance zLine and one-way delay, seen from reference
// impedance z0 at frequency f. lossNpPerGHz adds a loss that grows linearly
// with frequency.
func Line(f, zLine, z0, delay, lossNpPerGHz float64) (s11, s21 complex128) {
	gamma := complex((zLine-z0)/(zLine+z0), 0)
	gl := complex(lossNpPerGHz*f/1e9, 2*math.Pi*f*delay)
	p := cmplx.Exp(-gl)
	den := 1 - gamma*gamma*p*p
	return gamma * (1 - p*p) / den, p * (1 - gamma*gamma) / den
}

// Grid returns n uniformly spaced points starting at step (no DC point),
// the layout expected by 2x-thru extraction.
func Grid(step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = step * float64(i+1)
	}
	return out
}
