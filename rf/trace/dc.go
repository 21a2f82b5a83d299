package trace

import "math/cmplx"

// DCValue extrapolates a trace sampled at f_k = k·Δf to DC. The fit is a
// cubic through the conjugate-symmetric points at ±Δf and ±2Δf, whose value
// at zero is (4·Re y1 − Re y2)/3. A single sample is returned as its real
// part.
func DCValue(tr []complex128) float64 {
	if len(tr) < 2 {
		return real(tr[0])
	}
	return (4*real(tr[0]) - real(tr[1])) / 3
}

// ExtendToDC evaluates the conjugate-symmetric extension of a trace at f
// below its first sample. y1 and y2 are the samples at f1 < f2; the
// result is the cubic through ±f1 and ±f2. At f = 0 it is real.
func ExtendToDC(f1, f2 float64, y1, y2 complex128, f float64) complex128 {
	xs := [4]float64{-f2, -f1, f1, f2}
	ys := [4]complex128{cmplx.Conj(y2), cmplx.Conj(y1), y1, y2}
	var out complex128
	for i, xi := range xs {
		w := 1.0
		for j, xj := range xs {
			if j != i {
				w *= (f - xj) / (xi - xj)
			}
		}
		out += complex(w, 0) * ys[i]
	}
	return out
}
