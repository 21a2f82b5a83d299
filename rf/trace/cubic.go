package trace

import "math"

// Hermite4 computes cubic 4-point interpolation between x0 and x1 at
// fraction t in [0,1], using neighbours xm1 and x2 for the slopes.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}

// InterpolateCubic evaluates y, sampled on the uniform grid x0 + k·dx, at
// queryX with Hermite4 interpolation. Missing neighbours at the edges are
// extrapolated with a quadratic through the three edge samples (linearly
// for two samples); queries outside the grid hold the edge values.
func InterpolateCubic(x0, dx float64, y, queryX []float64) ([]float64, error) {
	if len(y) < 2 {
		return nil, ErrTooShort
	}
	if !(dx > 0) {
		return nil, ErrNotIncreasing
	}

	last := len(y) - 1
	at := func(k int) float64 {
		switch {
		case k < 0 && last >= 2:
			return 3*y[0] - 3*y[1] + y[2]
		case k < 0:
			return 2*y[0] - y[1]
		case k > last && last >= 2:
			return 3*y[last] - 3*y[last-1] + y[last-2]
		case k > last:
			return 2*y[last] - y[last-1]
		}
		return y[k]
	}

	out := make([]float64, len(queryX))
	for i, q := range queryX {
		pos := (q - x0) / dx
		if pos <= 0 {
			out[i] = y[0]
			continue
		}
		if pos >= float64(last) {
			out[i] = y[last]
			continue
		}
		k := int(math.Floor(pos))
		t := pos - float64(k)
		if t < 1e-12 {
			out[i] = y[k]
			continue
		}
		out[i] = Hermite4(t, at(k-1), at(k), at(k+1), at(k+2))
	}
	return out, nil
}
