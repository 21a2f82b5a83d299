package trace

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"sort"
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by trace helpers.
var (
	ErrLength        = errors.New("trace: length mismatch")
	ErrTooShort      = errors.New("trace: at least 2 points required")
	ErrNotIncreasing = errors.New("trace: x must be strictly increasing")
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// Magnitude returns |x[k]| for each point of a complex trace.
//
// The computation goes through algo-vecmath, which dispatches to SIMD
// kernels (AVX2, SSE2, NEON) when available.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(out, re, im)
	putScratch(buf)
	return out
}

// Power returns |x[k]|^2 for each point of a complex trace.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Power(out, re, im)
	putScratch(buf)
	return out
}

// DB returns 20·log10|x[k]|. Zero magnitudes map to -Inf.
func DB(in []complex128) []float64 {
	out := Magnitude(in)
	for i, v := range out {
		if v == 0 {
			out[i] = math.Inf(-1)
			continue
		}
		out[i] = 20 * math.Log10(v)
	}
	return out
}

// Phase returns arg(x[k]) in radians.
func Phase(in []complex128) []float64 {
	out := make([]float64, len(in))
	for i, c := range in {
		out[i] = cmplx.Phase(c)
	}
	return out
}

// PhaseDeg returns arg(x[k]) in degrees.
func PhaseDeg(in []complex128) []float64 {
	out := Phase(in)
	for i := range out {
		out[i] *= 180 / math.Pi
	}
	return out
}

// UnwrapPhase returns a new phase slice with +/-2*pi discontinuities removed.
func UnwrapPhase(phase []float64) []float64 {
	if len(phase) == 0 {
		return nil
	}
	out := make([]float64, len(phase))
	out[0] = phase[0]
	offset := 0.0
	for i := 1; i < len(phase); i++ {
		d := phase[i] - phase[i-1]
		switch {
		case d > math.Pi:
			offset -= 2 * math.Pi
		case d < -math.Pi:
			offset += 2 * math.Pi
		}
		out[i] = phase[i] + offset
	}
	return out
}

// GroupDelay computes -dφ/dω in seconds from an unwrapped phase sampled at
// freqHz. Interior points use a centred difference, endpoints one-sided
// differences.
func GroupDelay(freqHz, unwrapped []float64) ([]float64, error) {
	if len(unwrapped) < 2 {
		return nil, ErrTooShort
	}
	if len(freqHz) != len(unwrapped) {
		return nil, fmt.Errorf("%w: %d != %d", ErrLength, len(freqHz), len(unwrapped))
	}
	out := make([]float64, len(unwrapped))
	last := len(unwrapped) - 1
	for i := range unwrapped {
		lo, hi := i-1, i+1
		switch i {
		case 0:
			lo = 0
		case last:
			hi = last
		}
		dw := 2 * math.Pi * (freqHz[hi] - freqHz[lo])
		if dw <= 0 {
			return nil, fmt.Errorf("%w at index %d", ErrNotIncreasing, i)
		}
		out[i] = -(unwrapped[hi] - unwrapped[lo]) / dw
	}
	return out, nil
}

// InterpolateLinear performs piecewise-linear interpolation at queryX.
// Queries outside [x[0], x[len-1]] hold the edge values.
//
// x must be strictly increasing and have the same length as y.
func InterpolateLinear(x, y, queryX []float64) ([]float64, error) {
	if len(x) == 0 || len(y) == 0 {
		return nil, ErrTooShort
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d != %d", ErrLength, len(x), len(y))
	}
	for i := 1; i < len(x); i++ {
		if !(x[i] > x[i-1]) {
			return nil, fmt.Errorf("%w at index %d", ErrNotIncreasing, i)
		}
	}

	out := make([]float64, len(queryX))
	for i, q := range queryX {
		if q <= x[0] {
			out[i] = y[0]
			continue
		}
		if q >= x[len(x)-1] {
			out[i] = y[len(y)-1]
			continue
		}

		j := sort.SearchFloat64s(x, q)
		x0, x1 := x[j-1], x[j]
		t := (q - x0) / (x1 - x0)
		out[i] = y[j-1] + t*(y[j]-y[j-1])
	}
	return out, nil
}
