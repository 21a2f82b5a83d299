package ieeep370

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-rf/internal/fftutil"
	"github.com/cwbudde/algo-rf/rf/cmat"
	"github.com/cwbudde/algo-rf/rf/network"
	"github.com/cwbudde/algo-rf/rf/trace"
)

// ErrMidpointImpedance is returned when the TDR impedance at the 2x-thru
// mid-point is not a positive finite value.
var ErrMidpointImpedance = errors.New("ieeep370: invalid mid-point impedance")

// halves holds the raw split on the harmonic grid.
type halves struct {
	side1, side2 network.Network
	mid          int
	z11x         float64
}

// splitHarmonic runs the no-zero-crossing 2x-thru extraction on a 2-port
// whose grid is f_k = k·Δf, k = 1..m.
func splitHarmonic(thru network.Network, z0, preResponse float64) (halves, error) {
	f := thru.Freq.Hz()
	m := len(f)
	dt := 1 / (2 * float64(m) * f[0])
	ts := max(m+int(math.Round(-preResponse/dt)), 0)

	s21 := thru.At(1, 0)
	t21, err := impulse(trace.DCValue(s21), s21)
	if err != nil {
		return halves{}, err
	}
	x := argmax(t21)

	dc11, err := dcReflection(thru.At(0, 0), f, ts)
	if err != nil {
		return halves{}, err
	}
	t11, err := impulse(dc11, thru.At(0, 0))
	if err != nil {
		return halves{}, err
	}
	step := fftutil.CumSum(t11)[x]
	z11x := -thru.Z0[0] * (step + 1) / (step - 1)
	if !(z11x > 0) || math.IsInf(z11x, 0) {
		return halves{}, fmt.Errorf("%w: %g Ω at sample %d", ErrMidpointImpedance, z11x, x)
	}

	ren, err := thru.Renormalize(z11x)
	if err != nil {
		return halves{}, err
	}
	s11, s12, s21r, s22 := ren.At(0, 0), ren.At(0, 1), ren.At(1, 0), ren.At(1, 1)

	e00, err := gatedReflection(s11, f, ts, x)
	if err != nil {
		return halves{}, err
	}
	e00p, err := gatedReflection(s22, f, ts, x)
	if err != nil {
		return halves{}, err
	}

	e11 := make([]complex128, m)
	e11p := make([]complex128, m)
	v21 := make([]complex128, m)
	v12 := make([]complex128, m)
	for k := range m {
		e11[k] = (s22[k] - e00p[k]) / s12[k]
		e11p[k] = (s11[k] - e00[k]) / s21r[k]
		v21[k] = s21r[k] * (1 - e11[k]*e11p[k])
		v12[k] = s12[k] * (1 - e11[k]*e11p[k])
	}
	e01 := branchSqrt(v21)
	e10 := branchSqrt(v12)

	box1 := make([]cmat.Matrix, m)
	box2 := make([]cmat.Matrix, m)
	for k := range m {
		box1[k] = cmat.FromRows([][]complex128{{e00[k], e01[k]}, {e01[k], e11[k]}})
		box2[k] = cmat.FromRows([][]complex128{{e11p[k], e10[k]}, {e10[k], e00p[k]}})
	}
	side1, err := network.New(thru.Name+"_side1", thru.Freq, box1, z11x)
	if err != nil {
		return halves{}, err
	}
	side2, err := network.New(thru.Name+"_side2", thru.Freq, box2, z11x)
	if err != nil {
		return halves{}, err
	}
	if side1, err = side1.Renormalize(z0); err != nil {
		return halves{}, err
	}
	if side2, err = side2.Renormalize(z0); err != nil {
		return halves{}, err
	}
	return halves{side1: side1, side2: side2, mid: x, z11x: z11x}, nil
}

// impulse returns fftshift(irfft([dc, s...])).
func impulse(dc float64, s []complex128) ([]float64, error) {
	half := make([]complex128, len(s)+1)
	half[0] = complex(dc, 0)
	copy(half[1:], s)
	t, err := fftutil.IRFFT(half)
	if err != nil {
		return nil, err
	}
	return fftutil.FFTShift(t), nil
}

// comFilter is the receiver noise filter of IEEE 802.3 clause 93A with
// reference frequency fr.
func comFilter(f, fr float64) complex128 {
	x := f / fr
	return 1 / complex(1-3.414214*x*x+x*x*x*x, 2.613126*(x-x*x*x))
}

// dcReflection chooses the DC value of a reflection trace so that the
// COM-filtered step response is zero at sample ts. The step response is
// affine in the DC value: a unit DC adds (ts+1)/N at sample ts.
func dcReflection(s []complex128, f []float64, ts int) (float64, error) {
	fr := f[len(f)-1] / 2
	filtered := make([]complex128, len(s))
	for k := range s {
		filtered[k] = comFilter(f[k], fr) * s[k]
	}
	t, err := impulse(0, filtered)
	if err != nil {
		return 0, err
	}
	n := float64(len(t))
	h0 := fftutil.CumSum(t)[min(ts, len(t)-1)]
	return -h0 * n / float64(ts+1), nil
}

// gatedReflection zeroes the reflection impulse response from sample x on
// and transforms the remainder back to the original frequency points.
func gatedReflection(s []complex128, f []float64, ts, x int) ([]complex128, error) {
	dc, err := dcReflection(s, f, ts)
	if err != nil {
		return nil, err
	}
	t, err := impulse(dc, s)
	if err != nil {
		return nil, err
	}
	for i := x; i < len(t); i++ {
		t[i] = 0
	}
	unshifted := fftutil.IFFTShift(t)
	buf := make([]complex128, len(unshifted))
	for i, v := range unshifted {
		buf[i] = complex(v, 0)
	}
	spec, err := fftutil.FFT(buf)
	if err != nil {
		return nil, err
	}
	return spec[1 : len(s)+1], nil
}

// branchSqrt returns a square root of v that is continuous in phase: the
// sign flips whenever the principal root jumps by more than π/2.
func branchSqrt(v []complex128) []complex128 {
	out := make([]complex128, len(v))
	sign := complex(1, 0)
	for i, x := range v {
		r := sign * cmplx.Sqrt(x)
		if i > 0 && out[i-1] != 0 && r != 0 {
			if math.Abs(cmplx.Phase(r/out[i-1])) > math.Pi/2 {
				sign = -sign
				r = -r
			}
		}
		out[i] = r
	}
	return out
}

func argmax(x []float64) int {
	best := 0
	for i, v := range x {
		if v > x[best] {
			best = i
		}
	}
	return best
}
