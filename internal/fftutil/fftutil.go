// Package fftutil wraps algo-fft with the arbitrary-length transforms and
// numpy-style helpers needed for time-domain analysis of sampled spectra.
//
// Power-of-two lengths use an algo-fft plan directly. Other lengths are
// evaluated exactly with Bluestein's chirp-z algorithm on top of a
// power-of-two plan, so results do not depend on zero padding.
package fftutil

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// ErrEmptyInput is returned for zero-length transforms.
var ErrEmptyInput = errors.New("fftutil: input is empty")

// FFT returns the forward DFT X[k] = Σ x[n]·exp(-2πi·nk/N).
func FFT(x []complex128) ([]complex128, error) {
	if len(x) == 0 {
		return nil, ErrEmptyInput
	}
	if len(x) == 1 {
		return []complex128{x[0]}, nil
	}
	if isPowerOf2(len(x)) {
		return planForward(x)
	}
	return bluestein(x)
}

// IFFT returns the normalised inverse DFT x[n] = (1/N)·Σ X[k]·exp(2πi·nk/N).
func IFFT(x []complex128) ([]complex128, error) {
	if len(x) == 0 {
		return nil, ErrEmptyInput
	}
	n := len(x)
	conj := make([]complex128, n)
	for i, v := range x {
		conj[i] = cmplx.Conj(v)
	}
	y, err := FFT(conj)
	if err != nil {
		return nil, err
	}
	scale := 1 / float64(n)
	for i, v := range y {
		y[i] = complex(real(v)*scale, -imag(v)*scale)
	}
	return y, nil
}

// IRFFT returns the 2(m-1) real samples whose one-sided spectrum is half
// (length m, DC first). The imaginary parts of the DC and Nyquist bins are
// ignored, as with numpy.fft.irfft.
func IRFFT(half []complex128) ([]float64, error) {
	m := len(half)
	if m < 2 {
		return nil, fmt.Errorf("fftutil: irfft needs at least 2 bins, got %d", m)
	}
	n := 2 * (m - 1)
	full := make([]complex128, n)
	full[0] = complex(real(half[0]), 0)
	full[m-1] = complex(real(half[m-1]), 0)
	for k := 1; k < m-1; k++ {
		full[k] = half[k]
		full[n-k] = cmplx.Conj(half[k])
	}
	t, err := IFFT(full)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i, v := range t {
		out[i] = real(v)
	}
	return out, nil
}

// RFFT returns the full complex spectrum of a real signal.
func RFFT(x []float64) ([]complex128, error) {
	c := make([]complex128, len(x))
	for i, v := range x {
		c[i] = complex(v, 0)
	}
	return FFT(c)
}

// FFTShift moves the zero-time sample to the centre (numpy.fft.fftshift).
func FFTShift(x []float64) []float64 {
	return roll(x, len(x)/2)
}

// IFFTShift undoes [FFTShift] (numpy.fft.ifftshift).
func IFFTShift(x []float64) []float64 {
	return roll(x, -(len(x) / 2))
}

// CumSum returns the running sum of x.
func CumSum(x []float64) []float64 {
	out := make([]float64, len(x))
	sum := 0.0
	for i, v := range x {
		sum += v
		out[i] = sum
	}
	return out
}

func roll(x []float64, shift int) []float64 {
	n := len(x)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	shift = ((shift % n) + n) % n
	for i, v := range x {
		out[(i+shift)%n] = v
	}
	return out
}

func planForward(x []complex128) ([]complex128, error) {
	plan, err := algofft.NewPlan64(len(x))
	if err != nil {
		return nil, fmt.Errorf("fftutil: failed to create FFT plan: %w", err)
	}
	out := make([]complex128, len(x))
	if err := plan.Forward(out, x); err != nil {
		return nil, fmt.Errorf("fftutil: forward FFT failed: %w", err)
	}
	return out, nil
}

// bluestein evaluates an arbitrary-length DFT as a circular convolution with
// a chirp, computed with power-of-two transforms.
func bluestein(x []complex128) ([]complex128, error) {
	n := len(x)
	m := nextPowerOf2(2*n - 1)

	// w[k] = exp(-πi·k²/N); k² is reduced modulo 2N to keep the phase small.
	w := make([]complex128, n)
	for k := range n {
		k2 := (k * k) % (2 * n)
		w[k] = cmplx.Rect(1, -math.Pi*float64(k2)/float64(n))
	}

	a := make([]complex128, m)
	for k, v := range x {
		a[k] = v * w[k]
	}
	b := make([]complex128, m)
	b[0] = cmplx.Conj(w[0])
	for k := 1; k < n; k++ {
		b[k] = cmplx.Conj(w[k])
		b[m-k] = cmplx.Conj(w[k])
	}

	plan, err := algofft.NewPlan64(m)
	if err != nil {
		return nil, fmt.Errorf("fftutil: failed to create FFT plan: %w", err)
	}
	af := make([]complex128, m)
	if err := plan.Forward(af, a); err != nil {
		return nil, fmt.Errorf("fftutil: forward FFT failed: %w", err)
	}
	bf := make([]complex128, m)
	if err := plan.Forward(bf, b); err != nil {
		return nil, fmt.Errorf("fftutil: forward FFT failed: %w", err)
	}
	for i := range af {
		af[i] *= bf[i]
	}
	conv := make([]complex128, m)
	if err := plan.Inverse(conv, af); err != nil {
		return nil, fmt.Errorf("fftutil: inverse FFT failed: %w", err)
	}

	out := make([]complex128, n)
	for k := range n {
		out[k] = w[k] * conv[k]
	}
	return out, nil
}

func isPowerOf2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
