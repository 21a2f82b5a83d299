package fftutil

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-rf/internal/testutil"
)

func naiveDFT(x []complex128) []complex128 {
	n := len(x)
	out := make([]complex128, n)
	for k := range n {
		var s complex128
		for j, v := range x {
			s += v * cmplx.Rect(1, -2*math.Pi*float64(j*k)/float64(n))
		}
		out[k] = s
	}
	return out
}

func testSignal(n int) []complex128 {
	x := make([]complex128, n)
	for i := range x {
		x[i] = complex(math.Sin(0.3*float64(i))+0.1*float64(i), math.Cos(0.7*float64(i)))
	}
	return x
}

func TestFFTMatchesNaiveDFT(t *testing.T) {
	for _, n := range []int{1, 2, 6, 8, 10, 15, 64, 100} {
		x := testSignal(n)
		got, err := FFT(x)
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		testutil.RequireComplexSliceNearlyEqual(t, got, naiveDFT(x), 1e-9*float64(n))
	}
}

func TestIFFTRoundTrip(t *testing.T) {
	for _, n := range []int{3, 16, 18, 31} {
		x := testSignal(n)
		spec, err := FFT(x)
		if err != nil {
			t.Fatal(err)
		}
		back, err := IFFT(spec)
		if err != nil {
			t.Fatal(err)
		}
		testutil.RequireComplexSliceNearlyEqual(t, back, x, 1e-10)
	}
}

func TestIRFFT(t *testing.T) {
	// A flat one-sided spectrum is a unit impulse at t=0.
	got, err := IRFFT([]complex128{1, 1, 1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1, 0, 0, 0, 0, 0, 0, 0}
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)

	// DC only spreads evenly, imaginary parts of DC/Nyquist are ignored.
	got, err = IRFFT([]complex128{1 + 5i, 0, 0 + 3i})
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, got, []float64{0.25, 0.25, 0.25, 0.25}, 1e-12)

	if _, err := IRFFT([]complex128{1}); err == nil {
		t.Fatal("expected error for single bin")
	}
}

func TestIRFFTThenRFFTRecoversSpectrum(t *testing.T) {
	half := []complex128{0.5, 0.2 - 0.1i, -0.3 + 0.4i, 0.1i, 0.05, 0.2}
	x, err := IRFFT(half)
	if err != nil {
		t.Fatal(err)
	}
	spec, err := RFFT(x)
	if err != nil {
		t.Fatal(err)
	}
	want := append([]complex128(nil), half...)
	want[len(want)-1] = complex(real(want[len(want)-1]), 0)
	testutil.RequireComplexSliceNearlyEqual(t, spec[:len(half)], want, 1e-12)
}

func TestShifts(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4, 5}
	testutil.RequireSliceNearlyEqual(t, FFTShift(x), []float64{3, 4, 5, 0, 1, 2}, 0)
	testutil.RequireSliceNearlyEqual(t, IFFTShift(FFTShift(x)), x, 0)

	odd := []float64{0, 1, 2, 3, 4}
	testutil.RequireSliceNearlyEqual(t, FFTShift(odd), []float64{3, 4, 0, 1, 2}, 0)
	testutil.RequireSliceNearlyEqual(t, IFFTShift(FFTShift(odd)), odd, 0)
}

func TestCumSum(t *testing.T) {
	testutil.RequireSliceNearlyEqual(t, CumSum([]float64{1, 2, 3, -6}), []float64{1, 3, 6, 0}, 0)
}
