package network

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-rf/rf/cmat"
	"github.com/cwbudde/algo-rf/rf/frequency"
)

func rampNetwork(t *testing.T, freq frequency.Frequency) Network {
	t.Helper()
	s := make([]cmat.Matrix, freq.Len())
	for k, f := range freq.Hz() {
		g := f / 1e9
		s[k] = cmat.FromRows([][]complex128{{complex(g, -2 * g), 0.5}, {complex(1-g, g), 0}})
	}
	n, err := New("ramp", freq, s)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestInterpolateLinearIsExactOnRamps(t *testing.T) {
	src, _ := frequency.Linspace(1, 5, 5, frequency.GHz)
	dst, _ := frequency.Linspace(1.25, 4.75, 8, frequency.GHz)
	got, err := Interpolate(rampNetwork(t, src), dst)
	if err != nil {
		t.Fatal(err)
	}
	requireNetworksNearlyEqual(t, got, rampNetwork(t, dst), 1e-12)
}

func TestInterpolateMethods(t *testing.T) {
	src, _ := frequency.Linspace(0.1, 10, 100, frequency.GHz)
	dst, _ := frequency.Linspace(0.15, 9.95, 99, frequency.GHz)
	a := lineNetwork(t, src, 50, 80e-12, 0.01)
	want := lineNetwork(t, dst, 50, 80e-12, 0.01)

	tests := []struct {
		method Method
		eps    float64
	}{
		{Linear, 2e-3},
		{Polar, 1e-6},
		{Cubic, 1e-4},
	}
	for _, tc := range tests {
		t.Run(tc.method.String(), func(t *testing.T) {
			got, err := Interpolate(a, dst, WithMethod(tc.method))
			if err != nil {
				t.Fatal(err)
			}
			requireNetworksNearlyEqual(t, got, want, tc.eps)
		})
	}
}

func TestInterpolateOutOfRange(t *testing.T) {
	src, _ := frequency.Linspace(1, 5, 5, frequency.GHz)
	dst, _ := frequency.Linspace(0.5, 6, 12, frequency.GHz)
	n := rampNetwork(t, src)

	if _, err := Interpolate(n, dst); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	got, err := Interpolate(n, dst, WithExtrapolate())
	if err != nil {
		t.Fatal(err)
	}
	first, last := got.S[0].At(0, 0), got.S[got.Len()-1].At(0, 0)
	if first != n.S[0].At(0, 0) || last != n.S[n.Len()-1].At(0, 0) {
		t.Fatalf("edges not held: %v %v", first, last)
	}
}

func TestInterpolateSameGridIsCopy(t *testing.T) {
	n := lineNetwork(t, testGrid(), 55, 10e-12, 0)
	got, err := Interpolate(n, n.Freq)
	if err != nil {
		t.Fatal(err)
	}
	requireNetworksNearlyEqual(t, got, n, 0)
	got.S[0].Set(0, 0, 9)
	if n.S[0].At(0, 0) == 9 {
		t.Fatal("interpolation result aliases the source")
	}
}

func TestAlign(t *testing.T) {
	a := lineNetwork(t, testGrid(), 50, 100e-12, 0)
	fine, _ := frequency.Linspace(0.05, 5.05, 201, frequency.GHz)
	b := lineNetwork(t, fine, 50, 100e-12, 0)

	a2, b2, err := Align(a, b, WithMethod(Polar))
	if err != nil {
		t.Fatal(err)
	}
	if !b2.Freq.Equal(a.Freq, 0) || !a2.Freq.Equal(a.Freq, 0) {
		t.Fatal("grids not aligned")
	}
	for k, m := range b2.S {
		if d := cmplx.Abs(m.At(1, 0) - a.S[k].At(1, 0)); d > 1e-3 {
			t.Fatalf("point %d: aligned S21 off by %g", k, d)
		}
		if math.IsNaN(real(m.At(0, 0))) {
			t.Fatalf("point %d: NaN", k)
		}
	}
}
