package network_test

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-rf/rf/cmat"
	"github.com/cwbudde/algo-rf/rf/frequency"
	"github.com/cwbudde/algo-rf/rf/network"
)

// delayLine returns a matched lossless 2-port with the given delay.
func delayLine(freq frequency.Frequency, delay float64) network.Network {
	s := make([]cmat.Matrix, freq.Len())
	for k, f := range freq.Hz() {
		t := cmplx.Rect(1, -2*math.Pi*f*delay)
		s[k] = cmat.FromRows([][]complex128{{0, t}, {t, 0}})
	}
	n, _ := network.New("line", freq, s)
	return n
}

func ExampleCascade() {
	freq, _ := frequency.Linspace(1, 2, 3, frequency.GHz)
	total, _ := network.Cascade(delayLine(freq, 80e-12), delayLine(freq, 120e-12))

	for k, s21 := range total.At(1, 0) {
		fmt.Printf("%.1f GHz: %.0f deg\n", freq.At(k)/1e9, cmplx.Phase(s21)*180/math.Pi)
	}
	// Output:
	// 1.0 GHz: -72 deg
	// 1.5 GHz: -108 deg
	// 2.0 GHz: -144 deg
}

func ExampleDeembedRight() {
	freq, _ := frequency.Linspace(1, 2, 2, frequency.GHz)
	fixture := delayLine(freq, 40e-12)
	dut := delayLine(freq, 125e-12)
	total, _ := network.Cascade(dut, fixture)

	got, _ := network.DeembedRight(total, fixture)
	fmt.Printf("%.0f deg\n", cmplx.Phase(got.S[0].At(1, 0))*180/math.Pi)
	// Output:
	// -45 deg
}
