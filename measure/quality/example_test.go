package quality_test

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-rf/measure/quality"
	"github.com/cwbudde/algo-rf/rf/cmat"
	"github.com/cwbudde/algo-rf/rf/frequency"
	"github.com/cwbudde/algo-rf/rf/network"
)

func ExampleCheckSE() {
	freq, _ := frequency.Linspace(0.1, 10, 100, frequency.GHz)
	s := make([]cmat.Matrix, freq.Len())
	for k, f := range freq.Hz() {
		t := cmplx.Rect(0.95, -2*math.Pi*f*200e-12)
		s[k] = cmat.FromRows([][]complex128{{0, t}, {t, 0}})
	}
	ntw, _ := network.New("attenuator", freq, s)

	rep := quality.CheckSE(ntw)
	for _, m := range rep.Metrics() {
		fmt.Printf("%-11s %6.2f %s\n", m.Kind, m.Value, m.Level)
	}
	fmt.Println("pass:", rep.Pass(quality.DefaultPassCriterion))
	// Output:
	// causality   100.00 good
	// passivity   100.00 good
	// reciprocity 100.00 good
	// pass: true
}
