package network

import (
	"testing"

	"github.com/cwbudde/algo-rf/internal/testutil"
	"github.com/cwbudde/algo-rf/rf/frequency"
)

func benchFourPort(b *testing.B, n int) Network {
	b.Helper()
	freq := frequency.MustNew(testutil.Grid(10e6, n), frequency.GHz)
	return sidesFromPairs(b, lineNetwork(b, freq, 55, 50e-12, 0.02), lineNetwork(b, freq, 45, 60e-12, 0.02))
}

func BenchmarkCascade4Port(b *testing.B) {
	a := benchFourPort(b, 2000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Cascade(a, a); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkInverse4Port(b *testing.B) {
	a := benchFourPort(b, 2000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Inverse(a); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkInterpolatePolar(b *testing.B) {
	a := benchFourPort(b, 2000)
	dst, _ := frequency.Linspace(0.015, 19.995, 1500, frequency.GHz)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Interpolate(a, dst, WithMethod(Polar)); err != nil {
			b.Fatal(err)
		}
	}
}
