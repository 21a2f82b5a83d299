package fftutil

import "testing"

func BenchmarkFFT(b *testing.B) {
	sizes := []struct {
		name string
		size int
	}{
		{"1K", 1024},
		{"1000", 1000},
		{"4002", 4002},
	}

	for _, tc := range sizes {
		b.Run(tc.name, func(b *testing.B) {
			x := testSignal(tc.size)
			b.ResetTimer()
			for range b.N {
				if _, err := FFT(x); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
